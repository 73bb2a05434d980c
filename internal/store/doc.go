// Package store provides SQLite-backed run history for suite runs and
// fixture comparisons.
//
// The store is append-only:
//   - runs: one row per `run` or `compare` invocation
//   - test_results: per-executable outcomes of a suite run
//   - comparisons: digests and failure counts of a fixture comparison
//
// # Ordering
//
// Runs carry a logical seq assigned at insert time. Every query orders by
// seq, then id COLLATE BINARY, so listings are stable regardless of
// wall-clock skew between writers.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

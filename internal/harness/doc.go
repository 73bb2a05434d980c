// Package harness discovers, runs and aggregates independent test executables.
//
// # Suite Layout
//
// A suite root holds category directories; each category holds one
// directory per test, and each test directory holds an executable with the
// same name as the directory:
//
//	tests/auto/
//	  chemkit/
//	    atom/atom          <- runs
//	    bond/bond          <- runs
//	    ring/              <- no executable, skipped silently
//	  plugins/
//	    mmff/mmff          <- runs
//
// Missing categories and missing executables are not errors.
//
// # Test Contract
//
// Each executable is started with the configured silent flag (default
// "-silent") from its own directory, with the library and plugin search
// paths added to its environment only. Its exit code is ignored. The last
// non-blank line of its standard output must read
//
//	Totals: <n> passed, <n> failed, <n> skipped
//
// A test passes when its failed count is zero. An executable that cannot be
// started, times out, or prints no Totals line is an *InvocationError: it is
// counted as run and not passed, and reported as ERROR rather than FAIL.
//
// # Configuration
//
// Runner settings come from an optional YAML file validated against an
// embedded CUE schema. Library and plugin paths are relative to the suite
// root; the defaults below suit a build tree where the suite lives at
// <build>/tests/auto:
//
//	root: build/tests/auto
//	categories: [chemkit, io, md, plugins]
//	silent_flag: -silent
//	library_path_var: LD_LIBRARY_PATH
//	library_path: ../../lib
//	plugin_path_var: CHEMKIT_PLUGIN_PATH
//	plugin_path: ../../lib/chemkit/plugins
//	timeout: 10m
//
// Tests run one at a time; the runner blocks on each child process.
package harness

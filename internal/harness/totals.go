package harness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/chemcheck/internal/record"
)

// totalsPattern matches the summary line. Anything after "skipped" (newer
// test frameworks append blacklisted counts and timings) is ignored.
var totalsPattern = regexp.MustCompile(`^Totals: \d+ passed, \d+ failed, \d+ skipped\b`)

// ParseTotals extracts the pass/fail/skip counts from captured test output.
//
// The summary is the last non-blank line; test executables end their output
// with it followed by a blank line. Counts are read from whitespace tokens
// 1, 3 and 5 of that line.
func ParseTotals(output string) (record.TestSummary, error) {
	trimmed := strings.TrimRight(output, " \t\r\n")
	if trimmed == "" {
		return record.TestSummary{}, fmt.Errorf("%w: output is empty", ErrNoTotals)
	}

	lines := strings.Split(trimmed, "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if !totalsPattern.MatchString(last) {
		return record.TestSummary{}, fmt.Errorf("%w: last line is %q", ErrNoTotals, last)
	}

	fields := strings.Fields(last)
	counts := make([]int, 3)
	for i, pos := range []int{1, 3, 5} {
		n, err := strconv.Atoi(strings.TrimSuffix(fields[pos], ","))
		if err != nil {
			return record.TestSummary{}, fmt.Errorf("%w: token %d: %v", ErrNoTotals, pos, err)
		}
		counts[i] = n
	}

	return record.TestSummary{Passed: counts[0], Failed: counts[1], Skipped: counts[2]}, nil
}

package shared

import (
	"regexp"
	"strconv"
	"strings"
)

// DiffStats summarizes a diff for review classification.
// Fields are ordered to minimize memory padding.
type DiffStats struct {
	FilesChanged int
	Insertions   int
	Deletions    int
}

// TestCounts summarizes a test run parsed from command output.
// Fields are ordered to minimize memory padding.
type TestCounts struct {
	Passed int
	Failed int
	Errors int
}

// ParseNumstat reads `git diff --numstat` output. Binary files report
// "-" counts and are skipped.
func ParseNumstat(out string) DiffStats {
	var stats DiffStats
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		ins, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		del, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		stats.FilesChanged++
		stats.Insertions += ins
		stats.Deletions += del
	}
	return stats
}

// CountUnifiedDiff derives diff stats from a unified diff when numstat
// is unavailable.
func CountUnifiedDiff(diff string) DiffStats {
	var stats DiffStats
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			stats.FilesChanged++
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			stats.Insertions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			stats.Deletions++
		}
	}
	return stats
}

// Test summary patterns covering pytest ("2 passed, 1 failed, 1 error")
// and jest ("Tests: 1 failed, 2 passed, 3 total") style output.
var (
	passedRe = regexp.MustCompile(`(\d+) passed`)
	failedRe = regexp.MustCompile(`(\d+) failed`)
	errorRe  = regexp.MustCompile(`(\d+) error`)
)

// ParseTestOutput extracts pass/fail/error counts from test runner
// output. The last occurrence of each pattern wins so that a final
// summary line overrides per-file noise.
func ParseTestOutput(out string) TestCounts {
	return TestCounts{
		Passed: lastCount(passedRe, out),
		Failed: lastCount(failedRe, out),
		Errors: lastCount(errorRe, out),
	}
}

func lastCount(re *regexp.Regexp, out string) int {
	matches := re.FindAllStringSubmatch(out, -1)
	if len(matches) == 0 {
		return 0
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0
	}
	return n
}

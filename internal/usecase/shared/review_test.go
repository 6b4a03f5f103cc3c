package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumstat(t *testing.T) {
	out := "10\t2\tinternal/app/main.go\n" +
		"0\t5\tREADME.md\n" +
		"-\t-\tassets/logo.png\n"

	stats := ParseNumstat(out)

	assert.Equal(t, 2, stats.FilesChanged) // binary file skipped
	assert.Equal(t, 10, stats.Insertions)
	assert.Equal(t, 7, stats.Deletions)
}

func TestParseNumstat_Empty(t *testing.T) {
	assert.Equal(t, DiffStats{}, ParseNumstat(""))
}

func TestCountUnifiedDiff(t *testing.T) {
	diff := `--- a/foo.go
+++ b/foo.go
@@ -1,3 +1,4 @@
 package foo
+import "fmt"
-var old = 1
+var young = 2
`

	stats := CountUnifiedDiff(diff)

	assert.Equal(t, 1, stats.FilesChanged)
	assert.Equal(t, 2, stats.Insertions)
	assert.Equal(t, 1, stats.Deletions)
}

func TestParseTestOutput_Pytest(t *testing.T) {
	out := "collected 6 items\n\n" +
		"===== 4 passed, 1 failed, 1 error in 2.31s ====="

	counts := ParseTestOutput(out)

	assert.Equal(t, TestCounts{Passed: 4, Failed: 1, Errors: 1}, counts)
}

func TestParseTestOutput_Jest(t *testing.T) {
	out := "Tests:       2 failed, 7 passed, 9 total\nTime:        1.3s"

	counts := ParseTestOutput(out)

	assert.Equal(t, 7, counts.Passed)
	assert.Equal(t, 2, counts.Failed)
	assert.Equal(t, 0, counts.Errors)
}

func TestParseTestOutput_LastSummaryWins(t *testing.T) {
	out := "1 passed\nrerun\n3 passed, 0 failed"

	counts := ParseTestOutput(out)

	assert.Equal(t, 3, counts.Passed)
	assert.Equal(t, 0, counts.Failed)
}

func TestParseTestOutput_NoCounts(t *testing.T) {
	assert.Equal(t, TestCounts{}, ParseTestOutput("make: nothing to do"))
}

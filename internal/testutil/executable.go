package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// RequireShell skips the test when fake test executables cannot run.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake test executables are shell scripts")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// WriteTestExecutable creates root/category/name/name as a shell script
// running body and returns its path.
func WriteTestExecutable(t *testing.T, root, category, name, body string) string {
	t.Helper()
	dir := filepath.Join(root, category, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("create test dir: %v", err)
	}
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write test executable: %v", err)
	}
	return path
}

// TotalsScript returns a script body that prints some progress output, the
// Totals line and a trailing blank line, then exits with the failed count.
func TotalsScript(passed, failed, skipped int) string {
	return fmt.Sprintf(`echo "********* Start testing *********"
echo "PASS   : initTestCase()"
printf 'Totals: %d passed, %d failed, %d skipped\n\n'
exit %d`, passed, failed, skipped, failed)
}

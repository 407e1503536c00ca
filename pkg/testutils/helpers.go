// Package testutils provides shared helpers for tests that need a sandbox
// directory populated with files.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateSandboxFiles populates dir with the given files, creating parent
// directories as needed. Paths are sandbox-relative in slash form.
func CreateSandboxFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// CreateDefaultSandbox populates dir with a small project layout.
func CreateDefaultSandbox(t *testing.T, dir string) {
	t.Helper()
	CreateSandboxFiles(t, dir, map[string]string{
		"main.py":     "print('hello')\n",
		"lib/util.py": "def helper():\n    pass\n",
		"README.md":   "# project\n",
	})
}

// StripANSI removes ANSI escape sequences from a string, so view output
// can be asserted on as plain text.
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}

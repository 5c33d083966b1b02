// Package files holds small helpers that edit repository files.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// AppendIgnore ensures the given pattern is present in .gitignore at repoRoot.
// It creates the file if missing and adds a separating newline when the
// existing file does not end with one. Idempotent.
func AppendIgnore(repoRoot, pattern string) error {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	needsNewline := false
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		needsNewline = len(b) > 0 && b[len(b)-1] != '\n'
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	line := pattern + "\n"
	if needsNewline {
		line = "\n" + line
	}
	_, err = f.WriteString(line)
	return err
}

// GeneratedIgnores returns the local artifacts drcscan may write into a
// repository that should not be committed.
func GeneratedIgnores() []string {
	return []string{
		".drcscan_audit.jsonl",
	}
}

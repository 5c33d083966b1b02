// Package obsolete implements scanner.Scanner with a single compiled
// case-insensitive alternation over a catalog's entries.
package obsolete

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/types"
)

const name = "obsolete-reports"

// Scanner matches catalog entries literally, ignoring case. The compiled
// pattern is read-only after New.
type Scanner struct {
	cat *catalog.Catalog
	re  *regexp.Regexp
}

// New compiles cat into a scanner. Entries are quoted, so they never act as
// patterns. Alternatives keep catalog order: RE2 alternation is leftmost-first,
// so when two entries match at the same offset the earlier listed one wins.
func New(cat *catalog.Catalog) (*Scanner, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, catalog.ErrEmpty
	}
	entries := cat.Entries()
	quoted := make([]string, len(entries))
	for i, e := range entries {
		quoted[i] = regexp.QuoteMeta(e)
	}
	re, err := regexp.Compile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile catalog %s: %w", cat.Note(), err)
	}
	return &Scanner{cat: cat, re: re}, nil
}

// Must is like New but panics on error. Intended for the built-in catalog.
func Must(cat *catalog.Catalog) *Scanner {
	s, err := New(cat)
	if err != nil {
		panic(err)
	}
	return s
}

// Scan implements scanner.Scanner.
func (s *Scanner) Scan(text string) []types.Finding {
	out := []types.Finding{}
	if text == "" {
		return out
	}
	seen := make(map[string]struct{})
	// byte offsets are converted incrementally; matches arrive in order
	prevByte, chars, line := 0, 0, 1
	for _, loc := range s.re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		chars += utf8.RuneCountInString(text[prevByte:start])
		line += strings.Count(text[prevByte:start], "\n")
		prevByte = start

		matched := text[start:end]
		key := strings.ToLower(matched)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		entry, ok := s.cat.Lookup(matched)
		if !ok {
			entry = matched
		}
		out = append(out, types.Finding{
			Name:       matched,
			Entry:      entry,
			Start:      chars,
			End:        chars + utf8.RuneCountInString(matched),
			Line:       line,
			Suggestion: Suggestion(matched, s.cat.Note()),
		})
	}
	return out
}

// Catalog implements scanner.Scanner.
func (s *Scanner) Catalog() *catalog.Catalog { return s.cat }

// Version implements scanner.Scanner.
func (s *Scanner) Version() string {
	return fmt.Sprintf("%s/%s@%s", name, s.cat.Note(), s.cat.Version())
}

// Suggestion is the remediation statement attached to every finding.
func Suggestion(report, note string) string {
	return fmt.Sprintf("Report %s is obsolete in S4 HANA, migrated to DRC as per SAP Note %s", report, note)
}

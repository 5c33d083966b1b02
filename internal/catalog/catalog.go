// Package catalog holds the immutable list of obsolete report names a scanner
// is compiled from. A catalog is a versioned constant tied to one compliance
// note: changing it means building a new Catalog, never mutating one.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	semver "github.com/blang/semver/v4"
	xxhash "github.com/cespare/xxhash/v2"
)

var (
	ErrEmpty     = errors.New("catalog has no entries")
	ErrBlank     = errors.New("catalog entry is blank")
	ErrDuplicate = errors.New("catalog entry is duplicated")
)

// Catalog is an ordered, read-only set of obsolete identifiers.
type Catalog struct {
	note    string
	version semver.Version
	entries []string
	byLower map[string]string
	digest  string
}

// New validates entries and returns a catalog. Entries are literal text and
// are compared case-insensitively; two entries differing only in case are
// rejected.
func New(note, version string, entries []string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	v, err := semver.ParseTolerant(strings.TrimSpace(version))
	if err != nil {
		return nil, fmt.Errorf("catalog version %q: %w", version, err)
	}
	c := &Catalog{
		note:    strings.TrimSpace(note),
		version: v,
		entries: make([]string, 0, len(entries)),
		byLower: make(map[string]string, len(entries)),
	}
	for i, e := range entries {
		if strings.TrimSpace(e) == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrBlank)
		}
		key := strings.ToLower(e)
		if prev, ok := c.byLower[key]; ok {
			return nil, fmt.Errorf("entry %d %q (already listed as %q): %w", i, e, prev, ErrDuplicate)
		}
		c.byLower[key] = e
		c.entries = append(c.entries, e)
	}
	c.digest = digest(c.note, c.entries)
	return c, nil
}

// Entries returns the entries in catalog order. The slice is a copy.
func (c *Catalog) Entries() []string {
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int { return len(c.entries) }

// Note is the compliance note the catalog belongs to, e.g. "2480067".
func (c *Catalog) Note() string { return c.note }

func (c *Catalog) Version() string { return c.version.String() }

// Lookup resolves a name in any casing to its canonical catalog spelling.
// Names that only match under Unicode case folding (such as "ſ" for "s")
// resolve too.
func (c *Catalog) Lookup(name string) (string, bool) {
	if e, ok := c.byLower[strings.ToLower(name)]; ok {
		return e, true
	}
	for _, e := range c.entries {
		if strings.EqualFold(e, name) {
			return e, true
		}
	}
	return "", false
}

// Digest fingerprints note and entries. Two catalogs with the same digest
// produce the same findings for any text.
func (c *Catalog) Digest() string { return c.digest }

func digest(note string, entries []string) string {
	h := xxhash.New()
	_, _ = h.WriteString(note)
	for _, e := range entries {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(e)
	}
	s := strconv.FormatUint(h.Sum64(), 16)
	return strings.Repeat("0", 16-len(s)) + s
}

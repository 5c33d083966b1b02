package scanner

import (
	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/types"
)

// Scanner finds catalog entries in text.
// Implementations must be safe for concurrent use.
type Scanner interface {
	// Scan returns the first occurrence of every distinct catalog entry in
	// text, ordered by position. It never returns nil.
	Scan(text string) []types.Finding

	// Catalog returns the catalog the scanner was compiled from.
	Catalog() *catalog.Catalog

	// Version describes the scanner and its catalog for reports.
	Version() string
}

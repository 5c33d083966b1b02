package core

import (
	"context"
	"sync"

	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/engine"
	"github.com/redactyl/drcscan/internal/scanner/obsolete"
	"github.com/redactyl/drcscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Finding = types.Finding
type Unit = types.Unit
type UnitResult = types.UnitResult
type Usage = types.Usage
type Result = engine.Result

var defaultEngine = sync.OnceValue(func() *engine.Engine {
	e, err := engine.New(obsolete.Must(catalog.Default()), engine.Options{})
	if err != nil {
		panic(err)
	}
	return e
})

// Scan returns the obsolete reports referenced in text, using the built-in
// SAP Note 2480067 catalog. The result is never nil.
func Scan(text string) []Finding {
	return defaultEngine().Findings(text)
}

// Detect annotates every unit with its findings, preserving input order.
func Detect(ctx context.Context, units []Unit) ([]UnitResult, error) {
	return defaultEngine().Detect(ctx, units)
}

// ScanTree scans an abapGit-style source tree rooted at cfg.Root.
func ScanTree(ctx context.Context, cfg Config) (Result, error) {
	return defaultEngine().ScanTree(ctx, cfg)
}

// CatalogEntries returns the built-in catalog in its canonical order.
func CatalogEntries() []string { return catalog.Default().Entries() }

// Note returns the compliance note id of the built-in catalog.
func Note() string { return catalog.Default().Note() }

package factory

import (
	"fmt"

	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/scanner"
	"github.com/redactyl/drcscan/internal/scanner/obsolete"
)

// Config is the subset of configuration needed to create a scanner.
type Config struct {
	// CatalogPath points at a YAML catalog. Empty selects the built-in
	// SAP Note 2480067 catalog.
	CatalogPath string
}

// New creates a scanner for the configured catalog.
func New(cfg Config) (scanner.Scanner, error) {
	cat, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	scnr, err := obsolete.New(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}
	return scnr, nil
}

// LoadCatalog returns the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}

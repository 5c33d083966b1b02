package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML shape of a catalog.
type File struct {
	Note    string   `yaml:"note"`
	Version string   `yaml:"version"`
	Entries []string `yaml:"entries"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version == "" {
		f.Version = "0.0.0"
	}
	return New(f.Note, f.Version, f.Entries)
}

// Marshal renders c in the LoadFile format.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(File{Note: c.Note(), Version: c.Version(), Entries: c.Entries()})
}

package scanner

import (
	"strings"

	"github.com/redactyl/drcscan/internal/types"
)

// VirtualPathSeparator delimits components in unit locations.
const VirtualPathSeparator = "::"

// UnitPath is the display location of a unit: "PROGRAM::INCLUDE", with a
// third component for class implementation sections. The include is omitted
// when it equals the program.
func UnitPath(u types.Unit) string {
	parts := []string{u.PgmName}
	if u.IncName != "" && !strings.EqualFold(u.IncName, u.PgmName) {
		parts = append(parts, u.IncName)
	}
	if u.ClassImplementation != nil && *u.ClassImplementation != "" {
		parts = append(parts, *u.ClassImplementation)
	}
	return BuildVirtualPath(parts...)
}

// ParseVirtualPath splits a virtual path into its components.
// Example: "ZPROG::ZPROG_F01" -> ["ZPROG", "ZPROG_F01"]
func ParseVirtualPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, VirtualPathSeparator)
}

// BuildVirtualPath constructs a virtual path from components.
func BuildVirtualPath(components ...string) string {
	return strings.Join(components, VirtualPathSeparator)
}

// GetArtifactRoot extracts the program from a unit path.
func GetArtifactRoot(path string) string {
	parts := ParseVirtualPath(path)
	if len(parts) > 0 {
		return parts[0]
	}
	return path
}

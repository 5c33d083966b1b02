package report

import (
	"sort"

	"github.com/redactyl/drcscan/internal/scanner"
	"github.com/redactyl/drcscan/internal/types"
)

// Item is one finding placed in its unit, the shape every renderer consumes.
type Item struct {
	Location string // file path, or PROGRAM::INCLUDE for submitted units
	Unit     string // always PROGRAM::INCLUDE
	Line     int    // absolute line when the unit carries start_line
	Code     string // unit text, for context views
	Finding  types.Finding
}

// Flatten lists the findings of results sorted by location then line.
func Flatten(results []types.UnitResult) []Item {
	var items []Item
	for _, r := range results {
		unit := scanner.UnitPath(r.Unit)
		loc := r.Source
		if loc == "" {
			loc = unit
		}
		for _, f := range findingsOf(r) {
			items = append(items, Item{Location: loc, Unit: unit, Line: AbsLine(r.Unit, f), Code: r.Text(), Finding: f})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Location == items[j].Location {
			return items[i].Line < items[j].Line
		}
		return items[i].Location < items[j].Location
	})
	return items
}

// AbsLine maps a finding's line within the unit code to a line in the
// enclosing object, using start_line when present.
func AbsLine(u types.Unit, f types.Finding) int {
	if u.StartLine != nil && *u.StartLine > 0 {
		return *u.StartLine + f.Line - 1
	}
	return f.Line
}

// findingsOf recovers findings for results decoded from JSON, which only
// carry usages.
func findingsOf(r types.UnitResult) []types.Finding {
	if len(r.Findings) > 0 || len(r.Usages) == 0 {
		return r.Findings
	}
	out := make([]types.Finding, 0, len(r.Usages))
	for _, u := range r.Usages {
		out = append(out, types.Finding{
			Name:       u.TargetName,
			Entry:      u.TargetName,
			Start:      u.StartCharInUnit,
			End:        u.EndCharInUnit,
			Line:       lineAt(r.Text(), u.StartCharInUnit),
			Suggestion: u.SuggestedStatement,
		})
	}
	return out
}

func lineAt(text string, char int) int {
	line, i := 1, 0
	for _, r := range text {
		if i >= char {
			break
		}
		if r == '\n' {
			line++
		}
		i++
	}
	return line
}

// Count returns the number of findings across results.
func Count(results []types.UnitResult) int {
	n := 0
	for _, r := range results {
		n += len(findingsOf(r))
	}
	return n
}

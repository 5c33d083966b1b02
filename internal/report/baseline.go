package report

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/redactyl/drcscan/internal/scanner"
	"github.com/redactyl/drcscan/internal/types"
)

// DefaultBaselineFile is the baseline path used when none is configured.
const DefaultBaselineFile = "drcscan.baseline.json"

type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, err
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, results []types.UnitResult) error {
	b := Baseline{Items: map[string]bool{}}
	for _, r := range results {
		for _, f := range findingsOf(r) {
			b.Items[key(r.Unit, f)] = true
		}
	}
	return b.Write(path)
}

// Write stores the baseline at path.
func (b Baseline) Write(path string) error {
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// Has reports whether the item is recorded in the baseline.
func (b Baseline) Has(it Item) bool { return b.Items[ItemKey(it)] }

// ItemKey is the baseline key of a flattened finding.
func ItemKey(it Item) string {
	return it.Unit + "|" + strings.ToLower(it.Finding.Name)
}

// FilterNew drops findings already recorded in base. Units are kept, with
// usages rebuilt from the remaining findings.
func FilterNew(results []types.UnitResult, base Baseline) []types.UnitResult {
	out := make([]types.UnitResult, 0, len(results))
	for _, r := range results {
		var keep []types.Finding
		for _, f := range findingsOf(r) {
			if !base.Items[key(r.Unit, f)] {
				keep = append(keep, f)
			}
		}
		nr := types.NewUnitResult(r.Unit, keep)
		nr.Source = r.Source
		out = append(out, nr)
	}
	return out
}

func key(u types.Unit, f types.Finding) string {
	return scanner.UnitPath(u) + "|" + strings.ToLower(f.Name)
}

// ShouldFail reports whether results should fail a CI run. failOn is "any"
// (the default) or "none".
func ShouldFail(results []types.UnitResult, failOn string) bool {
	if strings.EqualFold(strings.TrimSpace(failOn), "none") {
		return false
	}
	return Count(results) > 0
}

// ValidFailOn reports whether v is an accepted --fail-on value.
func ValidFailOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "any", "none":
		return true
	}
	return false
}

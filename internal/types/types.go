package types

// Boundary values that are fixed by the response contract.
const (
	TableNone        = "None"
	TargetTypeReport = "Report"
	UsageKey         = "mb_txn_usage"
)

// Finding is one reported occurrence of a catalog entry within a scanned text.
// Start and End are character (code point) offsets, End exclusive.
type Finding struct {
	Name       string `json:"name"`  // substring as matched in the text
	Entry      string `json:"entry"` // canonical catalog spelling
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Line       int    `json:"line"`
	Suggestion string `json:"suggestion"`
}

// Unit is one ABAP code fragment submitted for scanning.
type Unit struct {
	PgmName             string  `json:"pgm_name"`
	IncName             string  `json:"inc_name"`
	Type                string  `json:"type"`
	Name                *string `json:"name"`
	ClassImplementation *string `json:"class_implementation"`
	StartLine           *int    `json:"start_line"`
	EndLine             *int    `json:"end_line"`
	Code                *string `json:"code"`
}

// Text returns the unit's code, treating a missing code field as empty text.
func (u Unit) Text() string {
	if u.Code == nil {
		return ""
	}
	return *u.Code
}

// Usage is the per-finding mapping attached to a unit result.
type Usage struct {
	Table              string    `json:"table"`
	TargetType         string    `json:"target_type"`
	TargetName         string    `json:"target_name"`
	StartCharInUnit    int       `json:"start_char_in_unit"`
	EndCharInUnit      int       `json:"end_char_in_unit"`
	UsedFields         []string  `json:"used_fields"`
	Ambiguous          bool      `json:"ambiguous"`
	SuggestedStatement string    `json:"suggested_statement"`
	SuggestedFields    *[]string `json:"suggested_fields"`
}

// NewUsage renders a finding with the contract's fixed boundary fields.
func NewUsage(f Finding) Usage {
	return Usage{
		Table:              TableNone,
		TargetType:         TargetTypeReport,
		TargetName:         f.Name,
		StartCharInUnit:    f.Start,
		EndCharInUnit:      f.End,
		UsedFields:         []string{},
		Ambiguous:          false,
		SuggestedStatement: f.Suggestion,
		SuggestedFields:    nil,
	}
}

// UnitResult is a unit annotated with its findings. Field order matches the
// wire format: unit fields first, then the usage list.
type UnitResult struct {
	Unit
	Usages []Usage `json:"mb_txn_usage"`

	// Findings keeps the richer scanner output for local reporting.
	Findings []Finding `json:"-"`
	// Source is the file the unit was read from, empty for submitted units.
	Source string `json:"-"`
}

// NewUnitResult attaches findings to a unit. Usages is never nil.
func NewUnitResult(u Unit, findings []Finding) UnitResult {
	usages := make([]Usage, 0, len(findings))
	for _, f := range findings {
		usages = append(usages, NewUsage(f))
	}
	return UnitResult{Unit: u, Usages: usages, Findings: findings}
}

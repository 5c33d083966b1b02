package report

import (
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/types"
)

const (
	toolName = "drcscan"
	toolURI  = "https://me.sap.com/notes/2480067"
	level    = "warning"
)

// WriteSARIF writes findings as SARIF 2.1.0. There is one rule per canonical
// catalog entry that has at least one result; version is the scanner version.
func WriteSARIF(w io.Writer, results []types.UnitResult, cat *catalog.Catalog, version string) error {
	doc, err := BuildSARIF(results, cat, version)
	if err != nil {
		return err
	}
	return doc.PrettyWrite(w)
}

// BuildSARIF assembles the SARIF document without writing it.
func BuildSARIF(results []types.UnitResult, cat *catalog.Catalog, version string) (*sarif.Report, error) {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, err
	}
	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if version != "" {
		run.Tool.Driver.Version = &version
	}
	note := catalog.DefaultNote
	if cat != nil {
		note = cat.Note()
	}
	for _, it := range Flatten(results) {
		ruleID := ruleIDFor(it.Finding, cat)
		rule := run.AddRule(ruleID).
			WithDescription("Obsolete report " + ruleID + " (SAP Note " + note + ")").
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

		region := sarif.NewRegion().WithStartLine(it.Line)
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(it.Location)).
				WithRegion(region),
		)
		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(it.Finding.Suggestion)).
			WithLevel(level).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	doc.AddRun(run)
	return doc, nil
}

func ruleIDFor(f types.Finding, cat *catalog.Catalog) string {
	if cat != nil {
		if e, ok := cat.Lookup(f.Name); ok {
			return e
		}
	}
	if f.Entry != "" {
		return f.Entry
	}
	return f.Name
}

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/drcscan/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// PrintTable renders findings as a bordered table followed by the summary footer.
func PrintTable(w io.Writer, results []types.UnitResult, opts PrintOptions) error {
	items := Flatten(results)
	if len(items) == 0 {
		fmt.Fprintln(w, "No obsolete reports found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("LOCATION", "LINE", "REPORT", "SUGGESTION")
		for _, it := range items {
			name := it.Finding.Name
			if !opts.NoColor {
				name = colorName(name)
			}
			if err := table.Append([]string{it.Location, strconv.Itoa(it.Line), name, it.Finding.Suggestion}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	printFooter(w, results, items, opts)
	return nil
}

// PrintText renders one line per finding, grep-friendly.
func PrintText(w io.Writer, results []types.UnitResult, opts PrintOptions) {
	items := Flatten(results)
	if len(items) == 0 {
		fmt.Fprintln(w, "No obsolete reports found ✅")
	} else {
		fmt.Fprintf(w, "Findings: %d\n", len(items))
		for _, it := range items {
			name := it.Finding.Name
			if !opts.NoColor {
				name = colorName(name)
			}
			fmt.Fprintf(w, "%s:%d  %s  %s\n", it.Location, it.Line, name, it.Finding.Suggestion)
		}
	}
	printFooter(w, results, items, opts)
}

// WriteJSON writes results in the same shape the HTTP endpoint returns.
func WriteJSON(w io.Writer, results []types.UnitResult) error {
	if results == nil {
		results = []types.UnitResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printFooter(w io.Writer, results []types.UnitResult, items []Item, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	distinct := map[string]bool{}
	for _, it := range items {
		distinct[it.Finding.Entry] = true
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (units: %d, distinct reports: %d)\n", len(items), len(results), len(distinct))
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

func colorName(s string) string {
	return "\x1b[33m" + s + "\x1b[0m" // yellow
}

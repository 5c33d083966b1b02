package drcscan

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/drcscan/internal/audit"
	"github.com/spf13/cobra"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show audited scan runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(flagPath)
			records, err := audit.NewAuditLog(abs).LoadHistory()
			if err != nil {
				return err
			}
			if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
				records = records[:flagHistoryLimit]
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No audited scans yet. Run 'drcscan scan --audit'.")
				return nil
			}
			table := tablewriter.NewWriter(out)
			table.Header("WHEN", "SCAN ID", "UNITS", "FINDINGS", "NEW", "TOP REPORTS")
			for _, r := range records {
				row := []string{
					r.Timestamp.Local().Format("2006-01-02 15:04"),
					shortID(r.ScanID),
					strconv.Itoa(r.Units),
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.NewFindings),
					topEntries(r.EntryCounts, 3),
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "repository whose audit log to read")
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most N runs (0 = all)")
	rootCmd.AddCommand(cmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// topEntries renders the n most frequent entries as "NAME×count".
func topEntries(counts map[string]int, n int) string {
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] == counts[names[j]] {
			return names[i] < names[j]
		}
		return counts[names[i]] > counts[names[j]]
	})
	if len(names) > n {
		names = names[:n]
	}
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s×%d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

package drcscan

import (
	"fmt"
	"path/filepath"

	"github.com/redactyl/drcscan/internal/config"
	"github.com/redactyl/drcscan/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update baseline from current scan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(flagPath)
			fc, err := config.Resolve(abs)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			eng, _, err := newEngine(fc)
			if err != nil {
				return err
			}
			run, err := scanTree(cmd, eng, fc, abs, false)
			if err != nil {
				return err
			}
			path := baselineFile(abs, fc)
			if err := report.SaveBaseline(path, run.results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings recorded in %s\n", report.Count(run.results), path)
			return nil
		},
	}
	addScanFlags(update)

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}

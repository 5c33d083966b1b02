package drcscan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON            bool
	flagSARIF           bool
	flagThreads         int
	flagFailOn          string
	flagNoColor         bool
	flagDryRun          bool
	flagNoCache         bool
	flagDefaultExcludes bool
	flagCatalog         string
	flagLogLevel        string
	flagLogJSON         bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the drcscan CLI.
var rootCmd = &cobra.Command{
	Use:           "drcscan",
	Short:         "Find obsolete SAP tax reports in ABAP code",
	Long:          "drcscan scans ABAP code units for reports made obsolete by SAP Note 2480067 and suggests their DRC replacement. It runs as an HTTP service or over local abapGit trees.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the drcscan CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON (same shape as the HTTP endpoint)")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit 1 on new findings: any | none (default any)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "show what would be scanned without scanning")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the in-memory result cache")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (abapGit metadata, node_modules, images, etc.)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog YAML file (default: built-in SAP Note 2480067 list)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: trace | debug | info | warn | error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")
}

package drcscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactyl/drcscan/internal/config"
	"github.com/redactyl/drcscan/internal/files"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgOutput          string
	cfgAddr            string
	cfgCatalog         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgInclude         string
	cfgExclude         string
	cfgFailOn          string
	cfgNoColor         bool
	cfgDefaultExcludes bool
	cfgGitignore       bool
	cfgGlobal          bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .drcscan.yml with the selected options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", config.LocalNames[0], "output file path")
	initCmd.Flags().BoolVar(&cfgGlobal, "global", false, "write the global config ($XDG_CONFIG_HOME/drcscan/config.yml) instead")
	initCmd.Flags().StringVar(&cfgAddr, "addr", "", "listen address for serve")
	initCmd.Flags().StringVar(&cfgCatalog, "catalog", "", "catalog YAML file")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", defaultMaxBytes, "skip files larger than this")
	initCmd.Flags().StringVar(&cfgInclude, "include", "", "comma-separated include globs")
	initCmd.Flags().StringVar(&cfgExclude, "exclude", "", "comma-separated exclude globs")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "any", "any | none")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "also add drcscan's generated files to .gitignore")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	fc := config.FileConfig{
		Addr:            optStrPtr(cfgAddr),
		Catalog:         optStrPtr(cfgCatalog),
		Include:         optStrPtr(cfgInclude),
		Exclude:         optStrPtr(cfgExclude),
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Threads:         intPtr(cfgThreads),
		FailOn:          optStrPtr(cfgFailOn),
		NoColor:         boolPtr(cfgNoColor),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	out := cfgOutput
	if cfgGlobal {
		if out = config.GlobalPath(); out == "" {
			return fmt.Errorf("no config directory; set XDG_CONFIG_HOME or HOME")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)

	if cfgGitignore {
		root := filepath.Dir(out)
		for _, p := range files.GeneratedIgnores() {
			if err := files.AppendIgnore(root, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

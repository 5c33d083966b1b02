package drcscan

import (
	"fmt"
	"runtime/debug"

	semver "github.com/blang/semver/v4"
	"github.com/redactyl/drcscan/internal/scanner/factory"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the drcscan and catalog versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := factory.New(factory.Config{CatalogPath: flagCatalog})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "drcscan %s\n", buildVersion())
			fmt.Fprintf(out, "scanner %s (%d entries, digest %s)\n", s.Version(), s.Catalog().Len(), s.Catalog().Digest())
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// buildVersion normalises the linked version and appends the VCS revision
// when the binary carries one.
func buildVersion() string {
	v := version
	if sv, err := semver.ParseTolerant(v); err == nil {
		v = sv.String()
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return v + "+" + s.Value[:7]
			}
		}
	}
	return v
}

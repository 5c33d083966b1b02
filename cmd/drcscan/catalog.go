package drcscan

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/drcscan/internal/catalog"
	"github.com/redactyl/drcscan/internal/scanner/factory"
	"github.com/redactyl/drcscan/internal/scanner/obsolete"
	"github.com/spf13/cobra"
)

var flagCatalogOut string

type catalogJSON struct {
	Note    string   `json:"note"`
	Version string   `json:"version"`
	Digest  string   `json:"digest"`
	Entries []string `json:"entries"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the obsolete reports drcscan looks for",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := factory.LoadCatalog(flagCatalog)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(catalogJSON{Note: cat.Note(), Version: cat.Version(), Digest: cat.Digest(), Entries: cat.Entries()})
			}
			fmt.Fprintf(out, "SAP Note %s, catalog %s (%d entries, digest %s)\n", cat.Note(), cat.Version(), cat.Len(), cat.Digest())
			table := tablewriter.NewWriter(out)
			table.Header("#", "REPORT")
			for i, e := range cat.Entries() {
				if err := table.Append([]string{strconv.Itoa(i + 1), e}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}

	check := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a catalog YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			s, err := obsolete.New(cat)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d entries, scanner %s, digest %s)\n", args[0], cat.Len(), s.Version(), cat.Digest())
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML, a starting point for alternates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := factory.LoadCatalog(flagCatalog)
			if err != nil {
				return err
			}
			b, err := catalog.Marshal(cat)
			if err != nil {
				return err
			}
			if flagCatalogOut == "" || flagCatalogOut == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(flagCatalogOut, b, 0644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", flagCatalogOut)
			return nil
		},
	}
	export.Flags().StringVarP(&flagCatalogOut, "output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(check, export)
}

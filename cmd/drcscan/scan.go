package drcscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redactyl/drcscan/internal/audit"
	"github.com/redactyl/drcscan/internal/config"
	"github.com/redactyl/drcscan/internal/engine"
	"github.com/redactyl/drcscan/internal/files"
	"github.com/redactyl/drcscan/internal/report"
	"github.com/redactyl/drcscan/internal/server"
	"github.com/redactyl/drcscan/internal/tui"
	"github.com/redactyl/drcscan/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagPath         string
	flagUnits        string
	flagInclude      string
	flagExclude      string
	flagMaxBytes     int64
	flagTable        bool
	flagText         bool
	flagBaseline     string
	flagAudit        bool
	flagUploadURL    string
	flagUploadToken  string
	flagNoUploadMeta bool
	flagTUI          bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan ABAP sources for obsolete reports",
		Long:  "Scan an abapGit-style source tree (-p) or a JSON array of code units (--units) and report references to obsolete reports.",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)
	addScanFlags(cmd)
	cmd.Flags().StringVar(&flagUnits, "units", "", "JSON file with an array of code units ('-' for stdin) instead of a tree")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output one line per finding")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse findings in an interactive terminal UI")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a record of this run to the audit log")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST results (JSON) to this URL after scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
}

// addScanFlags registers the tree-walking flags shared by scan, watch and
// baseline update.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (default 1 MiB)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file (default "+report.DefaultBaselineFile+")")
}

const defaultMaxBytes int64 = 1 << 20

func runScan(cmd *cobra.Command, _ []string) error {
	failed, err := scanOnce(cmd)
	if err != nil {
		return err
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

// scanRun is the outcome of collecting results for one scan.
type scanRun struct {
	root     string
	results  []types.UnitResult
	files    int
	duration time.Duration
}

// scanOnce runs one scan and renders it. It reports whether the run should
// fail per --fail-on.
func scanOnce(cmd *cobra.Command) (bool, error) {
	out := cmd.OutOrStdout()
	abs, _ := filepath.Abs(flagPath)
	fc, err := config.Resolve(abs)
	if err != nil {
		return false, fmt.Errorf("config: %w", err)
	}
	failOn := pickString(flagFailOn, fc.FailOn, nil)
	if !report.ValidFailOn(failOn) {
		return false, fmt.Errorf("invalid --fail-on %q (want any | none)", failOn)
	}

	eng, log, err := newEngine(fc)
	if err != nil {
		return false, err
	}
	machine := flagJSON || flagSARIF

	var run scanRun
	if flagUnits != "" {
		run, err = detectUnitsFile(contextOf(cmd), eng, flagUnits, cmd.InOrStdin())
	} else {
		run, err = scanTree(cmd, eng, fc, abs, !machine)
	}
	if err != nil {
		return false, err
	}
	if flagDryRun {
		fmt.Fprintf(cmd.ErrOrStderr(), "Would scan %d files under %s\n", run.files, run.root)
		return false, nil
	}

	baselinePath := baselineFile(abs, fc)
	baseline, _ := report.LoadBaseline(baselinePath)
	fresh := report.FilterNew(run.results, baseline)

	if flagTUI {
		var rescan func() ([]types.UnitResult, error)
		if flagUnits != "-" {
			rescan = func() ([]types.UnitResult, error) {
				var again scanRun
				var err error
				if flagUnits != "" {
					again, err = detectUnitsFile(contextOf(cmd), eng, flagUnits, nil)
				} else {
					again, err = scanTree(cmd, eng, fc, abs, false)
				}
				return again.results, err
			}
		}
		if err := tui.Run(run.results, baseline, tui.Options{Root: abs, BaselinePath: baselinePath, Rescan: rescan}); err != nil {
			return false, err
		}
		return false, nil
	}

	opts := report.PrintOptions{NoColor: noColor(fc, out), Duration: run.duration, FilesScanned: run.files}
	switch {
	case flagSARIF:
		s := eng.Scanner()
		if err := report.WriteSARIF(out, fresh, s.Catalog(), s.Version()); err != nil {
			return false, fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		if err := report.WriteJSON(out, fresh); err != nil {
			return false, err
		}
	case flagText:
		report.PrintText(out, fresh, opts)
	default:
		if err := report.PrintTable(out, fresh, opts); err != nil {
			return false, err
		}
	}

	if flagAudit {
		cat := eng.Scanner().Catalog()
		rec := audit.CreateScanRecord(run.root, run.results, fresh, run.files, run.duration,
			audit.Catalog{Version: cat.Version(), Digest: cat.Digest()}, baselinePath)
		al := audit.NewAuditLog(abs)
		if err := al.LogScan(rec); err != nil {
			log.Warn("audit log not written", "error", err)
		} else if filepath.Dir(al.Path()) == abs {
			// the log is not under .git; keep it out of version control
			_ = files.AppendIgnore(abs, filepath.Base(al.Path()))
		}
	}

	// Optional upload step: do not fail the scan on upload errors
	if flagUploadURL != "" {
		if err := uploadResults(abs, flagUploadURL, flagUploadToken, flagNoUploadMeta, fresh); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "upload warning:", err)
		}
	}

	return report.ShouldFail(fresh, failOn), nil
}

func scanTree(cmd *cobra.Command, eng *engine.Engine, fc config.FileConfig, abs string, progress bool) (scanRun, error) {
	maxBytes := pickInt64(flagMaxBytes, fc.MaxBytes, nil)
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	cfg := engine.Config{
		Root:            abs,
		IncludeGlobs:    pickString(flagInclude, fc.Include, nil),
		ExcludeGlobs:    pickString(flagExclude, fc.Exclude, nil),
		MaxBytes:        maxBytes,
		DefaultExcludes: defaultExcludes(cmd, fc),
		DryRun:          flagDryRun,
	}

	errOut := cmd.ErrOrStderr()
	total := 0
	if progress {
		_, _ = fmt.Fprintf(errOut, "Scanning %s for %d obsolete reports...\n", abs, eng.Scanner().Catalog().Len())
		total, _ = engine.CountTargets(cfg)
	}
	progressed := 0
	if total > 0 {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(errOut, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	res, err := eng.ScanTree(contextOf(cmd), cfg)
	if err != nil {
		return scanRun{}, fmt.Errorf("scan error: %w", err)
	}
	if total > 0 {
		_, _ = fmt.Fprintln(errOut)
	}
	return scanRun{root: abs, results: res.Results, files: res.FilesScanned, duration: res.Duration}, nil
}

// detectUnitsFile scans a JSON unit batch, validated the same way the HTTP
// endpoint validates request bodies.
func detectUnitsFile(ctx context.Context, eng *engine.Engine, path string, stdin io.Reader) (scanRun, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return scanRun{}, fmt.Errorf("read units: %w", err)
	}
	units, verr := server.DecodeUnits(json.RawMessage(raw))
	if verr != nil {
		problems := make([]string, 0, len(verr.Detail))
		for _, d := range verr.Detail {
			problems = append(problems, fmt.Sprintf("%v: %s", d.Loc[1:], d.Msg))
		}
		return scanRun{}, fmt.Errorf("invalid units in %s: %s", path, strings.Join(problems, "; "))
	}
	started := time.Now()
	results, err := eng.Detect(ctx, units)
	if err != nil {
		return scanRun{}, err
	}
	return scanRun{root: path, results: results, duration: time.Since(started)}, nil
}

func baselineFile(root string, fc config.FileConfig) string {
	p := pickString(flagBaseline, fc.Baseline, nil)
	if p == "" {
		p = report.DefaultBaselineFile
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

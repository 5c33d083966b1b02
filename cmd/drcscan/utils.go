package drcscan

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/redactyl/drcscan/internal/config"
	"github.com/redactyl/drcscan/internal/engine"
	"github.com/redactyl/drcscan/internal/logging"
	"github.com/redactyl/drcscan/internal/scanner/factory"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newEngine builds the scanner, logger and engine from flags and fc.
func newEngine(fc config.FileConfig) (*engine.Engine, hclog.Logger, error) {
	log := newLogger(fc)
	scnr, err := factory.New(factory.Config{CatalogPath: pickString(flagCatalog, fc.Catalog, nil)})
	if err != nil {
		return nil, nil, err
	}
	cacheSize := pickInt(0, fc.CacheSize, nil)
	if flagNoCache {
		cacheSize = -1
	}
	eng, err := engine.New(scnr, engine.Options{
		Threads:   pickInt(flagThreads, fc.Threads, nil),
		CacheSize: cacheSize,
		Logger:    log,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Debug("scanner ready", "scanner", scnr.Version(), "entries", scnr.Catalog().Len(), "digest", scnr.Catalog().Digest())
	return eng, log, nil
}

func newLogger(fc config.FileConfig) hclog.Logger {
	return logging.New("drcscan", pickString(flagLogLevel, fc.LogLevel, nil), pickBool(flagLogJSON, fc.LogJSON, nil), os.Stderr)
}

// noColor disables color when asked to, or when out is not a terminal.
func noColor(fc config.FileConfig, out io.Writer) bool {
	if pickBool(flagNoColor, fc.NoColor, nil) || os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := out.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

// defaultExcludes honours an explicit flag first, then config, then on.
func defaultExcludes(cmd *cobra.Command, fc config.FileConfig) bool {
	if cmd.Flags().Changed("default-excludes") {
		return flagDefaultExcludes
	}
	if fc.DefaultExcludes != nil {
		return *fc.DefaultExcludes
	}
	return true
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

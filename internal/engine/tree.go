package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redactyl/drcscan/internal/ignore"
	"github.com/redactyl/drcscan/internal/types"
)

// Config controls local tree scanning.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	DefaultExcludes bool
	DryRun          bool
	Progress        func()
}

// Result contains unit results and basic scan statistics.
type Result struct {
	Results      []types.UnitResult
	FilesScanned int
	Duration     time.Duration
}

// ScanTree walks cfg.Root, turns every eligible file into a unit and scans it.
func (e *Engine) ScanTree(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	started := time.Now()

	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	var units []types.Unit
	var sources []string
	err := Walk(ctx, cfg, ign, func(rel string, data []byte) {
		res.FilesScanned++
		if cfg.Progress != nil {
			cfg.Progress()
		}
		if cfg.DryRun {
			return
		}
		units = append(units, UnitFromFile(rel, data))
		sources = append(sources, rel)
	})
	if err != nil {
		return res, fmt.Errorf("walk %s: %w", cfg.Root, err)
	}

	results, err := e.Detect(ctx, units)
	if err != nil {
		return res, err
	}
	for i := range results {
		results[i].Source = sources[i]
	}
	res.Results = results
	res.Duration = time.Since(started)
	e.log.Debug("tree scanned", "root", cfg.Root, "files", res.FilesScanned, "duration", res.Duration)
	return res, nil
}

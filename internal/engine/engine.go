package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redactyl/drcscan/internal/cache"
	"github.com/redactyl/drcscan/internal/scanner"
	"github.com/redactyl/drcscan/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultCacheSize is the number of distinct code texts memoised by default.
const DefaultCacheSize = 4096

// Options tunes an Engine.
type Options struct {
	Threads   int // worker count (0 = GOMAXPROCS)
	CacheSize int // memoised texts (0 = DefaultCacheSize, <0 = off)
	Logger    hclog.Logger
}

// Engine runs a scanner over units. It is safe for concurrent use; the only
// shared state is the read-only scanner and the internally locked cache.
type Engine struct {
	scnr    scanner.Scanner
	threads int
	cache   *cache.Findings
	log     hclog.Logger
}

// New builds an engine around scnr.
func New(scnr scanner.Scanner, opts Options) (*Engine, error) {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	c, err := cache.New(size)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{scnr: scnr, threads: threads, cache: c, log: log}, nil
}

// Scanner returns the scanner the engine was built with.
func (e *Engine) Scanner() scanner.Scanner { return e.scnr }

// Findings scans text, consulting the cache first.
func (e *Engine) Findings(text string) []types.Finding {
	key := cache.Key(e.scnr.Catalog().Digest(), text)
	if fs, ok := e.cache.Get(key); ok {
		return fs
	}
	fs := e.scnr.Scan(text)
	e.cache.Add(key, fs)
	return fs
}

// Detect scans every unit independently and returns results in input order.
// It stops early only when ctx is cancelled.
func (e *Engine) Detect(ctx context.Context, units []types.Unit) ([]types.UnitResult, error) {
	started := time.Now()
	out := make([]types.UnitResult, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)
	for i := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = types.NewUnitResult(units[i], e.Findings(units[i].Text()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if e.log.IsDebug() {
		n := 0
		for _, r := range out {
			n += len(r.Findings)
		}
		e.log.Debug("detected", "units", len(units), "findings", n, "cached", e.cache.Len(), "duration", time.Since(started))
	}
	return out, nil
}

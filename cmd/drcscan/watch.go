package drcscan

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run scan whenever sources under --path change",
		RunE:  runWatch,
	}
	addScanFlags(cmd)
	cmd.Flags().BoolVar(&flagText, "text", false, "output one line per finding")
	rootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	root, _ := filepath.Abs(flagPath)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, root); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	deb := newDebouncer(watchDebounce)
	defer deb.stop()
	deb.fire()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deb.C:
			if _, err := scanOnce(cmd); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", root)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredWatchPath(root, ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, ev.Name)
				}
			}
			deb.touch()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "watch error:", err)
		}
	}
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && skipWatchDir(d.Name()) {
				return filepath.SkipDir
			}
			return w.Add(p)
		}
		return nil
	})
}

// debouncer coalesces bursts of touch calls into a single value on C once
// the burst has been quiet for the configured delay.
type debouncer struct {
	C     chan struct{}
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{C: make(chan struct{}, 1), delay: delay}
}

// fire queues a value immediately. A pending value is not duplicated.
func (d *debouncer) fire() {
	select {
	case d.C <- struct{}{}:
	default:
	}
}

// touch restarts the quiet period.
func (d *debouncer) touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

func skipWatchDir(name string) bool {
	return name == ".git" || name == "node_modules"
}

// ignoredWatchPath filters events caused by drcscan's own output and VCS
// bookkeeping so a scan never retriggers itself.
func ignoredWatchPath(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skipWatchDir(part) {
			return true
		}
	}
	base := filepath.Base(name)
	return base == ".drcscan_audit.jsonl" || strings.HasSuffix(base, ".baseline.json") || base == ".gitignore"
}

package engine

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/redactyl/drcscan/internal/ignore"
)

// IgnoreFileDirective skips a whole file when present anywhere in it,
// usually inside an ABAP line comment.
const IgnoreFileDirective = "drcscan:ignore-file"

// Walk traverses cfg.Root and invokes handle for each eligible file with its
// slash-separated path relative to the root.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, ok := eligible(cfg, ign, p, d)
		if !ok {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if bytes.Contains(b, []byte(IgnoreFileDirective)) || looksBinary(b) {
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// eligible applies every filter that does not need the file's content.
func eligible(cfg Config, ign ignore.Matcher, p string, d fs.DirEntry) (string, bool) {
	rel, err := filepath.Rel(cfg.Root, p)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !allowedByGlobs(rel, cfg) {
		return "", false
	}
	if ign.Match(rel) {
		return "", false
	}
	if cfg.MaxBytes > 0 {
		if info, _ := d.Info(); info != nil && info.Size() > cfg.MaxBytes {
			return "", false
		}
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return "", false
	}
	return rel, true
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}

// CountTargets estimates the number of files Walk would hand out without
// reading them.
func CountTargets(cfg Config) (int, error) {
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	count := 0
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := eligible(cfg, ign, p, d); ok {
			count++
		}
		return nil
	})
	return count, err
}

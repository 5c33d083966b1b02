package drcscan

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSkipWatchDir(t *testing.T) {
	assert.True(t, skipWatchDir(".git"))
	assert.True(t, skipWatchDir("node_modules"))
	assert.False(t, skipWatchDir(".github"))
	assert.False(t, skipWatchDir(".gitlab"))
	assert.False(t, skipWatchDir("src"))
}

func TestIgnoredWatchPath(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{".git/refs/heads/main", true},
		{"node_modules/x/index.js", true},
		{".drcscan_audit.jsonl", true},
		{"drcscan.baseline.json", true},
		{".gitignore", true},
		{"src/zpay.prog.abap", false},
		{".github/workflows/x.yml", false},
		{".gitlab-ci.yml", false},
		{"zfi/node_modules_old/z.abap", false},
	}
	for _, tc := range cases {
		t.Run(tc.rel, func(t *testing.T) {
			assert.Equal(t, tc.want, ignoredWatchPath(root, filepath.Join(root, filepath.FromSlash(tc.rel))))
		})
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	for i := 0; i < 5; i++ {
		d.touch()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-d.C:
	case <-time.After(time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-d.C:
		t.Fatal("burst produced more than one rescan")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncer_FireDoesNotQueueTwice(t *testing.T) {
	d := newDebouncer(time.Hour)
	d.fire()
	d.fire()
	assert.Len(t, d.C, 1)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

// clearEnv isolates a test from the caller's environment and any .env file
// in the package directory.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddr, EnvPort, EnvCatalog, EnvLogLevel, EnvThreads} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "drcscan.yaml", "threads: 4\nmax_bytes: 123\naddr: \":9000\"\nlog_json: true\ncatalog: notes/2480067.yml\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.Addr == nil || *cfg.Addr != ":9000" {
		t.Fatalf("expected addr=:9000, got %#v", cfg.Addr)
	}
	if cfg.LogJSON == nil || !*cfg.LogJSON {
		t.Fatalf("expected log_json=true")
	}
	if cfg.Catalog == nil || *cfg.Catalog != "notes/2480067.yml" {
		t.Fatalf("expected catalog path, got %#v", cfg.Catalog)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "bad.yml", "threads: [1, 2\n")
	_, err := LoadFile(p)
	assert.Error(t, err)
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "drcscan.yaml", "threads: 1\n")
	writeTemp(t, dir, ".drcscan.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .drcscan.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.ErrorIs(t, err, ErrNoLocal)
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "drcscan")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 9, *cfg.Threads)
	assert.Equal(t, filepath.Join(dir, "drcscan", "config.yml"), GlobalPath())
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestMerge_EarlierLayerWins(t *testing.T) {
	a, b := 2, 8
	addr := ":9000"
	off := false
	env := FileConfig{Threads: &a}
	local := FileConfig{Threads: &b, Addr: &addr}
	global := FileConfig{DefaultExcludes: &off}

	got := Merge(env, local, global)
	require.NotNil(t, got.Threads)
	assert.Equal(t, 2, *got.Threads)
	require.NotNil(t, got.Addr)
	assert.Equal(t, ":9000", *got.Addr)
	require.NotNil(t, got.DefaultExcludes)
	assert.False(t, *got.DefaultExcludes)
	assert.Nil(t, got.Catalog)
}

func TestFromEnv_Variables(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvCatalog, "/etc/drcscan/catalog.yml")
	t.Setenv(EnvThreads, "3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NotNil(t, cfg.Addr)
	assert.Equal(t, ":8081", *cfg.Addr)
	require.NotNil(t, cfg.Catalog)
	assert.Equal(t, "/etc/drcscan/catalog.yml", *cfg.Catalog)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 3, *cfg.Threads)
	assert.Nil(t, cfg.LogLevel)

	t.Setenv(EnvAddr, "127.0.0.1:7000")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", *cfg.Addr)
}

func TestFromEnv_BadThreads(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvThreads, "many")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_DotenvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	p := writeTemp(t, dir, "test.env", "DRCSCAN_LOG_LEVEL=debug\n")
	// godotenv.Load never overrides, so start from an unset variable.
	require.NoError(t, os.Unsetenv(EnvLogLevel))
	t.Cleanup(func() { _ = os.Unsetenv(EnvLogLevel) })

	cfg, err := FromEnv(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.LogLevel)
	assert.Equal(t, "debug", *cfg.LogLevel)
}

func TestResolve_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	repo := t.TempDir()
	writeTemp(t, repo, ".drcscan.yml", "threads: 5\nfail_on: none\n")
	t.Setenv(EnvThreads, "1")

	cfg, err := Resolve(repo)
	require.NoError(t, err)
	assert.Equal(t, 1, *cfg.Threads)
	assert.Equal(t, "none", *cfg.FailOn)
}

func TestResolve_BrokenLocal(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	repo := t.TempDir()
	writeTemp(t, repo, ".drcscan.yml", "threads: [\n")
	_, err := Resolve(repo)
	assert.Error(t, err)
}

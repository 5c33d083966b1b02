package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for drcscan.
type FileConfig struct {
	// Server
	Addr         *string `yaml:"addr"`
	Catalog      *string `yaml:"catalog"`
	Threads      *int    `yaml:"threads"`
	CacheSize    *int    `yaml:"cache_size"`
	MaxBodyBytes *int64  `yaml:"max_body_bytes"`
	LogLevel     *string `yaml:"log_level"`
	LogJSON      *bool   `yaml:"log_json"`
	CORS         *string `yaml:"cors"`

	// Local tree scanning mirrors CLI flags
	Include         *string `yaml:"include"`
	Exclude         *string `yaml:"exclude"`
	MaxBytes        *int64  `yaml:"max_bytes"`
	DefaultExcludes *bool   `yaml:"default_excludes"`
	NoColor         *bool   `yaml:"no_color"`
	FailOn          *string `yaml:"fail_on"`
	Baseline        *string `yaml:"baseline"`
}

// Errors returned when a config layer is absent.
var (
	ErrNoLocal     = errors.New("no local config")
	ErrNoGlobal    = errors.New("no global config")
	ErrNoConfigDir = errors.New("no config dir")
)

// LocalNames lists the repo-local file names in search order.
var LocalNames = []string{".drcscan.yml", ".drcscan.yaml", "drcscan.yml", "drcscan.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, ErrNoLocal
}

// GlobalPath returns the global config location, or "" when neither
// XDG_CONFIG_HOME nor a home directory is available.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "drcscan", "config.yml")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, ErrNoConfigDir
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, ErrNoGlobal
}

// Merge overlays configs left to right: a field set in an earlier layer wins.
func Merge(layers ...FileConfig) FileConfig {
	var out FileConfig
	for _, l := range layers {
		out.Addr = firstSet(out.Addr, l.Addr)
		out.Catalog = firstSet(out.Catalog, l.Catalog)
		out.Threads = firstSet(out.Threads, l.Threads)
		out.CacheSize = firstSet(out.CacheSize, l.CacheSize)
		out.MaxBodyBytes = firstSet(out.MaxBodyBytes, l.MaxBodyBytes)
		out.LogLevel = firstSet(out.LogLevel, l.LogLevel)
		out.LogJSON = firstSet(out.LogJSON, l.LogJSON)
		out.CORS = firstSet(out.CORS, l.CORS)
		out.Include = firstSet(out.Include, l.Include)
		out.Exclude = firstSet(out.Exclude, l.Exclude)
		out.MaxBytes = firstSet(out.MaxBytes, l.MaxBytes)
		out.DefaultExcludes = firstSet(out.DefaultExcludes, l.DefaultExcludes)
		out.NoColor = firstSet(out.NoColor, l.NoColor)
		out.FailOn = firstSet(out.FailOn, l.FailOn)
		out.Baseline = firstSet(out.Baseline, l.Baseline)
	}
	return out
}

// Resolve returns the environment, local and global layers merged in that
// order of precedence. Missing layers are skipped; a broken file is an error.
func Resolve(repoRoot string) (FileConfig, error) {
	env, err := FromEnv()
	if err != nil {
		return FileConfig{}, err
	}
	local, err := LoadLocal(repoRoot)
	if err != nil && !isMissing(err) {
		return FileConfig{}, err
	}
	global, err := LoadGlobal()
	if err != nil && !isMissing(err) {
		return FileConfig{}, err
	}
	return Merge(env, local, global), nil
}

func isMissing(err error) bool {
	return errors.Is(err, ErrNoLocal) || errors.Is(err, ErrNoGlobal) || errors.Is(err, ErrNoConfigDir)
}

func firstSet[T any](cur, next *T) *T {
	if cur != nil {
		return cur
	}
	return next
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables recognised by FromEnv.
const (
	EnvAddr     = "DRCSCAN_ADDR"
	EnvPort     = "PORT"
	EnvCatalog  = "DRCSCAN_CATALOG"
	EnvLogLevel = "DRCSCAN_LOG_LEVEL"
	EnvThreads  = "DRCSCAN_THREADS"
)

// FromEnv loads the given dotenv files (".env" when none are named) without
// overriding variables already set, then maps DRCSCAN_* variables into a
// FileConfig. A missing dotenv file is not an error.
func FromEnv(files ...string) (FileConfig, error) {
	var cfg FileConfig
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Addr = &v
	} else if p := strings.TrimSpace(os.Getenv(EnvPort)); p != "" {
		if !strings.HasPrefix(p, ":") {
			p = ":" + p
		}
		cfg.Addr = &p
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalog)); v != "" {
		cfg.Catalog = &v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = &v
	}
	if v := strings.TrimSpace(os.Getenv(EnvThreads)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvThreads, err)
		}
		cfg.Threads = &n
	}
	return cfg, nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// config is read from the environment, after any .env file.
//
//	BULKCASE_ENGINE=postgres|mysql|sqlite  (optional, prompted if absent)
//	DATABASE_URL=<dsn>                      (optional, auto-connects if set)
//	BULKCASE_BATCH_SIZE=<n>                 (optional, 0 sizes batches to the dialect's parameter limit)
//	BULKCASE_LOG_LEVEL=debug|info|warn|error (default warn)
type config struct {
	Engine    string
	DSN       string
	BatchSize int
	LogLevel  string
}

// loadConfig loads the named .env files (".env" when none are given) and
// reads the config. Missing files are not an error.
func loadConfig(files ...string) (config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config{}, fmt.Errorf("load env: %w", err)
	}
	return configFromEnv(os.LookupEnv)
}

func configFromEnv(lookup func(string) (string, bool)) (config, error) {
	get := func(key string, def any) any {
		if v, ok := lookup(key); ok {
			return v
		}
		return def
	}
	cfg := config{
		Engine:   strings.ToLower(strings.TrimSpace(cast.ToString(get("BULKCASE_ENGINE", "")))),
		DSN:      cast.ToString(get("DATABASE_URL", "")),
		LogLevel: cast.ToString(get("BULKCASE_LOG_LEVEL", "warn")),
	}
	n, err := cast.ToIntE(get("BULKCASE_BATCH_SIZE", 0))
	if err != nil {
		return config{}, fmt.Errorf("BULKCASE_BATCH_SIZE: %w", err)
	}
	if n < 0 {
		return config{}, fmt.Errorf("BULKCASE_BATCH_SIZE: must not be negative, got %d", n)
	}
	cfg.BatchSize = n
	if cfg.Engine != "" && !isValidEngine(cfg.Engine) {
		return config{}, fmt.Errorf("BULKCASE_ENGINE: unknown engine %q", cfg.Engine)
	}
	return cfg, nil
}

// newLogger builds a console logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("BULKCASE_LOG_LEVEL: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	zc.DisableStacktrace = true
	return zc.Build()
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	StaticDir  string `yaml:"static_dir"`

	RedisURL            string `yaml:"redis_url"`
	SnapshotCacheTTLSec int    `yaml:"snapshot_cache_ttl"`

	ReadTimeoutSec      int `yaml:"read_timeout"`
	WriteTimeoutSec     int `yaml:"write_timeout"`
	MaxRequestBodyBytes int `yaml:"max_request_body"`

	BoardSquareSize int `yaml:"board_square_size"`
}

// Load builds the config from defaults, an optional YAML file (CONFIG_FILE)
// and environment variables, in that order of precedence.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:          ":8000",
		StaticDir:           "static",
		SnapshotCacheTTLSec: 300,
		ReadTimeoutSec:      10,
		WriteTimeoutSec:     10,
		MaxRequestBodyBytes: 1 << 16,
		BoardSquareSize:     72,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("STATIC_DIR")); v != "" {
		cfg.StaticDir = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SnapshotCacheTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("READ_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("WRITE_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WriteTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_REQUEST_BODY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxRequestBodyBytes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("BOARD_SQUARE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 16 && n <= 256 {
			cfg.BoardSquareSize = n
		}
	}

	if cfg.ListenAddr == "" {
		return nil, errors.New("listen address is required")
	}

	return cfg, nil
}

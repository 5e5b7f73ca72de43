// Package config loads server settings from an optional TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port          int    `toml:"port"`
	Domain        string `toml:"domain"`
	DataDir       string `toml:"data_dir"`
	MaxUploadMB   int    `toml:"max_upload_mb"`
	AuthSecret    string `toml:"auth_secret"`
	Workers       int    `toml:"workers"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

func defaults() Config {
	return Config{
		Port:          8080,
		Domain:        "localhost",
		DataDir:       "./data",
		MaxUploadMB:   2048,
		Workers:       1,
		FFmpegBinary:  "ffmpeg",
		FFprobeBinary: "ffprobe",
	}
}

// Load reads the TOML file at path when it exists, then applies
// environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// run on defaults
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("invalid worker count %d", cfg.Workers)
	}
	if cfg.MaxUploadMB < 1 {
		return Config{}, fmt.Errorf("invalid max upload size %dMB", cfg.MaxUploadMB)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VIDEOQC_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("VIDEOQC_DOMAIN"); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv("VIDEOQC_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("VIDEOQC_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxUploadMB = n
		}
	}
	if v := os.Getenv("VIDEOQC_AUTH_SECRET"); v != "" {
		cfg.AuthSecret = v
	}
	if v := os.Getenv("VIDEOQC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("VIDEOQC_FFMPEG"); v != "" {
		cfg.FFmpegBinary = v
	}
	if v := os.Getenv("VIDEOQC_FFPROBE"); v != "" {
		cfg.FFprobeBinary = v
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) UploadDir() string {
	return filepath.Join(c.DataDir, "uploads")
}

func (c Config) ConvertedDir() string {
	return filepath.Join(c.DataDir, "converted")
}

func (c Config) LockPath() string {
	return filepath.Join(c.DataDir, "videoqc.lock")
}

// Package config loads timetag's settings from defaults, an optional TOML
// file and TIMETAG_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfig    = "TIMETAG_CONFIG"
	EnvFFmpeg    = "TIMETAG_FFMPEG"
	EnvFFprobe   = "TIMETAG_FFPROBE"
	EnvFontFile  = "TIMETAG_FONT_FILE"
	EnvTimeout   = "TIMETAG_TIMEOUT"
	EnvLogLevel  = "TIMETAG_LOG_LEVEL"
	EnvLogFormat = "TIMETAG_LOG_FORMAT"
)

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	FFmpegPath  string  `toml:"ffmpeg_path"`
	FFprobePath string  `toml:"ffprobe_path"`
	FontFile    string  `toml:"font_file"`
	Timeout     string  `toml:"timeout"`
	Logging     Logging `toml:"logging"`
}

func Default() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns defaults overlaid with the TOML file at path. A missing file
// is only an error when explicit is set.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.FFmpegPath, EnvFFmpeg)
	set(&c.FFprobePath, EnvFFprobe)
	set(&c.FontFile, EnvFontFile)
	set(&c.Timeout, EnvTimeout)
	set(&c.Logging.Level, EnvLogLevel)
	set(&c.Logging.Format, EnvLogFormat)
}

// TimeoutDuration parses Timeout; empty means no limit.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return d, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path is empty")
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffprobe path is empty")
	}
	d, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", d)
	}
	if c.FontFile != "" {
		if _, err := os.Stat(c.FontFile); err != nil {
			return fmt.Errorf("stat font file: %w", err)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "timetag.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
ffmpeg_path = "/opt/ffmpeg/bin/ffmpeg"
timeout = "90s"

[logging]
level = "debug"
`)
	cfg, err := Load(p, true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg path = %q", cfg.FFmpegPath)
	}
	if cfg.FFprobePath != "ffprobe" {
		t.Fatalf("expected untouched default ffprobe, got %q", cfg.FFprobePath)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	d, err := cfg.TimeoutDuration()
	if err != nil || d != 90*time.Second {
		t.Fatalf("timeout = %s, err=%v", d, err)
	}
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := Load(missing, false); err != nil {
		t.Fatalf("implicit missing config must be ignored: %v", err)
	}
	if _, err := Load(missing, true); err == nil {
		t.Fatalf("explicit missing config must fail")
	}
}

func TestLoad_Malformed(t *testing.T) {
	p := writeConfig(t, "ffmpeg_path = ")
	_, err := Load(p, true)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvFFprobe:   "/usr/local/bin/ffprobe",
		EnvTimeout:   " 5m ",
		EnvLogFormat: "json",
		EnvFFmpeg:    "   ",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.FFprobePath != "/usr/local/bin/ffprobe" {
		t.Fatalf("ffprobe = %q", cfg.FFprobePath)
	}
	if cfg.FFmpegPath != "ffmpeg" {
		t.Fatalf("blank env must not override, got %q", cfg.FFmpegPath)
	}
	if cfg.Timeout != "5m" || cfg.Logging.Format != "json" {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty ffmpeg", func(c *Config) { c.FFmpegPath = "" }, "ffmpeg path is empty"},
		{"empty ffprobe", func(c *Config) { c.FFprobePath = " " }, "ffprobe path is empty"},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, "timeout:"},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }, "timeout must be >= 0"},
		{"missing font", func(c *Config) { c.FontFile = "/does/not/exist.ttf" }, "stat font file"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

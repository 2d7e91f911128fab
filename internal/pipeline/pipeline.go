package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/forPelevin/timetag/internal/domain/overlay"
	"github.com/forPelevin/timetag/internal/logging"
	"github.com/forPelevin/timetag/internal/ports"
	"github.com/forPelevin/timetag/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/timetag/internal/types"
	"github.com/forPelevin/timetag/internal/usecase"
)

type Config struct {
	Inputs []string
	Trim   types.TrimRange

	// Timeout bounds each ffprobe/ffmpeg invocation; zero disables it.
	Timeout time.Duration
	DryRun  bool

	FFmpegPath  string
	FFprobePath string
	FontFile    string

	Log *slog.Logger
	// Out receives dry-run commands and the run summary. Defaults to stdout.
	Out io.Writer
	// EngineLog, when set, mirrors ffmpeg's stderr while rendering.
	EngineLog io.Writer
}

// ErrFilesFailed is returned (wrapped) by Run when at least one file could
// not be tagged.
var ErrFilesFailed = errors.New("files failed")

func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("at least one input file is required")
	}
	for _, in := range c.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.New("input is empty")
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0")
	}
	return overlay.ValidateTrim(c.Trim)
}

func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	v := ffmpeg.New(ffmpeg.Config{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		FontFile:    cfg.FontFile,
		EngineLog:   cfg.EngineLog,
	})
	return RunWith(ctx, cfg, v, v)
}

// RunWith is Run with explicit engine adapters.
func RunWith(ctx context.Context, cfg Config, probe ports.MediaProber, render ports.OverlayRenderer) (usecase.Result, error) {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	uc := usecase.New(usecase.Deps{
		Probe:  probe,
		Render: render,
		Log:    log.With("component", "usecase"),
	})

	if !cfg.Trim.IsZero() {
		log.Info("trim", "start", orDash(cfg.Trim.Start), "end", orDash(cfg.Trim.End))
	}
	res := uc.Run(ctx, usecase.Input{
		Paths:   cfg.Inputs,
		Trim:    cfg.Trim,
		Timeout: cfg.Timeout,
		DryRun:  cfg.DryRun,
		Command: func(_ string, argv []string) {
			fmt.Fprintln(out, ShellJoin(argv))
		},
	})

	fmt.Fprintln(out, Summary(res.Outcomes, logging.ShouldColorize(out)))

	if n := res.Failed(); n > 0 {
		return res, fmt.Errorf("%d of %d %w", n, len(res.Outcomes), ErrFilesFailed)
	}
	return res, nil
}

// ShellJoin renders argv so it can be pasted into a POSIX shell.
func ShellJoin(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = shellQuote(a)
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ensure adapters implement ports
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
var _ ports.OverlayRenderer = (*ffmpeg.Adapter)(nil)

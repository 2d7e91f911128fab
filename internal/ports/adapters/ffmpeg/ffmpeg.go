package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/forPelevin/timetag/internal/domain/overlay"
	"github.com/forPelevin/timetag/internal/types"
)

type Config struct {
	FFmpegPath  string
	FFprobePath string
	FontFile    string
	// EngineLog, when set, receives a live copy of ffmpeg's stderr.
	EngineLog io.Writer
}

type Adapter struct {
	ffmpeg    string
	ffprobe   string
	style     overlay.Style
	engineLog io.Writer
}

func New(cfg Config) *Adapter {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &Adapter{
		ffmpeg:    cfg.FFmpegPath,
		ffprobe:   cfg.FFprobePath,
		style:     overlay.DefaultStyle(cfg.FontFile),
		engineLog: cfg.EngineLog,
	}
}

func (a *Adapter) ProbeStreams(ctx context.Context, path string) ([]types.StreamDescriptor, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &types.Failure{
			Kind:       types.ProbeFailed,
			Path:       path,
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        fmt.Errorf("ffprobe streams: %w", err),
		}
	}

	streams, err := ParseStreams(out)
	if err != nil {
		return nil, &types.Failure{Kind: types.ProbeFailed, Path: path, Err: err}
	}
	return streams, nil
}

// ParseStreams decodes the "streams" array of ffprobe's JSON output.
func ParseStreams(data []byte) ([]types.StreamDescriptor, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("ffprobe streams: malformed JSON output")
	}
	res := gjson.GetBytes(data, "streams")
	if !res.IsArray() {
		return nil, errors.New("ffprobe streams: missing streams array")
	}

	var streams []types.StreamDescriptor
	res.ForEach(func(_, s gjson.Result) bool {
		sd := types.StreamDescriptor{
			Index:     int(s.Get("index").Int()),
			CodecType: s.Get("codec_type").String(),
			CodecName: s.Get("codec_name").String(),
			Width:     int(s.Get("width").Int()),
			Height:    int(s.Get("height").Int()),
		}
		if tags := s.Get("tags"); tags.IsObject() {
			sd.Tags = make(map[string]string)
			tags.ForEach(func(k, v gjson.Result) bool {
				sd.Tags[k.String()] = v.String()
				return true
			})
		}
		streams = append(streams, sd)
		return true
	})
	return streams, nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) Command(job types.OverlayJob) []string {
	return append([]string{a.ffmpeg}, overlay.Args(job, a.style, job.DestinationPath)...)
}

// Render runs ffmpeg into a hidden sibling of the destination and renames
// it into place once ffmpeg succeeds. The partial file is removed on every
// other path.
func (a *Adapter) Render(ctx context.Context, job types.OverlayJob) error {
	tmp := stagingPath(job.DestinationPath)
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	cmd := exec.CommandContext(ctx, a.ffmpeg, overlay.Args(job, a.style, tmp)...)
	var stderr bytes.Buffer
	if a.engineLog != nil {
		cmd.Stderr = io.MultiWriter(&stderr, a.engineLog)
	} else {
		cmd.Stderr = &stderr
	}
	if err := cmd.Run(); err != nil {
		return &types.Failure{
			Kind:       types.RenderFailed,
			Path:       job.InputPath,
			Diagnostic: strings.TrimSpace(stderr.String()),
			Err:        fmt.Errorf("ffmpeg render overlay: %w", err),
		}
	}

	if err := os.Rename(tmp, job.DestinationPath); err != nil {
		return &types.Failure{
			Kind: types.RenderFailed,
			Path: job.InputPath,
			Err:  fmt.Errorf("move into place: %w", err),
		}
	}
	committed = true
	return nil
}

// stagingPath keeps the destination's extension so ffmpeg picks the same
// muxer.
func stagingPath(dest string) string {
	dir, base := filepath.Split(dest)
	return filepath.Join(dir, ".timetag-"+uuid.NewString()+"-"+base)
}

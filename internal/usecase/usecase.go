package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/forPelevin/timetag/internal/domain/overlay"
	"github.com/forPelevin/timetag/internal/domain/recording"
	"github.com/forPelevin/timetag/internal/ports"
	"github.com/forPelevin/timetag/internal/types"
)

type Deps struct {
	Probe  ports.MediaProber
	Render ports.OverlayRenderer
	Log    *slog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Usecase{d: d}
}

type Input struct {
	Paths []string
	Trim  types.TrimRange
	// Timeout bounds each engine invocation; zero means no limit.
	Timeout time.Duration
	DryRun  bool
	// Command receives the planned ffmpeg argv in dry-run mode.
	Command func(path string, argv []string)
}

type Result struct {
	Outcomes []types.Outcome
}

// Failed counts outcomes that did not render.
func (r Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// Run processes files one at a time in input order. A failing file never
// stops the files after it; only cancellation of ctx does.
func (u Usecase) Run(ctx context.Context, in Input) Result {
	var res Result
	for _, p := range in.Paths {
		if ctx.Err() != nil {
			res.Outcomes = append(res.Outcomes, types.Outcome{
				Path:  p,
				State: types.StateStart,
				Err:   ctx.Err(),
			})
			continue
		}
		res.Outcomes = append(res.Outcomes, u.Process(ctx, p, in))
	}
	return res
}

// Process drives a single file through probing and rendering.
func (u Usecase) Process(ctx context.Context, path string, in Input) types.Outcome {
	started := time.Now()
	log := u.d.Log.With("file", path)
	out := types.Outcome{Path: path, State: types.StateProbing}
	finish := func(state types.State, err error) types.Outcome {
		out.State = state
		out.Err = err
		out.Elapsed = time.Since(started)
		return out
	}

	resolved, err := u.Resolve(ctx, path, in.Timeout)
	if err != nil {
		logFailure(log, "timestamp resolution failed", err)
		return finish(types.StateProbeFailed, err)
	}
	out.Recorded = &resolved
	out.State = types.StateProbed
	log.Debug("recording time resolved",
		"recorded_at", resolved.RecordedAt.Format(time.RFC3339),
		"epoch", resolved.EpochSeconds,
	)

	job := types.OverlayJob{
		InputPath:       path,
		DestinationPath: overlay.DestinationPath(path, resolved.RecordedAt),
		RecordedAt:      resolved.RecordedAt,
		Trim:            in.Trim,
	}
	out.Destination = job.DestinationPath

	if in.DryRun {
		argv := u.d.Render.Command(job)
		if in.Command != nil {
			in.Command(path, argv)
		}
		log.Info("planned", "dest", job.DestinationPath)
		return finish(types.StatePlanned, nil)
	}

	out.State = types.StateBuilding
	log.Info("rendering", "dest", job.DestinationPath, "stamp", overlay.StampLine(job.RecordedAt))
	log.Debug("engine command", "argv", strings.Join(u.d.Render.Command(job), " "))

	rctx, cancel := withTimeout(ctx, in.Timeout)
	defer cancel()
	if err := u.d.Render.Render(rctx, job); err != nil {
		logFailure(log, "render failed", err)
		return finish(types.StateRenderFailed, err)
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		dctx, dcancel := withTimeout(ctx, in.Timeout)
		if d, err := u.d.Probe.ProbeDuration(dctx, job.DestinationPath); err == nil {
			log.Debug("output duration", "duration", d)
		}
		dcancel()
	}
	out = finish(types.StateRendered, nil)
	log.Info("rendered", "dest", job.DestinationPath, "elapsed", out.Elapsed.Round(time.Millisecond))
	return out
}

// Resolve probes path and extracts its recording time.
func (u Usecase) Resolve(ctx context.Context, path string, timeout time.Duration) (types.ResolvedTimestamp, error) {
	pctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	streams, err := u.d.Probe.ProbeStreams(pctx, path)
	if err != nil {
		if types.KindOf(err) == "" {
			err = &types.Failure{Kind: types.ProbeFailed, Path: path, Err: err}
		}
		return types.ResolvedTimestamp{}, err
	}
	return recording.Resolve(path, streams)
}

func logFailure(log *slog.Logger, msg string, err error) {
	attrs := []any{"kind", string(types.KindOf(err)), "error", err}
	if diag := types.DiagnosticOf(err); diag != "" {
		attrs = append(attrs, "engine", diag)
	}
	log.Error(msg, attrs...)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

package ports

import (
	"context"
	"time"

	"github.com/forPelevin/timetag/internal/types"
)

type MediaProber interface {
	ProbeStreams(ctx context.Context, path string) ([]types.StreamDescriptor, error)
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

type OverlayRenderer interface {
	Render(ctx context.Context, job types.OverlayJob) error
	// Command returns the argv Render would execute, for dry runs.
	Command(job types.OverlayJob) []string
}

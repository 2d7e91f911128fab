package types

import "time"

// StreamDescriptor is one entry of the probe's stream list.
type StreamDescriptor struct {
	Index     int
	CodecType string
	CodecName string
	Width     int
	Height    int
	Tags      map[string]string
}

type ResolvedTimestamp struct {
	RecordedAt   time.Time
	EpochSeconds int64
}

// TrimRange holds engine-native offsets. Empty means unbounded.
type TrimRange struct {
	Start string
	End   string
}

func (t TrimRange) IsZero() bool { return t.Start == "" && t.End == "" }

type OverlayJob struct {
	InputPath       string
	DestinationPath string
	RecordedAt      time.Time
	Trim            TrimRange
}

// State is the terminal (or current) state of a single file.
type State string

const (
	StateStart        State = "start"
	StateProbing      State = "probing"
	StateProbed       State = "probed"
	StateProbeFailed  State = "probe-failed"
	StateBuilding     State = "building"
	StateRendered     State = "rendered"
	StateRenderFailed State = "render-failed"
	StatePlanned      State = "planned"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	switch s {
	case StateProbeFailed, StateRendered, StateRenderFailed, StatePlanned:
		return true
	}
	return false
}

type Outcome struct {
	Path        string
	Destination string
	State       State
	Recorded    *ResolvedTimestamp
	Err         error
	Elapsed     time.Duration
}

func (o Outcome) OK() bool { return o.Err == nil }

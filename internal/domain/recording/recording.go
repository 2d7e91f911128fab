package recording

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/forPelevin/timetag/internal/types"
)

// CreationTimeTag is the stream tag QuickTime/MP4 muxers use for the
// recording start.
const CreationTimeTag = "creation_time"

// FirstVideo returns the first stream whose codec type is "video", in the
// order the prober listed them.
func FirstVideo(streams []types.StreamDescriptor) (types.StreamDescriptor, bool) {
	for _, s := range streams {
		if s.CodecType == "video" {
			return s, true
		}
	}
	return types.StreamDescriptor{}, false
}

// Resolve extracts the recording time from a probed stream list.
func Resolve(path string, streams []types.StreamDescriptor) (types.ResolvedTimestamp, error) {
	vs, ok := FirstVideo(streams)
	if !ok {
		return types.ResolvedTimestamp{}, types.Fail(types.NoVideoStream, path, "no video stream found")
	}

	raw := strings.TrimSpace(vs.Tags[CreationTimeTag])
	if raw == "" {
		return types.ResolvedTimestamp{}, types.Fail(types.NoCreationTime, path,
			"video stream %d has no %s tag", vs.Index, CreationTimeTag)
	}

	at, err := ParseCreationTime(raw)
	if err != nil {
		return types.ResolvedTimestamp{}, &types.Failure{Kind: types.UnparsableDate, Path: path, Err: err}
	}
	return types.ResolvedTimestamp{
		RecordedAt:   at,
		EpochSeconds: EpochSeconds(at),
	}, nil
}

// ParseCreationTime accepts ISO-8601 (with or without zone offset and
// fractional seconds) and the other layouts dateparse understands. A value
// without a zone is taken as UTC.
func ParseCreationTime(s string) (time.Time, error) {
	return dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
}

// EpochSeconds rounds t to the nearest second.
func EpochSeconds(t time.Time) int64 {
	return t.Round(time.Second).Unix()
}

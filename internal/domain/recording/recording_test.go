package recording

import (
	"testing"
	"time"

	"github.com/forPelevin/timetag/internal/types"
)

func videoWith(tags map[string]string) []types.StreamDescriptor {
	return []types.StreamDescriptor{
		{Index: 0, CodecType: "audio", Tags: map[string]string{"creation_time": "1999-01-01T00:00:00Z"}},
		{Index: 1, CodecType: "video", Tags: tags},
	}
}

func TestResolve_EpochSeconds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"utc z", "2023-10-01T16:29:59Z", 1696177799},
		{"fractional rounds down", "2023-10-01T16:29:59.400000Z", 1696177799},
		{"fractional rounds up", "2023-10-01T16:29:59.500000Z", 1696177800},
		{"offset", "2023-10-01T18:29:59+02:00", 1696177799},
		{"naive is utc", "2023-10-01T16:29:59", 1696177799},
		{"space separated", "2023-10-01 16:29:59", 1696177799},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("/tmp/a.mov", videoWith(map[string]string{"creation_time": tt.in}))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got.EpochSeconds != tt.want {
				t.Fatalf("epoch = %d, want %d", got.EpochSeconds, tt.want)
			}
		})
	}
}

func TestResolve_KeepsZone(t *testing.T) {
	got, err := Resolve("x.mov", videoWith(map[string]string{"creation_time": "2023-10-01T18:29:59+02:00"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if h := got.RecordedAt.Hour(); h != 18 {
		t.Fatalf("expected wall clock hour 18 in source zone, got %d", h)
	}
}

func TestResolve_Failures(t *testing.T) {
	tests := []struct {
		name    string
		streams []types.StreamDescriptor
		want    types.FailureKind
	}{
		{
			name:    "no streams",
			streams: nil,
			want:    types.NoVideoStream,
		},
		{
			name: "audio only with tag",
			streams: []types.StreamDescriptor{
				{CodecType: "audio", Tags: map[string]string{"creation_time": "2023-10-01T16:29:59Z"}},
				{CodecType: "data"},
			},
			want: types.NoVideoStream,
		},
		{
			name:    "empty tags",
			streams: videoWith(map[string]string{}),
			want:    types.NoCreationTime,
		},
		{
			name:    "nil tags",
			streams: videoWith(nil),
			want:    types.NoCreationTime,
		},
		{
			name:    "blank tag",
			streams: videoWith(map[string]string{"creation_time": "  "}),
			want:    types.NoCreationTime,
		},
		{
			name:    "not a date",
			streams: videoWith(map[string]string{"creation_time": "not-a-date"}),
			want:    types.UnparsableDate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve("/tmp/a.mov", tt.streams)
			if got := types.KindOf(err); got != tt.want {
				t.Fatalf("kind = %q, want %q (err=%v)", got, tt.want, err)
			}
		})
	}
}

func TestResolve_FirstVideoWins(t *testing.T) {
	streams := []types.StreamDescriptor{
		{Index: 0, CodecType: "video", Tags: map[string]string{"creation_time": "2020-01-01T00:00:00Z"}},
		{Index: 1, CodecType: "video", Tags: map[string]string{"creation_time": "2021-01-01T00:00:00Z"}},
	}
	got, err := Resolve("a.mov", streams)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC); !got.RecordedAt.Equal(want) {
		t.Fatalf("recorded = %s, want %s", got.RecordedAt, want)
	}
}

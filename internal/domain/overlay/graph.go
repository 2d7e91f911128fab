package overlay

import (
	"fmt"
	"regexp"

	"github.com/forPelevin/timetag/internal/types"
)

// Output pad labels of the filter graph.
const (
	VideoOut = "[v]"
	AudioOut = "[a]"
)

// FilterGraph overlays the job's text on the first video stream and
// re-joins it with the first audio stream as one segment.
func FilterGraph(job types.OverlayJob, st Style) string {
	return "[0:v]" + DrawText(Text(job.RecordedAt), st) + "[vt];" +
		"[vt][0:a]" + Concat(1, 1, 1) + VideoOut + AudioOut
}

// TrimArgs returns the input-side seek options. Placed before -i, they cut
// both tracks and restart timestamps at zero, so the counter starts at
// 00:00:00 on the first kept frame.
func TrimArgs(tr types.TrimRange) []string {
	var args []string
	if tr.Start != "" {
		args = append(args, "-ss", tr.Start)
	}
	if tr.End != "" {
		args = append(args, "-to", tr.End)
	}
	return args
}

// Args builds the full ffmpeg argument list (without the binary) that
// renders job into output, overwriting it.
func Args(job types.OverlayJob, st Style, output string) []string {
	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-nostdin", "-loglevel", "error")
	args = append(args, TrimArgs(job.Trim)...)
	args = append(args,
		"-i", job.InputPath,
		"-filter_complex", FilterGraph(job, st),
		"-map", VideoOut,
		"-map", AudioOut,
		"-y",
		output,
	)
	return args
}

// Accepts ffmpeg time duration syntax: [-][HH:]MM:SS[.m...] or
// [-]S+[.m...][s|ms|us].
var reOffset = regexp.MustCompile(`^-?(?:(?:\d+:)?\d{1,2}:\d{1,2}(?:\.\d+)?|\d+(?:\.\d+)?(?:s|ms|us)?)$`)

// ValidateTrim checks offset syntax only; ordering of start and end is left
// to the engine.
func ValidateTrim(tr types.TrimRange) error {
	if tr.Start != "" && !reOffset.MatchString(tr.Start) {
		return fmt.Errorf("invalid start offset %q", tr.Start)
	}
	if tr.End != "" && !reOffset.MatchString(tr.End) {
		return fmt.Errorf("invalid end offset %q", tr.End)
	}
	return nil
}

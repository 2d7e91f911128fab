package overlay

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	destinationLayout = "20060102_150405_"
	stampLayout       = "01/02/2006 15:04:05"

	// ElapsedCounter is drawtext's per-frame timestamp expansion.
	ElapsedCounter = "%{pts:hms}"
)

// Style is the fixed look of the overlay box.
type Style struct {
	X          string
	Y          string
	FontSize   int
	FontColor  string
	BoxColor   string
	BoxBorderW int
	FontFile   string
}

// DefaultStyle returns the overlay look used for every file. fontFile may
// be empty, in which case ffmpeg falls back to its fontconfig default.
func DefaultStyle(fontFile string) Style {
	return Style{
		X:          "50",
		Y:          "h-150",
		FontSize:   48,
		FontColor:  "white",
		BoxColor:   "black@0.7",
		BoxBorderW: 15,
		FontFile:   fontFile,
	}
}

// DestinationPath prefixes the base name with the recording time and keeps
// the file in its original directory.
func DestinationPath(input string, recordedAt time.Time) string {
	dir, base := filepath.Split(input)
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, recordedAt.Format(destinationLayout)+base)
}

// StampLine is the static second line of the overlay.
func StampLine(recordedAt time.Time) string {
	return recordedAt.Format(stampLayout)
}

// Text is the full overlay: the live counter, a blank line, then the
// recording time.
func Text(recordedAt time.Time) string {
	return ElapsedCounter + "\n\n " + StampLine(recordedAt)
}

// DrawText renders the drawtext filter for text. Options are emitted in
// key order and values get filter-option escaping only; text is otherwise
// passed verbatim.
func DrawText(text string, st Style) string {
	opts := map[string]string{
		"text":       text,
		"x":          st.X,
		"y":          st.Y,
		"box":        "1",
		"boxborderw": strconv.Itoa(st.BoxBorderW),
		"boxcolor":   st.BoxColor,
		"fontsize":   strconv.Itoa(st.FontSize),
		"fontcolor":  st.FontColor,
	}
	if st.FontFile != "" {
		opts["fontfile"] = st.FontFile
	}
	return filter("drawtext", opts)
}

// Concat joins n segments of v video and a audio streams.
func Concat(n, v, a int) string {
	return filter("concat", map[string]string{
		"n": strconv.Itoa(n),
		"v": strconv.Itoa(v),
		"a": strconv.Itoa(a),
	})
}

func filter(name string, opts map[string]string) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, escape(k, optionSpecials)+"="+escape(opts[k], optionSpecials))
	}
	desc := escape(name, optionSpecials) + "=" + strings.Join(parts, ":")
	return escape(desc, graphSpecials)
}

const (
	optionSpecials = `\'=:`
	graphSpecials  = `\'[],;`
)

// escape backslash-escapes every rune of s found in specials. ffmpeg
// unescapes once when splitting the graph and once per option value.
func escape(s, specials string) string {
	if !strings.ContainsAny(s, specials) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type consoleHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
	colors map[slog.Level]*color.Color
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, colorize bool) *consoleHandler {
	colors := map[slog.Level]*color.Color{
		slog.LevelDebug: color.New(color.FgCyan),
		slog.LevelInfo:  color.New(color.FgBlue, color.Bold),
		slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
		slog.LevelError: color.New(color.FgRed, color.Bold),
	}
	for _, c := range colors {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, colors: colors}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes "15:04:05 LEVEL message key=value ..." followed by any
// multi-line attribute values indented beneath.
func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString(ts.Format("15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(h.levelLabel(record.Level))
	buf.WriteByte(' ')
	buf.WriteString(strings.TrimSpace(record.Message))

	var blocks []string
	write := func(groups []string, a slog.Attr) {
		key, val := attrKV(groups, a)
		if key == "" {
			return
		}
		if strings.Contains(val, "\n") {
			blocks = append(blocks, key+":\n"+indent(val, "    "))
			return
		}
		buf.WriteByte(' ')
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(quoteIfNeeded(val))
	}
	for _, a := range h.attrs {
		write(nil, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		write(h.groups, a)
		return true
	})
	buf.WriteByte('\n')
	for _, b := range blocks {
		buf.WriteString("  ")
		buf.WriteString(b)
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.groups, attrs)...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	c, ok := h.colors[level]
	if !ok {
		return label
	}
	return c.Sprint(label)
}

// qualify prefixes attrs added through WithAttrs with the groups active at
// that point, so later WithGroup calls do not rename them.
func qualify(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(groups) == 0 {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: strings.Join(groups, ".") + "." + a.Key, Value: a.Value}
	}
	return out
}

func attrKV(groups []string, a slog.Attr) (string, string) {
	a.Value = a.Value.Resolve()
	if a.Key == "" && a.Value.Kind() != slog.KindGroup {
		return "", ""
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	switch a.Value.Kind() {
	case slog.KindGroup:
		parts := make([]string, 0, len(a.Value.Group()))
		for _, ga := range a.Value.Group() {
			k, v := attrKV(nil, ga)
			parts = append(parts, k+"="+quoteIfNeeded(v))
		}
		return key, "{" + strings.Join(parts, " ") + "}"
	case slog.KindDuration:
		return key, a.Value.Duration().String()
	case slog.KindTime:
		return key, a.Value.Time().Format(time.RFC3339)
	default:
		return key, a.Value.String()
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

package types

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind distinguishes the ways processing a single file can fail.
type FailureKind string

const (
	ProbeFailed    FailureKind = "probe-failed"
	NoVideoStream  FailureKind = "no-video-stream"
	NoCreationTime FailureKind = "no-creation-time"
	UnparsableDate FailureKind = "unparsable-date"
	RenderFailed   FailureKind = "render-failed"
)

// Failure is the error returned for a file that could not be tagged.
// Diagnostic carries the engine's stderr when there is one.
type Failure struct {
	Kind       FailureKind
	Path       string
	Diagnostic string
	Err        error
}

func (f *Failure) Error() string {
	var b strings.Builder
	if f.Path != "" {
		b.WriteString(f.Path)
		b.WriteString(": ")
	}
	b.WriteString(string(f.Kind))
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

func (f *Failure) Unwrap() error { return f.Err }

// Fail builds a Failure with a formatted cause.
func Fail(kind FailureKind, path string, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the FailureKind carried by err, or "" when err is nil or
// not a Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// DiagnosticOf returns the engine diagnostic attached to err, if any.
func DiagnosticOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Diagnostic
	}
	return ""
}

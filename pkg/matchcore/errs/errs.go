// Package errs classifies failures into the error kinds named in spec
// §7, so the scheduler can decide fatal-vs-degrade behavior by checking
// errors.Is against a sentinel instead of string-matching messages.
package errs

import "errors"

// Kind is one of the error categories named in spec §7.
type Kind int

const (
	// KindUnknown covers anything not wrapped against a sentinel below;
	// treated the same as spec §7's "Unknown" (uncaught exception).
	KindUnknown Kind = iota
	KindInput
	KindRender
	KindIO
	KindStore
	KindStalled
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRender:
		return "render"
	case KindIO:
		return "io"
	case KindStore:
		return "store"
	case KindStalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Sentinel errors. Wrap one of these with fmt.Errorf("...: %w", ErrX) at
// the point of failure so Classify can recover the kind further up the
// call stack.
var (
	// ErrInput marks a fatal, job-ending failure: file missing/unreadable,
	// bad page index. Persist FAILED with the wrapped message.
	ErrInput = errors.New("input error")

	// ErrRender marks a single-page rasterisation failure. Never returned
	// from Match — matchers degrade the affected pair's visual score to 0
	// and continue, per spec §7. Exported so a Renderer implementation can
	// wrap its own failures consistently.
	ErrRender = errors.New("render error")

	// ErrIO marks a scratch-file read/write failure. Non-fatal: callers
	// fall back to processing in memory.
	ErrIO = errors.New("scratch io error")

	// ErrStore marks a repository failure during a scheduler tick. The
	// tick aborts and the job is left untouched for the next tick.
	ErrStore = errors.New("store error")

	// ErrStalled is never itself returned as a failure by the core (the
	// stall sweep resets jobs without raising an error); it is kept here
	// so every kind in spec §7 has a matching sentinel, and Classify maps
	// an error wrapping it to KindStalled.
	ErrStalled = errors.New("stalled")
)

// Classify recovers the Kind a wrapped error was raised with, defaulting
// to KindUnknown when err doesn't wrap one of the sentinels above (or is
// nil).
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInput):
		return KindInput
	case errors.Is(err, ErrRender):
		return KindRender
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrStore):
		return KindStore
	case errors.Is(err, ErrStalled):
		return KindStalled
	default:
		return KindUnknown
	}
}

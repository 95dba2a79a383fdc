package transpile

import (
	"time"
	"unicode/utf8"
)

// DefaultMaxStderrBytes bounds the stderr excerpt surfaced in a
// ToolFailure outcome when no explicit limit is configured.
const DefaultMaxStderrBytes = 4096

// truncationMarker is appended to a stderr excerpt that was cut short.
const truncationMarker = " [truncated]"

// RawOutcome is the uninterpreted result of one transpiler process run.
type RawOutcome struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Elapsed   time.Duration
	Truncated bool // output capture hit the byte cap
}

// Kind tags an Outcome.
type Kind int

const (
	// KindSuccess: the tool exited 0 and produced output.
	KindSuccess Kind = iota

	// KindToolFailure: the tool exited non-zero.
	KindToolFailure

	// KindTimeout: the tool exceeded the wall-clock budget and was killed.
	KindTimeout

	// KindInternalError: the tool violated its contract (silent success)
	// or the pipeline itself failed.
	KindInternalError
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindToolFailure:
		return "tool_failure"
	case KindTimeout:
		return "timeout"
	case KindInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one invocation. Exactly one is
// produced per tool request and consumed once by the dispatcher.
type Outcome struct {
	Kind Kind

	// Code is the translated source. Set only for KindSuccess.
	Code string

	// Stderr is a bounded excerpt of the tool's diagnostics.
	// Set only for KindToolFailure.
	Stderr string

	// ExitCode is the process exit status. Set for KindToolFailure.
	ExitCode int

	// Elapsed is how long the process ran. Set for KindTimeout.
	Elapsed time.Duration

	// Message describes an internal error. Set for KindInternalError.
	Message string
}

// Classify maps a raw process outcome to exactly one Outcome. maxStderr
// bounds the ToolFailure excerpt; zero or negative applies
// DefaultMaxStderrBytes.
func Classify(raw RawOutcome, maxStderr int) Outcome {
	if maxStderr <= 0 {
		maxStderr = DefaultMaxStderrBytes
	}

	switch {
	case raw.TimedOut:
		return Outcome{Kind: KindTimeout, Elapsed: raw.Elapsed}
	case raw.ExitCode == 0 && raw.Stdout != "":
		return Outcome{Kind: KindSuccess, Code: raw.Stdout}
	case raw.ExitCode == 0:
		return Outcome{Kind: KindInternalError, Message: "tool produced no output"}
	default:
		return Outcome{
			Kind:     KindToolFailure,
			Stderr:   excerpt(raw.Stderr, maxStderr),
			ExitCode: raw.ExitCode,
		}
	}
}

// excerpt truncates s to at most max bytes, marking the cut. The cut is
// pulled back to a rune boundary so the excerpt stays valid UTF-8.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + truncationMarker
}

package transpile

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  RawOutcome
		want Kind
	}{
		{
			name: "success",
			raw:  RawOutcome{Stdout: "int main() {}", ExitCode: 0},
			want: KindSuccess,
		},
		{
			name: "silent success is a contract violation",
			raw:  RawOutcome{Stdout: "", ExitCode: 0},
			want: KindInternalError,
		},
		{
			name: "non-zero exit",
			raw:  RawOutcome{Stderr: "SyntaxError", ExitCode: 1},
			want: KindToolFailure,
		},
		{
			name: "timeout wins over exit code",
			raw:  RawOutcome{Stdout: "partial", ExitCode: 0, TimedOut: true, Elapsed: time.Minute},
			want: KindTimeout,
		},
		{
			name: "timeout wins over failure",
			raw:  RawOutcome{Stderr: "killed", ExitCode: -1, TimedOut: true},
			want: KindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw, 0)
			if got.Kind != tt.want {
				t.Errorf("Classify() kind = %v, want %v", got.Kind, tt.want)
			}
		})
	}
}

func TestClassify_SuccessCarriesOutput(t *testing.T) {
	out := Classify(RawOutcome{Stdout: "fn main() {}", ExitCode: 0}, 0)
	if out.Code != "fn main() {}" {
		t.Errorf("Code = %q, want the stdout text", out.Code)
	}
}

func TestClassify_SilentSuccessMessage(t *testing.T) {
	out := Classify(RawOutcome{ExitCode: 0}, 0)
	if out.Message != "tool produced no output" {
		t.Errorf("Message = %q, want %q", out.Message, "tool produced no output")
	}
}

func TestClassify_FailureCarriesExitCode(t *testing.T) {
	out := Classify(RawOutcome{Stderr: "boom", ExitCode: 7}, 0)
	if out.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", out.ExitCode)
	}
	if out.Stderr != "boom" {
		t.Errorf("Stderr = %q, want %q", out.Stderr, "boom")
	}
}

func TestClassify_StderrBounded(t *testing.T) {
	big := strings.Repeat("e", DefaultMaxStderrBytes*3)

	out := Classify(RawOutcome{Stderr: big, ExitCode: 1}, 0)
	if len(out.Stderr) > DefaultMaxStderrBytes+len(truncationMarker) {
		t.Errorf("default bound: len(Stderr) = %d, want <= %d",
			len(out.Stderr), DefaultMaxStderrBytes+len(truncationMarker))
	}
	if !strings.HasSuffix(out.Stderr, truncationMarker) {
		t.Errorf("truncated excerpt missing marker")
	}

	out = Classify(RawOutcome{Stderr: big, ExitCode: 1}, 16)
	if len(out.Stderr) != 16+len(truncationMarker) {
		t.Errorf("explicit bound: len(Stderr) = %d, want %d",
			len(out.Stderr), 16+len(truncationMarker))
	}
}

func TestClassify_StderrCutOnRuneBoundary(t *testing.T) {
	// "é" is two bytes; an odd byte limit lands mid-rune and must be
	// pulled back so the excerpt stays valid UTF-8.
	big := strings.Repeat("é", 32)

	out := Classify(RawOutcome{Stderr: big, ExitCode: 1}, 15)
	if !utf8.ValidString(out.Stderr) {
		t.Errorf("Stderr = %q is not valid UTF-8", out.Stderr)
	}
	if want := strings.Repeat("é", 7) + truncationMarker; out.Stderr != want {
		t.Errorf("Stderr = %q, want %q", out.Stderr, want)
	}
}

func TestClassify_ShortStderrNotMarked(t *testing.T) {
	out := Classify(RawOutcome{Stderr: "short", ExitCode: 1}, 0)
	if out.Stderr != "short" {
		t.Errorf("Stderr = %q, want unmodified %q", out.Stderr, "short")
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSuccess, "success"},
		{KindToolFailure, "tool_failure"},
		{KindTimeout, "timeout"},
		{KindInternalError, "internal_error"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

package transpile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Default runner configuration values.
const (
	DefaultTimeout        = 60 * time.Second
	DefaultGracePeriod    = 5 * time.Second
	DefaultMaxOutputBytes = 1 << 20 // 1 MiB per stream
)

// Errors returned by Options validation and Run.
var (
	ErrBinaryRequired = errors.New("transpile: Binary is required")
	ErrSpawn          = errors.New("transpile: spawn process")
)

// Options configures a Runner.
type Options struct {
	// Binary is the transpiler executable to invoke.
	// Required.
	Binary string

	// Args are fixed arguments placed before the per-call argument list,
	// e.g. []string{"py2many"} when Binary is a runner like "uvx".
	Args []string

	// Timeout is the wall-clock budget per process, applied uniformly to
	// every variant. Default: 60s.
	Timeout time.Duration

	// GracePeriod is how long a signaled process may linger before it is
	// forcibly killed. Default: 5s.
	GracePeriod time.Duration

	// MaxOutputBytes caps each captured stream. Default: 1 MiB.
	MaxOutputBytes int64

	// MaxConcurrent bounds how many transpiler processes run at once.
	// Zero means unbounded.
	MaxConcurrent int64

	// Logger is optional; nil means no logging.
	Logger *zap.Logger
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Binary == "" {
		return ErrBinaryRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.GracePeriod == 0 {
		o.GracePeriod = DefaultGracePeriod
	}
	if o.MaxOutputBytes == 0 {
		o.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Runner executes the external transpiler process.
// It is safe for concurrent use; each call runs its own process and waits
// on it independently.
type Runner struct {
	opts Options
	sem  *semaphore.Weighted
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts Options) (*Runner, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	r := &Runner{opts: opts}
	if opts.MaxConcurrent > 0 {
		r.sem = semaphore.NewWeighted(opts.MaxConcurrent)
	}
	return r, nil
}

// Timeout returns the configured wall-clock budget.
func (r *Runner) Timeout() time.Duration { return r.opts.Timeout }

// Run executes the transpiler with the given per-call arguments and captures
// its outcome. The returned error is non-nil only when the process could not
// be run at all (spawn failure, caller cancellation); a process that ran and
// failed or timed out is reported through the RawOutcome instead.
func (r *Runner) Run(ctx context.Context, args []string) (RawOutcome, error) {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			return RawOutcome{}, err
		}
		defer r.sem.Release(1)
	}

	execCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	argv := append(append([]string(nil), r.opts.Args...), args...)
	cmd := exec.CommandContext(execCtx, r.opts.Binary, argv...)

	// The binary may itself be a runner (uvx, pipx) that forks the real
	// tool, so the child gets its own process group and signals go to the
	// whole group. Ask nicely first; WaitDelay escalates to SIGKILL if the
	// group leader ignores the signal past the grace period.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = r.opts.GracePeriod

	var stdout, stderr bytes.Buffer
	outCap := &cappedWriter{w: &stdout, max: r.opts.MaxOutputBytes}
	errCap := &cappedWriter{w: &stderr, max: r.opts.MaxOutputBytes}
	cmd.Stdout = outCap
	cmd.Stderr = errCap

	r.opts.Logger.Debug("running transpiler",
		zap.String("binary", r.opts.Binary), zap.Strings("args", argv))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	// WaitDelay's forced kill reaches only the group leader; sweep the
	// rest of the group so no grandchild outlives the budget.
	if execCtx.Err() != nil && cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	raw := RawOutcome{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Elapsed:   elapsed,
		Truncated: outCap.truncated || errCap.truncated,
	}

	if runErr != nil {
		switch {
		case ctx.Err() != nil:
			// Caller cancellation or a caller-imposed deadline; the
			// process has been terminated, teardown is still the
			// caller's responsibility. Checked before our own budget so
			// a parent deadline is not misreported as a tool timeout.
			return raw, ctx.Err()
		case execCtx.Err() == context.DeadlineExceeded:
			// Killed by us; partial output is kept.
			raw.TimedOut = true
			raw.ExitCode = -1
			r.opts.Logger.Warn("transpiler timed out",
				zap.Duration("elapsed", elapsed), zap.Duration("budget", r.opts.Timeout))
		default:
			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				raw.ExitCode = exitErr.ExitCode()
			} else {
				return raw, fmt.Errorf("%w: %v", ErrSpawn, runErr)
			}
		}
	}

	r.opts.Logger.Debug("transpiler finished",
		zap.Int("exit_code", raw.ExitCode),
		zap.Bool("timed_out", raw.TimedOut),
		zap.Duration("elapsed", elapsed))

	return raw, nil
}

// cappedWriter limits total bytes written, discarding the excess while
// reporting the full length so the pipe copier never sees a short write.
type cappedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (cw *cappedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if cw.written >= cw.max {
		cw.truncated = true
		return n, nil
	}
	if remaining := cw.max - cw.written; int64(n) > remaining {
		cw.truncated = true
		written, err := cw.w.Write(p[:remaining])
		cw.written += int64(written)
		return n, err
	}
	written, err := cw.w.Write(p)
	cw.written += int64(written)
	return written, err
}

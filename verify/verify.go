package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/py2many/mcp-py2many/transpile"
	"github.com/py2many/mcp-py2many/workspace"
)

// Errors returned by Verify.
var (
	ErrEmit   = errors.New("verify: emit smt")
	ErrNoSMT  = errors.New("verify: no smt file generated")
	ErrSolver = errors.New("verify: run solver")
)

// Verdict is the solver's decision on the strengthened query.
type Verdict int

const (
	// Unknown: the solver answered neither sat nor unsat.
	Unknown Verdict = iota

	// Sat: a counterexample exists; the implementation diverges from
	// the spec.
	Sat

	// Unsat: no counterexample exists; the implementation matches the
	// spec on the stated domain.
	Unsat
)

// String returns the solver-style verdict name.
func (v Verdict) String() string {
	switch v {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Report is the result of one verification run.
type Report struct {
	Verdict Verdict

	// SolverOutput is z3's stdout, trimmed.
	SolverOutput string

	// EmitterOutput is py2many's stdout from the --smt run, trimmed.
	EmitterOutput string

	// Strengthened records whether a precondition was conjoined into the
	// query before solving.
	Strengthened bool
}

// Verifier drives the two-process verification pipeline.
type Verifier struct {
	emitter *transpile.Runner
	solver  *transpile.Runner
	logger  *zap.Logger
}

// New creates a Verifier. emitter runs py2many, solver runs z3; both are
// required. If logger is nil, a no-op logger is used.
func New(emitter, solver *transpile.Runner, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{emitter: emitter, solver: solver, logger: logger}
}

// Verify runs py2many --smt against the staged input in ws, strengthens the
// emitted query with the precondition, and asks z3 to decide it. All
// intermediate files are written inside ws so the caller's release path
// removes them.
func (v *Verifier) Verify(ctx context.Context, ws *workspace.Workspace) (Report, error) {
	raw, err := v.emitter.Run(ctx, transpile.Args(transpile.SMT, "", ws.InputFile()))
	if err != nil {
		return Report{}, err
	}
	if raw.TimedOut {
		return Report{}, fmt.Errorf("%w: timed out after %s", ErrEmit, raw.Elapsed)
	}
	if raw.ExitCode != 0 {
		return Report{}, fmt.Errorf("%w: exit %d: %s", ErrEmit, raw.ExitCode, strings.TrimSpace(raw.Stderr))
	}

	base := ws.InputFile()[:len(ws.InputFile())-len(filepath.Ext(ws.InputFile()))]
	smtPath := base + ".smt"
	data, err := os.ReadFile(smtPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Report{}, ErrNoSMT
		}
		return Report{}, fmt.Errorf("%w: %v", ErrNoSMT, err)
	}

	query, strengthened := conjoinPreconditions(string(data))
	queryPath := base + "_verify.smt"
	if err := os.WriteFile(queryPath, []byte(query), 0o600); err != nil {
		return Report{}, fmt.Errorf("%w: write query: %v", ErrSolver, err)
	}

	solved, err := v.solver.Run(ctx, []string{queryPath})
	if err != nil {
		return Report{}, err
	}
	if solved.TimedOut {
		return Report{}, fmt.Errorf("%w: timed out after %s", ErrSolver, solved.Elapsed)
	}

	report := Report{
		Verdict:       parseVerdict(solved.Stdout),
		SolverOutput:  strings.TrimSpace(solved.Stdout),
		EmitterOutput: strings.TrimSpace(raw.Stdout),
		Strengthened:  strengthened,
	}
	v.logger.Debug("verification finished",
		zap.String("verdict", report.Verdict.String()),
		zap.Bool("strengthened", strengthened))
	return report, nil
}

// parseVerdict reads z3's answer. "unsat" is checked before "sat": the
// former contains the latter as a substring.
func parseVerdict(out string) Verdict {
	switch {
	case strings.Contains(out, "unsat"):
		return Unsat
	case strings.Contains(out, "sat"):
		return Sat
	default:
		return Unknown
	}
}

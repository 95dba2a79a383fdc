package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/py2many/mcp-py2many/language"
	"github.com/py2many/mcp-py2many/transpile"
	"github.com/py2many/mcp-py2many/verify"
)

// transpileInput is the argument shape shared by both transpile tools.
type transpileInput struct {
	PythonCode     string `json:"python_code"`
	TargetLanguage string `json:"target_language"`
}

// verifyInput is the argument shape of verify_python.
type verifyInput struct {
	PythonCode string `json:"python_code"`
}

// listInput is the (empty) argument shape of list_supported_languages.
type listInput struct{}

// registerTools declares the tool surface. Schemas are written out
// explicitly so the target_language enum always reflects the registry.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "transpile_python",
		Description: "Transpile Python code to another programming language using py2many. " +
			"Use deterministic translation for simple, well-structured Python code. " +
			"For complex code or when the deterministic translation fails, consider using " +
			"the transpile_python_with_llm tool instead.",
		InputSchema: transpileSchema(),
	}, s.transpileHandler(transpile.Deterministic))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "transpile_python_with_llm",
		Description: "Transpile Python code to another language using py2many with LLM assistance. " +
			"Use this for complex Python code, when dealing with language-specific idioms, " +
			"or when the deterministic translation produces incorrect or non-idiomatic results.",
		InputSchema: transpileSchema(),
	}, s.transpileHandler(transpile.LLMAssisted))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_supported_languages",
		Description: "List all supported target languages for transpilation",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleListLanguages)

	if s.opts.Verifier != nil {
		mcp.AddTool(s.mcp, &mcp.Tool{
			Name: "verify_python",
			Description: "Verify Python code using SMT and the z3 solver. " +
				"Transpiles the code with the --smt flag and checks that the inverse of the " +
				"pre/post conditions is unsat (the implementation matches the spec). " +
				"Returns sat if a counterexample is found (bug detected), unsat if verified.",
			InputSchema: verifySchema(),
		}, s.handleVerify)
	}
}

func transpileSchema() *jsonschema.Schema {
	langs := language.All()
	enum := make([]any, len(langs))
	names := make([]string, len(langs))
	for i, l := range langs {
		enum[i] = l.Code
		names[i] = l.DisplayName
	}
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"python_code": {
				Type:        "string",
				Description: "The Python code to transpile",
			},
			"target_language": {
				Type:        "string",
				Enum:        enum,
				Description: "Target language. Supported: " + strings.Join(names, ", "),
			},
		},
		Required: []string{"python_code", "target_language"},
	}
}

func verifySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"python_code": {
				Type:        "string",
				Description: "The Python code to verify",
			},
		},
		Required: []string{"python_code"},
	}
}

// transpileHandler builds the handler for one transpile variant. Both
// variants share the validate -> stage -> run -> classify pipeline and
// differ only in the argument list.
func (s *Server) transpileHandler(variant transpile.Variant) func(context.Context, *mcp.CallToolRequest, transpileInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in transpileInput) (*mcp.CallToolResult, any, error) {
		if in.PythonCode == "" {
			return errorResult("no Python code provided"), nil, nil
		}
		lang, ok := language.Lookup(in.TargetLanguage)
		if !ok {
			// Validated before any workspace exists: a doomed request
			// performs no filesystem or process work.
			return errorResult(fmt.Sprintf(
				"UnsupportedLanguage: %q is not a supported target. Supported: %s",
				in.TargetLanguage, strings.Join(language.Codes(), ", "))), nil, nil
		}

		outcome := s.invoke(ctx, in.PythonCode, variant, lang)
		return s.formatOutcome(outcome), nil, nil
	}
}

// invoke runs the staged pipeline for one request and always yields exactly
// one classified outcome. The workspace is released on every exit path,
// panics included; a panic is logged in full and surfaced as an opaque
// internal error.
func (s *Server) invoke(ctx context.Context, sourceText string, variant transpile.Variant, lang language.Language) (out transpile.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.opts.Logger.Error("invocation pipeline panicked",
				zap.Any("panic", r), zap.Stack("stack"))
			out = transpile.Outcome{Kind: transpile.KindInternalError, Message: "internal error"}
		}
	}()

	ws, err := s.opts.Workspaces.Acquire(sourceText)
	if err != nil {
		s.opts.Logger.Error("workspace acquire failed", zap.Error(err))
		return transpile.Outcome{Kind: transpile.KindInternalError, Message: "could not stage input"}
	}
	defer s.opts.Workspaces.Release(ws)

	raw, err := s.opts.Runner.Run(ctx, transpile.Args(variant, lang.Code, ws.InputFile()))
	if err != nil {
		s.opts.Logger.Error("transpiler invocation failed",
			zap.String("language", lang.Code), zap.Error(err))
		return transpile.Outcome{Kind: transpile.KindInternalError, Message: "could not run transpiler"}
	}

	// py2many writes the translated source next to the input file; its
	// stdout carries diagnostics. Prefer the generated file when present
	// so classification sees the actual output text.
	if !raw.TimedOut && raw.ExitCode == 0 {
		if code, found, herr := ws.Harvest(lang); herr != nil {
			s.opts.Logger.Error("output harvest failed", zap.Error(herr))
			return transpile.Outcome{Kind: transpile.KindInternalError, Message: "could not read tool output"}
		} else if found {
			raw.Stdout = code
		}
	}

	return transpile.Classify(raw, s.opts.MaxStderrBytes)
}

// formatOutcome renders the classified outcome as the protocol response.
func (s *Server) formatOutcome(out transpile.Outcome) *mcp.CallToolResult {
	switch out.Kind {
	case transpile.KindSuccess:
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: out.Code}},
			StructuredContent: map[string]any{"code": out.Code},
		}
	case transpile.KindTimeout:
		return errorResult(fmt.Sprintf(
			"transpilation timed out after %s (budget %s)",
			out.Elapsed.Round(time.Millisecond), s.opts.Runner.Timeout()))
	case transpile.KindToolFailure:
		msg := fmt.Sprintf("transpilation failed (exit %d)", out.ExitCode)
		if out.Stderr != "" {
			msg += ":\n" + out.Stderr
		}
		return errorResult(msg)
	default:
		// Full detail stays in the log; callers get an opaque failure.
		return errorResult("internal error: " + out.Message)
	}
}

// handleListLanguages reads the static registry. Pure and side-effect-free;
// it cannot fail.
func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest, in listInput) (*mcp.CallToolResult, any, error) {
	langs := language.All()

	var b strings.Builder
	b.WriteString("Supported languages:\n")
	structured := make([]map[string]string, len(langs))
	for i, l := range langs {
		fmt.Fprintf(&b, "\n- %s: %s", l.Code, l.DisplayName)
		structured[i] = map[string]string{"code": l.Code, "display_name": l.DisplayName}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: b.String()}},
		StructuredContent: map[string]any{"languages": structured},
	}, nil, nil
}

// handleVerify stages the code and runs the SMT verification pipeline.
func (s *Server) handleVerify(ctx context.Context, req *mcp.CallToolRequest, in verifyInput) (res *mcp.CallToolResult, _ any, _ error) {
	if in.PythonCode == "" {
		return errorResult("no Python code provided"), nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.opts.Logger.Error("verification pipeline panicked",
				zap.Any("panic", r), zap.Stack("stack"))
			res = errorResult("internal error")
		}
	}()

	ws, err := s.opts.Workspaces.Acquire(in.PythonCode)
	if err != nil {
		s.opts.Logger.Error("workspace acquire failed", zap.Error(err))
		return errorResult("internal error: could not stage input"), nil, nil
	}
	defer s.opts.Workspaces.Release(ws)

	report, err := s.opts.Verifier.Verify(ctx, ws)
	if err != nil {
		s.opts.Logger.Error("verification failed", zap.Error(err))
		return errorResult("verification failed: " + bound(err.Error(), s.opts.MaxStderrBytes)), nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "z3 verification result: %s\n", report.Verdict)
	switch report.Verdict {
	case verify.Sat:
		b.WriteString("\nVERIFICATION FAILED\n")
		b.WriteString("sat means a counterexample was found where the implementation differs from the spec.")
	case verify.Unsat:
		b.WriteString("\nVERIFICATION PASSED\n")
		b.WriteString("unsat means no counterexample exists - the implementation matches the spec.")
	default:
		b.WriteString("\nUNKNOWN RESULT")
	}
	if report.SolverOutput != "" {
		b.WriteString("\n\nsolver output:\n" + report.SolverOutput)
	}
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: b.String()}},
		StructuredContent: map[string]any{"verdict": report.Verdict.String(), "solver_output": report.SolverOutput},
	}, nil, nil
}

// errorResult builds a structured error response.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: msg}},
		StructuredContent: map[string]any{"error": msg},
		IsError:           true,
	}
}

// bound truncates s for caller-facing error payloads.
func bound(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + " [truncated]"
}

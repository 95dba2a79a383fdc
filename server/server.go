package server

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/py2many/mcp-py2many/transpile"
	"github.com/py2many/mcp-py2many/verify"
	"github.com/py2many/mcp-py2many/workspace"
)

// Errors returned by Options validation.
var (
	ErrWorkspacesRequired = errors.New("server: Workspaces is required")
	ErrRunnerRequired     = errors.New("server: Runner is required")
)

// Invoker executes one external transpiler process per call.
// *transpile.Runner is the production implementation.
type Invoker interface {
	Run(ctx context.Context, args []string) (transpile.RawOutcome, error)
	Timeout() time.Duration
}

// PythonVerifier decides whether staged Python code matches its spec.
// *verify.Verifier is the production implementation.
type PythonVerifier interface {
	Verify(ctx context.Context, ws *workspace.Workspace) (verify.Report, error)
}

// Options configures a Server.
type Options struct {
	// Workspaces stages per-invocation scratch directories.
	// Required.
	Workspaces *workspace.Manager

	// Runner executes the transpiler process.
	// Required.
	Runner Invoker

	// Verifier backs the verify_python tool.
	// Optional; if nil, verify_python is not registered.
	Verifier PythonVerifier

	// MaxStderrBytes bounds tool diagnostics surfaced to callers.
	// Zero applies transpile.DefaultMaxStderrBytes.
	MaxStderrBytes int

	// Version is reported during the MCP handshake. Default: "dev".
	Version string

	// Logger is optional; nil means no logging.
	Logger *zap.Logger
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Workspaces == nil {
		return ErrWorkspacesRequired
	}
	if o.Runner == nil {
		return ErrRunnerRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.MaxStderrBytes == 0 {
		o.MaxStderrBytes = transpile.DefaultMaxStderrBytes
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Server is the protocol-facing tool dispatcher.
type Server struct {
	mcp  *mcp.Server
	opts Options
}

// New creates a Server with all tools registered.
func New(opts Options) (*Server, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "mcp-py2many",
			Version: opts.Version,
		}, nil),
		opts: opts,
	}
	s.registerTools()
	return s, nil
}

// Run serves MCP over the given transport until ctx is canceled or the
// client disconnects.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.mcp.Run(ctx, t)
}

// Command mcp-py2many serves the py2many transpilation tools over the
// Model Context Protocol on stdio.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/py2many/mcp-py2many/config"
	"github.com/py2many/mcp-py2many/server"
	"github.com/py2many/mcp-py2many/transpile"
	"github.com/py2many/mcp-py2many/verify"
	"github.com/py2many/mcp-py2many/workspace"
)

// version is stamped at build time.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mcp-py2many",
	Short: "MCP server exposing py2many transpilation tools",
	Long: `mcp-py2many exposes the py2many Python transpiler as Model Context
Protocol tools over stdio: deterministic transpilation, LLM-assisted
transpilation, language discovery, and SMT-based verification.

stdout carries the protocol; all diagnostics go to stderr.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	runner, err := transpile.NewRunner(transpile.Options{
		Binary:         cfg.Binary,
		Args:           cfg.Args,
		Timeout:        cfg.Timeout,
		GracePeriod:    cfg.GracePeriod,
		MaxOutputBytes: cfg.MaxOutputBytes,
		MaxConcurrent:  cfg.MaxConcurrent,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	solver, err := transpile.NewRunner(transpile.Options{
		Binary:         cfg.Z3Binary,
		Timeout:        cfg.Timeout,
		GracePeriod:    cfg.GracePeriod,
		MaxOutputBytes: cfg.MaxOutputBytes,
		MaxConcurrent:  cfg.MaxConcurrent,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	workspaces := workspace.NewManager(cfg.WorkDir, logger)

	srv, err := server.New(server.Options{
		Workspaces:     workspaces,
		Runner:         runner,
		Verifier:       verify.New(runner, solver, logger),
		MaxStderrBytes: cfg.MaxStderrBytes,
		Version:        version,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving MCP on stdio",
		zap.String("binary", cfg.Binary), zap.Duration("timeout", cfg.Timeout))

	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newLogger builds a production zap logger writing to stderr. stdout is
// reserved for the protocol stream.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

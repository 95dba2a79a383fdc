package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/py2many/mcp-py2many/language"
)

// ErrIOFault is returned when the temp area cannot be created or written.
var ErrIOFault = errors.New("workspace: temp area unavailable")

// inputName is the staged source file name inside every workspace.
// py2many derives its output file name from it (input.cpp, input.rs, ...).
const inputName = "input.py"

// Workspace is a per-invocation scratch directory with a staged input file.
// It is owned by exactly one invocation and must not outlive it.
type Workspace struct {
	root      string
	inputFile string
	released  atomic.Bool
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// InputFile returns the absolute path of the staged source file.
func (w *Workspace) InputFile() string { return w.inputFile }

// OutputFile returns the path py2many writes the generated code to for the
// given target language. The file exists only after a successful run.
func (w *Workspace) OutputFile(lang language.Language) string {
	base := w.inputFile[:len(w.inputFile)-len(filepath.Ext(w.inputFile))]
	return base + lang.Ext
}

// Harvest reads the generated output file for lang, if the transpiler
// produced one. The second return is false when the file does not exist.
func (w *Workspace) Harvest(lang language.Language) (string, bool, error) {
	data, err := os.ReadFile(w.OutputFile(lang))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: read output: %v", ErrIOFault, err)
	}
	return string(data), true, nil
}

// Manager creates and tears down workspaces.
type Manager struct {
	baseDir string
	logger  *zap.Logger
}

// NewManager returns a Manager staging workspaces under baseDir.
// If baseDir is empty, the OS temp directory is used. If logger is nil,
// a no-op logger is used.
func NewManager(baseDir string, logger *zap.Logger) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{baseDir: baseDir, logger: logger}
}

// Acquire creates a uniquely named workspace directory and writes sourceText
// verbatim into its input file. On any failure the partially created
// directory is removed and ErrIOFault is returned.
func (m *Manager) Acquire(sourceText string) (*Workspace, error) {
	root := filepath.Join(m.baseDir, "py2many-"+uuid.NewString())
	if err := os.Mkdir(root, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create dir: %v", ErrIOFault, err)
	}

	inputFile := filepath.Join(root, inputName)
	if err := os.WriteFile(inputFile, []byte(sourceText), 0o600); err != nil {
		if rmErr := os.RemoveAll(root); rmErr != nil {
			m.logger.Warn("workspace cleanup after failed stage",
				zap.String("dir", root), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: write input: %v", ErrIOFault, err)
	}

	return &Workspace{root: root, inputFile: inputFile}, nil
}

// Release removes the workspace directory and everything in it, including
// any output files the transpiler generated. It is idempotent; repeated
// calls are no-ops. Removal errors are logged, never returned: teardown
// runs on every exit path and must not mask the invocation's outcome.
func (m *Manager) Release(w *Workspace) {
	if w == nil || !w.released.CompareAndSwap(false, true) {
		return
	}
	if err := os.RemoveAll(w.root); err != nil {
		m.logger.Warn("workspace release", zap.String("dir", w.root), zap.Error(err))
	}
}

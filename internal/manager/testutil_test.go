package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"convertd/internal/pipeline"
	"convertd/internal/remote"
)

var testServices = pipeline.Services{Merge: "llama-factory", Convert: "llama-cpp", Serve: "ollama"}

// fakeExecutor plays all three services. The convert command drops the GGUF
// file into root, standing in for the shared volume.
type fakeExecutor struct {
	root    string
	results map[string]remote.ExecResult // keyed by argv[0]
	errs    map[string]error
	argv0s  []string
	pingErr error
}

func (f *fakeExecutor) Exec(ctx context.Context, service string, argv []string) (remote.ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return remote.ExecResult{}, err
	}
	f.argv0s = append(f.argv0s, argv[0])
	if err := f.errs[argv[0]]; err != nil {
		return remote.ExecResult{}, err
	}
	res := f.results[argv[0]]
	if argv[0] == "python3" && res.OK() {
		name := strings.TrimPrefix(argv[4], "/saves/")
		if err := os.WriteFile(filepath.Join(f.root, name), []byte("GGUF"), 0o644); err != nil {
			return remote.ExecResult{}, err
		}
	}
	return res, nil
}

func (f *fakeExecutor) CopyFile(ctx context.Context, service, hostSrc, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(hostSrc); err != nil {
		return err
	}
	return nil
}

func (f *fakeExecutor) Ping(ctx context.Context) error { return f.pingErr }

// plainExecutor hides Ping.
type plainExecutor struct{ remote.Executor }

func newTestManager(t *testing.T) (*Manager, *fakeExecutor, string) {
	t.Helper()
	root := t.TempDir()
	fe := &fakeExecutor{root: root, results: map[string]remote.ExecResult{}, errs: map[string]error{}}
	m := NewWithConfig(ManagerConfig{
		SavesDir:     root,
		Services:     testServices,
		WaitInterval: time.Millisecond,
		WaitCeiling:  50 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}, fe)
	return m, fe, root
}

func makeAdapter(t *testing.T, root, model, run string) {
	t.Helper()
	dir := filepath.Join(root, model, "lora", run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "adapter_config.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

var errBoom = errors.New("boom")

package e2e

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"convertd/internal/client"
	"convertd/internal/httpapi"
	"convertd/internal/manager"
	"convertd/internal/pipeline"
	"convertd/internal/remote"
)

var services = pipeline.Services{Merge: "finetune-llama-factory-1", Convert: "finetune-llama-cpp-1", Serve: "ollama"}

type call struct {
	service string
	argv    []string // nil for copies
	copyTo  string
}

// stack stands in for the three containers. Converting writes the GGUF into
// the shared saves directory; copies land in an in-memory file set.
type stack struct {
	mu       sync.Mutex
	root     string
	calls    []call
	failOn   map[string]remote.ExecResult // keyed by argv[0]
	missing  map[string]bool
	copied   map[string][]byte
	registry []string
}

func newStack(root string) *stack {
	return &stack{root: root, failOn: map[string]remote.ExecResult{}, missing: map[string]bool{}, copied: map[string][]byte{}}
}

func (s *stack) Exec(ctx context.Context, service string, argv []string) (remote.ExecResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[service] {
		return remote.ExecResult{}, remote.ErrServiceNotFound(service)
	}
	s.calls = append(s.calls, call{service: service, argv: argv})
	if res, ok := s.failOn[argv[0]]; ok {
		return res, nil
	}
	switch argv[0] {
	case "python3":
		dst := filepath.Join(s.root, path.Base(argv[4]))
		if err := os.WriteFile(dst, []byte("GGUF"), 0o644); err != nil {
			return remote.ExecResult{}, err
		}
	case "ollama":
		if argv[1] == "create" {
			s.registry = append(s.registry, argv[2])
			return remote.ExecResult{Output: []byte("success\n")}, nil
		}
		var b strings.Builder
		b.WriteString("NAME                ID              SIZE      MODIFIED\n")
		for _, name := range s.registry {
			fmt.Fprintf(&b, "%s:latest    0123456789ab    4.7 GB    Less than a second ago\n", name)
		}
		return remote.ExecResult{Output: []byte(b.String())}, nil
	}
	return remote.ExecResult{}, nil
}

func (s *stack) CopyFile(ctx context.Context, service, hostSrc, dest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[service] {
		return remote.ErrServiceNotFound(service)
	}
	b, err := os.ReadFile(hostSrc)
	if err != nil {
		return err
	}
	s.calls = append(s.calls, call{service: service, copyTo: dest})
	s.copied[dest] = b
	return nil
}

func (s *stack) snapshot() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

type env struct {
	root   string
	stack  *stack
	mgr    *manager.Manager
	events *manager.MemoryPublisher
	srv    *httptest.Server
	api    *client.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	st := newStack(root)
	events := manager.NewMemoryPublisher()
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		SavesDir:     root,
		Services:     services,
		WaitInterval: time.Millisecond,
		WaitCeiling:  50 * time.Millisecond,
		Logger:       zerolog.Nop(),
		Publisher:    events,
	}, st)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return &env{root: root, stack: st, mgr: mgr, events: events, srv: srv, api: client.New(srv.URL)}
}

func (e *env) adapter(t *testing.T, model, run string) {
	t.Helper()
	dir := filepath.Join(e.root, model, "lora", run)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "adapter_config.json"), []byte(`{"r":8}`), 0o644); err != nil {
		t.Fatalf("write adapter: %v", err)
	}
}

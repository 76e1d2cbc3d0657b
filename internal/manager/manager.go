package manager

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"convertd/internal/catalog"
	"convertd/internal/pipeline"
	"convertd/internal/remote"
	"convertd/pkg/types"
)

// Manager drives conversion runs against the container stack and answers the
// listing routes. It is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	pipe      *pipeline.Pipeline
	exec      remote.Executor
	log       zerolog.Logger
	publisher EventPublisher
	startTime time.Time

	inflight   int
	runsTotal  uint64
	runsFailed uint64
	lastError  string
	lastModel  string
}

// pinger is implemented by executors that can check their backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// SetEventPublisher replaces the event sink. Nil restores the no-op sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

func (m *Manager) events() EventPublisher {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publisher
}

// Ready reports whether the executor backend answers. Executors without a
// health check are always ready.
func (m *Manager) Ready(ctx context.Context) bool {
	p, ok := m.exec.(pinger)
	if !ok {
		return true
	}
	if err := p.Ping(ctx); err != nil {
		m.log.Debug().Err(err).Msg("readiness ping failed")
		return false
	}
	return true
}

// ListFinetuned returns training runs that hold an adapter_config.json.
func (m *Manager) ListFinetuned() ([]string, error) {
	return catalog.ListAdapters(m.pipe.Root())
}

// ListGGUF returns the converted files in the saves directory.
func (m *Manager) ListGGUF() ([]types.GGUFModel, error) {
	return catalog.ListGGUF(m.pipe.Root())
}

// ListOllama runs `ollama list` in the serving runtime and returns its rows.
func (m *Manager) ListOllama(ctx context.Context) ([][]string, error) {
	svc := m.pipe.Services().Serve
	res, err := m.exec.Exec(ctx, svc, pipeline.ListCommand())
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &pipeline.CommandError{
			Op:       "Failed to list Ollama models",
			Service:  svc,
			ExitCode: res.ExitCode,
			Output:   string(res.Output),
		}
	}
	return catalog.ParseOllamaList(res.Output), nil
}

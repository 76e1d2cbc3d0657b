package manager

import (
	"time"

	"github.com/rs/zerolog"

	"convertd/internal/mounts"
	"convertd/internal/pipeline"
	"convertd/internal/remote"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// SavesDir is the host directory shared with the merge and convert services.
	SavesDir string
	Services pipeline.Services
	// Mounts overrides pipeline.DefaultMounts(SavesDir) when set.
	Mounts mounts.Map
	// Zero values take the pipeline defaults (1s / 30s).
	WaitInterval time.Duration
	WaitCeiling  time.Duration
	Logger       zerolog.Logger
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager that drives exec.
func NewWithConfig(cfg ManagerConfig, exec remote.Executor) *Manager {
	log := cfg.Logger.With().Str("component", "manager").Logger()
	m := &Manager{
		exec:      exec,
		log:       log,
		publisher: cfg.Publisher,
		startTime: time.Now(),
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	m.pipe = pipeline.New(pipeline.Config{
		Root:     cfg.SavesDir,
		Services: cfg.Services,
		Mounts:   cfg.Mounts,
	}, exec,
		pipeline.WithWaiter(pipeline.NewWaiter(cfg.WaitInterval, cfg.WaitCeiling)),
		pipeline.WithLogger(cfg.Logger.With().Str("component", "pipeline").Logger()),
	)
	return m
}

package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"convertd/internal/mounts"
	"convertd/internal/remote"
)

// Services holds the container names of the three external services.
type Services struct {
	Merge   string
	Convert string
	Serve   string
}

// Config describes where a Pipeline finds its inputs and services.
type Config struct {
	// Root is the host directory holding adapters, merged models and GGUF files.
	Root     string
	Services Services
	// Mounts must contain RoleMerge and RoleConvert. Nil means DefaultMounts(Root).
	Mounts mounts.Map
}

// Result describes a successful run.
type Result struct {
	RunID     RunID
	ModelName string
	Paths     PathSet
	Duration  time.Duration
}

// Pipeline runs the conversion sequence. It holds no per-run state and may be
// shared by concurrent callers; runs targeting the same model name race on
// the same output files.
type Pipeline struct {
	cfg    Config
	exec   remote.Executor
	waiter Waiter
	log    zerolog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWaiter replaces the converted-file poll.
func WithWaiter(w Waiter) Option { return func(p *Pipeline) { p.waiter = w } }

// WithLogger sets the logger used for step progress.
func WithLogger(l zerolog.Logger) Option { return func(p *Pipeline) { p.log = l } }

// New constructs a Pipeline that issues commands through exec.
func New(cfg Config, exec remote.Executor, opts ...Option) *Pipeline {
	if cfg.Mounts == nil {
		cfg.Mounts = DefaultMounts(cfg.Root)
	}
	p := &Pipeline{
		cfg:    cfg,
		exec:   exec,
		waiter: NewWaiter(0, 0),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Root returns the host saves directory.
func (p *Pipeline) Root() string { return p.cfg.Root }

// Services returns the configured container names.
func (p *Pipeline) Services() Services { return p.cfg.Services }

// Plan validates the inputs and derives the PathSet without touching anything.
func (p *Pipeline) Plan(runID string, req Request) (RunID, PathSet, error) {
	id, err := ParseRunID(runID)
	if err != nil {
		return RunID{}, PathSet{}, err
	}
	if err := req.Validate(); err != nil {
		return RunID{}, PathSet{}, err
	}
	ps, err := NewPathSet(p.cfg.Root, p.cfg.Mounts, id, req.NewModelName)
	if err != nil {
		return RunID{}, PathSet{}, err
	}
	return id, ps, nil
}

// Run executes every step in order and stops at the first failure. Step
// failures are returned as *StepError. Nothing written by earlier steps is
// removed on failure.
func (p *Pipeline) Run(ctx context.Context, runID string, req Request) (Result, error) {
	start := time.Now()
	id, ps, err := p.Plan(runID, req)
	if err != nil {
		runsTotal.WithLabelValues("Invalid").Inc()
		return Result{}, err
	}

	log := p.log.With().
		Str("run", uuid.NewString()).
		Str("training_run_id", id.String()).
		Str("new_model_name", req.NewModelName).
		Logger()
	log.Info().Msg("starting conversion")

	steps := []struct {
		step Step
		msg  string
		fn   func() error
	}{
		{StepLocate, "locating adapter", func() error { return LocateAdapter(ps) }},
		{StepMerge, "merging LoRA adapter", func() error { return p.merge(ctx, req, ps) }},
		{StepConvert, "converting merged model to GGUF", func() error { return p.convert(ctx, ps) }},
		{StepWait, "waiting for GGUF file", func() error { return p.waiter.WaitForFile(ctx, ps.HostGGUF) }},
		{StepManifest, "creating Modelfile", func() error { return p.writeManifest(req, ps) }},
		{StepLoad, "loading model into serving runtime", func() error { return p.load(ctx, req, ps) }},
	}
	for _, s := range steps {
		log.Info().Str("step", string(s.step)).Msg(s.msg)
		t0 := time.Now()
		err := s.fn()
		result := "ok"
		if err != nil {
			result = "error"
		}
		stepDuration.WithLabelValues(string(s.step), result).Observe(time.Since(t0).Seconds())
		if err != nil {
			se := &StepError{Step: s.step, Err: err}
			runsTotal.WithLabelValues(se.State()).Inc()
			log.Error().Err(err).Str("step", string(s.step)).Str("state", se.State()).Msg("conversion failed")
			return Result{}, se
		}
	}

	runsTotal.WithLabelValues("Done").Inc()
	res := Result{RunID: id, ModelName: req.NewModelName, Paths: ps, Duration: time.Since(start)}
	log.Info().Dur("dur", res.Duration).Msg("model converted and loaded")
	return res, nil
}

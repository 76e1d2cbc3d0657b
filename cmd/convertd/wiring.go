package main

import (
	"fmt"
	"os"

	"convertd/internal/common/fsutil"
	"convertd/internal/manager"
	"convertd/internal/pipeline"
	"convertd/internal/remote"
)

// newDockerManager connects to the local Docker daemon and builds the
// manager that serves both `serve` and `run`. The caller closes the executor.
func newDockerManager(o *globalOptions) (*manager.Manager, *remote.DockerExecutor, error) {
	saves, err := ensureSavesDir(o.cfg.SavesDir)
	if err != nil {
		return nil, nil, err
	}
	exec, err := remote.NewDockerExecutor(o.log)
	if err != nil {
		return nil, nil, err
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		SavesDir: saves,
		Services: pipeline.Services{
			Merge:   o.cfg.MergeContainer,
			Convert: o.cfg.ConvertContainer,
			Serve:   o.cfg.ServeContainer,
		},
		WaitInterval: o.cfg.WaitInterval(),
		WaitCeiling:  o.cfg.WaitCeiling(),
		Logger:       o.log,
		Publisher:    manager.LogPublisher{Log: o.log},
	}, exec)
	return mgr, exec, nil
}

// ensureSavesDir expands dir and creates it if missing.
func ensureSavesDir(dir string) (string, error) {
	saves, err := fsutil.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(saves, 0o755); err != nil {
		return "", fmt.Errorf("create saves dir: %w", err)
	}
	return saves, nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. An empty path is a no-op.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from environment variables and their defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Resolve returns the effective configuration: environment first, then the
// optional file at path layered on top.
func Resolve(path string) (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		file, err := Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Merge(file)
	}
	return cfg, cfg.Validate()
}

// Merge returns c with every non-zero field of o applied.
func (c Config) Merge(o Config) Config {
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	setStr(&c.Addr, o.Addr)
	setStr(&c.SavesDir, o.SavesDir)
	setStr(&c.MergeContainer, o.MergeContainer)
	setStr(&c.ConvertContainer, o.ConvertContainer)
	setStr(&c.ServeContainer, o.ServeContainer)
	setStr(&c.LogLevel, o.LogLevel)
	setStr(&c.LogFormat, o.LogFormat)
	if o.MaxBodyBytes > 0 {
		c.MaxBodyBytes = o.MaxBodyBytes
	}
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = o.CORSOrigins
	}
	setInt(&c.WaitIntervalMS, o.WaitIntervalMS)
	setInt(&c.WaitCeilingMS, o.WaitCeilingMS)
	setInt(&c.ShutdownTimeoutMS, o.ShutdownTimeoutMS)
	return c
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if c.SavesDir == "" {
		errs = append(errs, errors.New("saves_dir is empty"))
	}
	if c.MergeContainer == "" || c.ConvertContainer == "" || c.ServeContainer == "" {
		errs = append(errs, errors.New("all three container names are required"))
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (c Config) WaitInterval() time.Duration {
	return time.Duration(c.WaitIntervalMS) * time.Millisecond
}

func (c Config) WaitCeiling() time.Duration {
	return time.Duration(c.WaitCeilingMS) * time.Millisecond
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for convertd.
// Environment variables provide the defaults; a config file overrides any
// field it sets to a non-zero value.
type Config struct {
	Addr     string `env:"CONVERTD_ADDR" envDefault:":8000" json:"addr" yaml:"addr" toml:"addr"`
	SavesDir string `env:"CONVERTD_SAVES_DIR" envDefault:"/app/saves" json:"saves_dir" yaml:"saves_dir" toml:"saves_dir"`

	MergeContainer   string `env:"LLAMA_FACTORY_CONTAINER" envDefault:"finetune-llama-factory-1" json:"merge_container" yaml:"merge_container" toml:"merge_container"`
	ConvertContainer string `env:"LLAMA_CPP_CONTAINER" envDefault:"finetune-llama-cpp-1" json:"convert_container" yaml:"convert_container" toml:"convert_container"`
	ServeContainer   string `env:"OLLAMA_CONTAINER" envDefault:"ollama" json:"serve_container" yaml:"serve_container" toml:"serve_container"`

	LogLevel  string `env:"CONVERTD_LOG_LEVEL" envDefault:"info" json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `env:"CONVERTD_LOG_FORMAT" envDefault:"json" json:"log_format" yaml:"log_format" toml:"log_format"`

	MaxBodyBytes int64    `env:"CONVERTD_MAX_BODY_BYTES" envDefault:"1048576" json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSOrigins  []string `env:"CONVERTD_CORS_ORIGINS" envSeparator:"," json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	WaitIntervalMS    int `env:"CONVERTD_WAIT_INTERVAL_MS" envDefault:"1000" json:"wait_interval_ms" yaml:"wait_interval_ms" toml:"wait_interval_ms"`
	WaitCeilingMS     int `env:"CONVERTD_WAIT_CEILING_MS" envDefault:"30000" json:"wait_ceiling_ms" yaml:"wait_ceiling_ms" toml:"wait_ceiling_ms"`
	ShutdownTimeoutMS int `env:"CONVERTD_SHUTDOWN_TIMEOUT_MS" envDefault:"5000" json:"shutdown_timeout_ms" yaml:"shutdown_timeout_ms" toml:"shutdown_timeout_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

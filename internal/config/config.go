package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/eventplan/internal/agent"
)

// ProjectConfig holds project-level settings loaded from eventplan.yml.
type ProjectConfig struct {
	Provider      string                   `yaml:"provider,omitempty"`
	Model         string                   `yaml:"model,omitempty"`
	Temperature   *float64                 `yaml:"temperature,omitempty"`
	MaxTokens     int                      `yaml:"max_tokens,omitempty"`
	StageTimeout  time.Duration            `yaml:"stage_timeout,omitempty"`
	ArchiveURL    string                   `yaml:"archive_url,omitempty"`
	ArchivePrefix string                   `yaml:"archive_prefix,omitempty"`
	OutputDir     string                   `yaml:"output_dir,omitempty"`
	LogLevel      string                   `yaml:"log_level,omitempty"`
	HTTPAddr      string                   `yaml:"http_addr,omitempty"`
	Trace         string                   `yaml:"trace,omitempty"`
	Personas      map[string]agent.Persona `yaml:"personas,omitempty"`
}

const (
	DefaultArchivePrefix = "plans"
	DefaultLogLevel      = "info"
	DefaultHTTPAddr      = ":8080"
)

var (
	ErrUnknownProvider     = errors.New("provider must be one of azure, openai, ollama")
	ErrTemperatureInvalid  = errors.New("temperature must be between 0 and 2")
	ErrMaxTokensInvalid    = errors.New("max_tokens must not be negative")
	ErrStageTimeoutInvalid = errors.New("stage_timeout must not be negative")
	ErrLogLevelInvalid     = errors.New("log_level must be one of debug, info, warn, error")
	ErrUnknownPersona      = errors.New("persona override names an unknown role")
	ErrTraceInvalid        = errors.New("trace must be off or stdout")
)

// Load attempts to read eventplan.yml or eventplan.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"eventplan.yml", "eventplan.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// LoadEnvFile loads dir/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Resolve loads .env and the project file from dir, fills defaults, applies
// environment overrides and validates the result.
func Resolve(dir string) (*ProjectConfig, error) {
	if err := LoadEnvFile(dir); err != nil {
		return nil, err
	}
	cfg, err := Load(dir)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ProjectConfig) applyDefaults() {
	if c.ArchivePrefix == "" {
		c.ArchivePrefix = DefaultArchivePrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
}

// ApplyEnv overrides file settings with EVENTPLAN_* and LOG_LEVEL variables.
func (c *ProjectConfig) ApplyEnv(getenv func(string) string) error {
	if v := getenv("EVENTPLAN_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := getenv("EVENTPLAN_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("EVENTPLAN_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: EVENTPLAN_TEMPERATURE: %w", err)
		}
		c.Temperature = &f
	}
	if v := getenv("EVENTPLAN_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: EVENTPLAN_MAX_TOKENS: %w", err)
		}
		c.MaxTokens = n
	}
	if v := getenv("EVENTPLAN_STAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: EVENTPLAN_STAGE_TIMEOUT: %w", err)
		}
		c.StageTimeout = d
	}
	if v := getenv("EVENTPLAN_ARCHIVE_URL"); v != "" {
		c.ArchiveURL = v
	}
	if v := getenv("EVENTPLAN_ARCHIVE_PREFIX"); v != "" {
		c.ArchivePrefix = v
	}
	if v := getenv("EVENTPLAN_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := getenv("EVENTPLAN_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := getenv("EVENTPLAN_TRACE"); v != "" {
		c.Trace = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks value ranges and names.
func (c *ProjectConfig) Validate() error {
	switch c.Provider {
	case "", "azure", "openai", "ollama":
	default:
		return fmt.Errorf("config: %q: %w", c.Provider, ErrUnknownProvider)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return ErrTemperatureInvalid
	}
	if c.MaxTokens < 0 {
		return ErrMaxTokensInvalid
	}
	if c.StageTimeout < 0 {
		return ErrStageTimeoutInvalid
	}
	switch c.Trace {
	case "", "off", "stdout":
	default:
		return fmt.Errorf("config: %q: %w", c.Trace, ErrTraceInvalid)
	}
	if c.LogLevel != "" {
		if _, ok := logLevels[c.LogLevel]; !ok {
			return fmt.Errorf("config: %q: %w", c.LogLevel, ErrLogLevelInvalid)
		}
	}
	for role := range c.Personas {
		if !isKnownRole(agent.Role(role)) {
			return fmt.Errorf("config: %q: %w", role, ErrUnknownPersona)
		}
	}
	return nil
}

// ApplyPersonas merges configured persona overrides into reg.
func (c *ProjectConfig) ApplyPersonas(reg *agent.Registry) error {
	for role, p := range c.Personas {
		if err := reg.Override(agent.Role(role), p); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func isKnownRole(r agent.Role) bool {
	for _, known := range agent.Roles() {
		if r == known {
			return true
		}
	}
	return false
}

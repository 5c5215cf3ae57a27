package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/config"
)

// Default values shared by the CLI and the script merge.
const (
	DefaultPlugin       = "build/ravespacenav"
	DefaultScene        = "scenes/myscene.env.xml"
	DefaultModule       = "SpaceNav"
	DefaultCommand      = "help"
	DefaultStepInterval = 10 * time.Millisecond
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScriptPath string // optional hcl bootstrap script

	Plugins        []string
	ScenePath      string
	SchemaPath     string
	SkipValidation bool
	Modules        []config.ModuleSpec

	Steps        int
	StepInterval time.Duration

	TelemetryURL    string
	HealthcheckPort int
	LogFormat       string
	LogLevel        string
}

func NewConfig(cfg Config) (*Config, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Plugins) == 0 {
		return errors.New("at least one plugin must be configured")
	}
	for _, p := range c.Plugins {
		if strings.TrimSpace(p) == "" {
			return errors.New("plugin names cannot be empty")
		}
	}
	if c.ScenePath == "" {
		return errors.New("ScenePath is a required configuration field and cannot be empty")
	}
	if len(c.Modules) == 0 {
		return errors.New("at least one module must be configured")
	}
	for _, m := range c.Modules {
		if m.Name == "" {
			return errors.New("module names cannot be empty")
		}
		if len(m.Commands) == 0 {
			return fmt.Errorf("module %s has no commands to send", m.Name)
		}
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.StepInterval < 0 {
		return fmt.Errorf("step interval must not be negative, got %s", c.StepInterval)
	}
	if c.HealthcheckPort < 0 || c.HealthcheckPort > 65535 {
		return fmt.Errorf("invalid healthcheck port %d", c.HealthcheckPort)
	}
	return nil
}

// merge applies the settings a bootstrap script defines over c. List
// settings given by the script replace the command-line ones.
func (c *Config) merge(s *config.Script) {
	if len(s.Plugins) > 0 {
		c.Plugins = append([]string(nil), s.Plugins...)
	}
	if s.Scene != nil {
		c.ScenePath = *s.Scene
	}
	if s.SchemaPath != nil {
		c.SchemaPath = *s.SchemaPath
	}
	if s.Validate != nil {
		c.SkipValidation = !*s.Validate
	}
	if s.Steps != nil {
		c.Steps = *s.Steps
	}
	if s.StepInterval != nil {
		c.StepInterval = *s.StepInterval
	}
	if len(s.Modules) > 0 {
		c.Modules = append([]config.ModuleSpec(nil), s.Modules...)
	}
}

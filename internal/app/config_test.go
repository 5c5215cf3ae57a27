package app

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/spacenavgo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Plugins:   []string{DefaultPlugin},
		ScenePath: DefaultScene,
		Modules:   []config.ModuleSpec{{Name: DefaultModule, Commands: []string{DefaultCommand}}},
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no plugins", mutate: func(c *Config) { c.Plugins = nil }, wantErr: "at least one plugin"},
		{name: "blank plugin", mutate: func(c *Config) { c.Plugins = []string{" "} }, wantErr: "plugin names"},
		{name: "no scene", mutate: func(c *Config) { c.ScenePath = "" }, wantErr: "ScenePath"},
		{name: "no modules", mutate: func(c *Config) { c.Modules = nil }, wantErr: "at least one module"},
		{name: "no commands", mutate: func(c *Config) { c.Modules[0].Commands = nil }, wantErr: "no commands"},
		{name: "negative steps", mutate: func(c *Config) { c.Steps = -1 }, wantErr: "steps"},
		{name: "negative interval", mutate: func(c *Config) { c.StepInterval = -time.Second }, wantErr: "step interval"},
		{name: "bad port", mutate: func(c *Config) { c.HealthcheckPort = 70000 }, wantErr: "healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, &cfg, got)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	t.Parallel()

	scene := "/srv/scenes/lab.env.xml"
	validate := false
	steps := 40
	interval := 5 * time.Millisecond

	cfg := validConfig()
	cfg.TelemetryURL = "http://localhost:3000"
	cfg.merge(&config.Script{
		Scene:        &scene,
		Validate:     &validate,
		Steps:        &steps,
		StepInterval: &interval,
		Modules:      []config.ModuleSpec{{Name: "SpaceNav", Args: "-no-connect", Commands: []string{"GetState"}}},
	})

	want := Config{
		Plugins:        []string{DefaultPlugin},
		ScenePath:      scene,
		SkipValidation: true,
		Modules:        []config.ModuleSpec{{Name: "SpaceNav", Args: "-no-connect", Commands: []string{"GetState"}}},
		Steps:          40,
		StepInterval:   5 * time.Millisecond,
		TelemetryURL:   "http://localhost:3000",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("merged config mismatch (-want +got):\n%s", diff)
	}
}

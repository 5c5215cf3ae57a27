package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/spacenavgo/internal/app"
	"github.com/specialistvlad/spacenavgo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	want := &app.Config{
		Plugins:      []string{"build/ravespacenav"},
		ScenePath:    "scenes/myscene.env.xml",
		Modules:      []config.ModuleSpec{{Name: "SpaceNav", Commands: []string{"help"}}},
		StepInterval: 10 * time.Millisecond,
		LogFormat:    "text",
		LogLevel:     "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{
		"-s", "boot.hcl",
		"-plugin", "a", "-plugin", "b.so",
		"-schema", "my.xsd", "-no-validate",
		"-module", "Other", "-module-args", "-no-connect",
		"-c", "GetState", "-command", "GetMotion",
		"-steps", "5", "-step-interval", "1s",
		"-telemetry-url", "http://localhost:3000",
		"-healthcheck-port", "8080",
		"-log-format", "JSON", "-log-level", "DEBUG",
		"positional.env.xml",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	want := &app.Config{
		ScriptPath:      "boot.hcl",
		Plugins:         []string{"a", "b.so"},
		ScenePath:       "positional.env.xml",
		SchemaPath:      "my.xsd",
		SkipValidation:  true,
		Modules:         []config.ModuleSpec{{Name: "Other", Args: "-no-connect", Commands: []string{"GetState", "GetMotion"}}},
		Steps:           5,
		StepInterval:    time.Second,
		TelemetryURL:    "http://localhost:3000",
		HealthcheckPort: 8080,
		LogFormat:       "json",
		LogLevel:        "debug",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-step-interval")
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown flag", []string{"-bogus"}, "flag provided but not defined"},
		{"bad log format", []string{"-log-format", "xml"}, "invalid log-format"},
		{"bad log level", []string{"-log-level", "trace"}, "invalid log-level"},
		{"negative steps", []string{"-steps", "-2"}, "steps must not be negative"},
		{"empty module", []string{"-module", ""}, "module names"},
		{"extra positional", []string{"a.xml", "b.xml"}, "unexpected arguments"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/spacenavgo/internal/app"
	"github.com/specialistvlad/spacenavgo/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("spacenavgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
spacenavgo - boots a simulation environment, loads a plugin and talks to one
of its modules (by default the SpaceNav 3D-mouse module).

Usage:
  spacenavgo [options] [SCENE_PATH]

Arguments:
  SCENE_PATH
    Scene description to load. Overrides -scene.

Options:
`)
		flagSet.PrintDefaults()
	}

	plugins := newListFlag(app.DefaultPlugin)
	commands := newListFlag(app.DefaultCommand)

	scriptFlag := flagSet.String("script", "", "Path to an HCL bootstrap script or a directory of them.")
	sFlag := flagSet.String("s", "", "Path to an HCL bootstrap script (shorthand).")
	flagSet.Var(plugins, "plugin", "Plugin to load. Repeatable.")
	sceneFlag := flagSet.String("scene", app.DefaultScene, "Scene file to load into the environment.")
	schemaFlag := flagSet.String("schema", "", "XSD to validate the scene against. Empty uses the built-in schema.")
	noValidateFlag := flagSet.Bool("no-validate", false, "Skip scene schema validation.")
	moduleFlag := flagSet.String("module", app.DefaultModule, "Module interface to create.")
	moduleArgsFlag := flagSet.String("module-args", "", "Construction arguments passed to the module.")
	flagSet.Var(commands, "command", "Command to send to the module. Repeatable, sent in order.")
	flagSet.Var(commands, "c", "Command to send to the module (shorthand).")
	stepsFlag := flagSet.Int("steps", 0, "Simulation steps to run before sending commands.")
	stepIntervalFlag := flagSet.Duration("step-interval", app.DefaultStepInterval, "Wall-clock interval between simulation steps.")
	telemetryFlag := flagSet.String("telemetry-url", "", "socket.io endpoint that receives device events. Empty disables.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args()[1:])}
	}

	scriptPath := *scriptFlag
	if scriptPath == "" {
		scriptPath = *sFlag
	}

	scenePath := *sceneFlag
	if flagSet.NArg() == 1 {
		scenePath = flagSet.Arg(0)
	}
	slog.Debug("Scene path determined.", "path", scenePath)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		ScriptPath:     scriptPath,
		Plugins:        plugins.values,
		ScenePath:      scenePath,
		SchemaPath:     *schemaFlag,
		SkipValidation: *noValidateFlag,
		Modules: []config.ModuleSpec{{
			Name:     *moduleFlag,
			Args:     *moduleArgsFlag,
			Commands: commands.values,
		}},
		Steps:           *stepsFlag,
		StepInterval:    *stepIntervalFlag,
		TelemetryURL:    *telemetryFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

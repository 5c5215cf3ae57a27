package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/spacenavgo/internal/config"
	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	catalog    *registry.Catalog
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Command replies go to
// outW and logs to logW. When cfg.ScriptPath is set the script is read with
// loader and merged over cfg. Without plugins the compiled-in ones are used.
//
// A script that cannot be loaded, or a configuration that is invalid after
// the merge, is a fatal startup error and panics.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, loader config.Loader, plugins ...registry.Plugin) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	merged := *cfg
	if cfg.ScriptPath != "" {
		if loader == nil {
			panic("a script path was given but no script loader is configured")
		}
		script, err := loader.Load(ctx, cfg.ScriptPath)
		if err != nil {
			panic(fmt.Errorf("failed to load bootstrap script: %w", err))
		}
		merged.merge(script)
		logger.Debug("Bootstrap script merged over command-line configuration.", "files", script.Files)
	}
	if err := merged.validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}

	if len(plugins) == 0 {
		plugins = corePlugins
	}
	catalog := registry.NewCatalog(plugins...)
	logger.Debug("Plugin catalog populated.", "plugins", catalog.Names())

	return &App{
		outW:    outW,
		logger:  logger,
		config:  &merged,
		catalog: catalog,
	}
}

// Config returns the effective configuration. This is primarily for testing.
func (a *App) Config() Config {
	return *a.config
}

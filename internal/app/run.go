package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/host"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/specialistvlad/spacenavgo/internal/scene"
	"github.com/specialistvlad/spacenavgo/internal/telemetry"
)

// Run executes the bootstrap sequence: initialize the runtime, load the
// plugins, build an environment, load the scene, create the modules,
// optionally step the simulation, send every command and print each reply.
// The runtime is destroyed exactly once whichever step fails.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.startHealthCheckServer(); err != nil {
		return err
	}
	defer func() {
		if cerr := a.closeHealthCheckServer(context.WithoutCancel(ctx)); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	rt, err := host.Initialize(ctx, a.catalog)
	if err != nil {
		return fmt.Errorf("initialize runtime: %w", err)
	}
	defer func() {
		// Teardown must finish even when the run was interrupted.
		if derr := rt.Destroy(context.WithoutCancel(ctx)); derr != nil {
			err = errors.Join(err, fmt.Errorf("destroy runtime: %w", derr))
		}
		a.logger.Debug("Runtime destroyed.")
	}()

	for _, name := range a.config.Plugins {
		if err := rt.LoadPlugin(ctx, name); err != nil {
			return fmt.Errorf("load plugin: %w", err)
		}
	}

	publisher, closePublisher := a.dialTelemetry(ctx)
	defer closePublisher()

	env, err := rt.NewEnvironment(ctx, environment.WithPublisher(publisher))
	if err != nil {
		return fmt.Errorf("create environment: %w", err)
	}

	sceneOpts := scene.Options{SchemaPath: a.config.SchemaPath, SkipValidation: a.config.SkipValidation}
	if err := env.Load(ctx, a.config.ScenePath, sceneOpts); err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	a.logger.Info("Scene loaded.", "path", a.config.ScenePath, "bodies", env.Scene().BodyCount())

	modules := make([]module.Module, 0, len(a.config.Modules))
	for _, spec := range a.config.Modules {
		m, err := rt.CreateModule(ctx, env, spec.Name, spec.Args)
		if err != nil {
			return fmt.Errorf("create module: %w", err)
		}
		modules = append(modules, m)
	}

	if err := a.simulate(ctx, env); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	for i, spec := range a.config.Modules {
		for _, cmd := range spec.Commands {
			a.logger.Debug("Sending command.", "module", spec.Name, "command", cmd)
			reply, err := modules[i].SendCommand(ctx, cmd)
			if err != nil {
				return fmt.Errorf("send command %q to %s: %w", cmd, spec.Name, err)
			}
			if _, err := fmt.Fprintln(a.outW, reply); err != nil {
				return fmt.Errorf("write reply: %w", err)
			}
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// simulate advances the environment Steps times, Interval apart.
func (a *App) simulate(ctx context.Context, env *environment.Environment) error {
	steps, interval := a.config.Steps, a.config.StepInterval
	if steps == 0 {
		return nil
	}
	a.logger.Info("Stepping simulation.", "steps", steps, "interval", interval)

	ticker := time.NewTicker(max(interval, time.Nanosecond))
	defer ticker.Stop()
	for i := range steps {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if err := env.StepSimulation(ctx, interval); err != nil {
			return err
		}
	}
	a.logger.Debug("Simulation finished.", "sim_time", env.SimTime())
	return nil
}

// dialTelemetry connects the socket.io publisher when configured. An
// unreachable endpoint is not fatal: events are then dropped.
func (a *App) dialTelemetry(ctx context.Context) (telemetry.Publisher, func()) {
	if a.config.TelemetryURL == "" {
		return telemetry.Nop{}, func() {}
	}

	client, err := telemetry.Dial(ctx, a.config.TelemetryURL, telemetry.DialOptions{})
	if err != nil {
		a.logger.Warn("Telemetry disabled.", "url", a.config.TelemetryURL, "error", err)
		return telemetry.Nop{}, func() {}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("Closing telemetry connection failed.", "error", err)
		}
	}
}

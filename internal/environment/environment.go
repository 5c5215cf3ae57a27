// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package environment holds the simulated world a run operates on: the
// loaded scene, the modules bound to it and the simulation clock.
package environment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/specialistvlad/spacenavgo/internal/scene"
	"github.com/specialistvlad/spacenavgo/internal/telemetry"
)

// ErrDestroyed is returned by operations on an environment after Destroy.
var ErrDestroyed = errors.New("environment destroyed")

// Option configures an Environment.
type Option func(*Environment)

// WithPublisher sets where modules forward their device events.
func WithPublisher(p telemetry.Publisher) Option {
	return func(e *Environment) {
		if p != nil {
			e.publisher = p
		}
	}
}

// Environment is a simulated world with the modules attached to it.
type Environment struct {
	id        uuid.UUID
	publisher telemetry.Publisher

	mu        sync.Mutex
	scene     *scene.Scene
	modules   []module.Module
	simTime   time.Duration
	destroyed bool

	destroyOnce sync.Once
	destroyErr  error
}

// New creates an empty environment.
func New(opts ...Option) *Environment {
	e := &Environment{
		id:        uuid.New(),
		publisher: telemetry.Nop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the environment's unique identifier.
func (e *Environment) ID() uuid.UUID {
	return e.id
}

// Publisher returns the telemetry sink for this environment.
func (e *Environment) Publisher() telemetry.Publisher {
	return e.publisher
}

// Load reads the scene at path into the environment, replacing any scene
// loaded before.
func (e *Environment) Load(ctx context.Context, path string, opts scene.Options) error {
	if e.Destroyed() {
		return ErrDestroyed
	}

	s, err := scene.Load(ctx, path, opts)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	e.scene = s
	ctxlog.FromContext(ctx).Info("Scene loaded into environment.", "env", e.id, "path", path, "kinbodies", len(s.KinBodies), "robots", len(s.Robots))
	return nil
}

// Scene returns the loaded scene, or nil.
func (e *Environment) Scene() *scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

// AddModule attaches m so that it is stepped with the simulation and closed
// on Destroy.
func (e *Environment) AddModule(m module.Module) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	e.modules = append(e.modules, m)
	return nil
}

// Modules returns the attached modules in attach order.
func (e *Environment) Modules() []module.Module {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]module.Module, len(e.modules))
	copy(out, e.modules)
	return out
}

// SimTime returns the total simulated time elapsed.
func (e *Environment) SimTime() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simTime
}

// StepSimulation advances the simulation clock by dt and steps every module
// in attach order. The first module error aborts the step.
func (e *Environment) StepSimulation(ctx context.Context, dt time.Duration) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	e.simTime += dt
	modules := make([]module.Module, len(e.modules))
	copy(modules, e.modules)
	e.mu.Unlock()

	for _, m := range modules {
		if err := m.SimulationStep(ctx, dt); err != nil {
			return fmt.Errorf("module %s: simulation step: %w", m.Name(), err)
		}
	}
	return nil
}

// Destroyed reports whether Destroy has been called.
func (e *Environment) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Destroy closes every module in reverse attach order. It is safe to call
// more than once; later calls return the first call's result.
func (e *Environment) Destroy(ctx context.Context) error {
	e.destroyOnce.Do(func() {
		logger := ctxlog.FromContext(ctx)

		e.mu.Lock()
		e.destroyed = true
		modules := e.modules
		e.modules = nil
		e.mu.Unlock()

		var errs []error
		for i := len(modules) - 1; i >= 0; i-- {
			m := modules[i]
			logger.Debug("Closing module.", "env", e.id, "module", m.Name())
			if err := m.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close module %s: %w", m.Name(), err))
			}
		}
		e.destroyErr = errors.Join(errs...)
		logger.Debug("Environment destroyed.", "env", e.id, "modules_closed", len(modules))
	})
	return e.destroyErr
}

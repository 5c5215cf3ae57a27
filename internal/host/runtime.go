// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package host is the process-wide simulation runtime. It owns the plugins
// loaded from a catalog, the module factories they register and every
// environment created through it, and tears all of them down exactly once.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/specialistvlad/spacenavgo/internal/registry"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPluginNotFound is returned when a plugin is not in the catalog.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrInterfaceNotFound is returned when no loaded plugin provides the
	// requested interface.
	ErrInterfaceNotFound = errors.New("interface not found")
	// ErrDestroyed is returned by every operation after Destroy.
	ErrDestroyed = errors.New("runtime destroyed")
)

// Runtime is the simulation host.
type Runtime struct {
	catalog *registry.Catalog

	mu           sync.Mutex
	registry     *registry.Registry
	loaded       map[string]string
	environments []*environment.Environment
	destroyed    bool

	destroyOnce sync.Once
	destroyErr  error
}

// Initialize creates a runtime able to load plugins from catalog.
func Initialize(ctx context.Context, catalog *registry.Catalog) (*Runtime, error) {
	if catalog == nil {
		return nil, errors.New("plugin catalog must not be nil")
	}
	ctxlog.FromContext(ctx).Debug("Runtime initialized.", "available_plugins", catalog.Names())
	return &Runtime{
		catalog:  catalog,
		registry: registry.New(),
		loaded:   make(map[string]string),
	}, nil
}

// LoadPlugin makes the interfaces of the named plugin available. The name
// may be a path such as "build/ravespacenav"; see registry.PluginKey.
// Loading an already loaded plugin is a no-op.
func (r *Runtime) LoadPlugin(ctx context.Context, name string) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrDestroyed
	}

	p, ok := r.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrPluginNotFound, name)
	}
	key := registry.PluginKey(name)
	if _, done := r.loaded[key]; done {
		logger.Debug("Plugin already loaded.", "plugin", p.Name())
		return nil
	}

	p.Register(r.registry)
	r.loaded[key] = p.Name()
	logger.Info("Plugin loaded.", "plugin", p.Name(), "modules", r.registry.Interfaces(registry.InterfaceModule))
	return nil
}

// LoadedPlugins returns the names of the loaded plugins, sorted.
func (r *Runtime) LoadedPlugins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.loaded))
	for _, n := range r.loaded {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewEnvironment creates an environment owned by the runtime.
func (r *Runtime) NewEnvironment(ctx context.Context, opts ...environment.Option) (*environment.Environment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, ErrDestroyed
	}

	env := environment.New(opts...)
	r.environments = append(r.environments, env)
	ctxlog.FromContext(ctx).Debug("Environment created.", "env", env.ID())
	return env, nil
}

// CreateModule instantiates the named module interface and attaches it to
// env. Name matching is case-insensitive.
func (r *Runtime) CreateModule(ctx context.Context, env *environment.Environment, name, args string) (module.Module, error) {
	if env == nil {
		return nil, errors.New("environment must not be nil")
	}

	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return nil, ErrDestroyed
	}
	factory, ok := r.registry.Module(name)
	known := r.registry.Interfaces(registry.InterfaceModule)
	r.mu.Unlock()
	if !ok {
		if s := module.Suggest(name, known); s != "" {
			return nil, fmt.Errorf("%w: %s %q (did you mean %s?)", ErrInterfaceNotFound, registry.InterfaceModule, name, s)
		}
		return nil, fmt.Errorf("%w: %s %q", ErrInterfaceNotFound, registry.InterfaceModule, name)
	}

	m, err := factory(ctx, env, args)
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", name, err)
	}
	if err := env.AddModule(m); err != nil {
		return nil, errors.Join(err, m.Close())
	}
	ctxlog.FromContext(ctx).Debug("Module created.", "module", m.Name(), "env", env.ID())
	return m, nil
}

// Destroy destroys every environment concurrently and unloads all plugins.
// Every environment is destroyed even if another fails; the first error is
// returned.
// Only the first call does any work; later calls return its result.
func (r *Runtime) Destroy(ctx context.Context) error {
	r.destroyOnce.Do(func() {
		logger := ctxlog.FromContext(ctx)

		r.mu.Lock()
		r.destroyed = true
		envs := r.environments
		r.environments = nil
		r.loaded = make(map[string]string)
		r.registry = registry.New()
		r.mu.Unlock()

		logger.Debug("Destroying runtime.", "environments", len(envs))
		var g errgroup.Group
		for _, env := range envs {
			g.Go(func() error {
				if err := env.Destroy(ctx); err != nil {
					return fmt.Errorf("environment %s: %w", env.ID(), err)
				}
				return nil
			})
		}
		r.destroyErr = g.Wait()
		if r.destroyErr != nil {
			logger.Error("Runtime teardown failed.", "error", r.destroyErr)
			return
		}
		logger.Debug("Runtime destroyed.")
	})
	return r.destroyErr
}

// Destroyed reports whether Destroy was called.
func (r *Runtime) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

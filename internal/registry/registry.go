// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/module"
)

// InterfaceType identifies the kind of interface a plugin provides.
type InterfaceType int

const (
	// InterfaceModule is a behavioural unit driven by string commands.
	InterfaceModule InterfaceType = iota
)

// String implements fmt.Stringer.
func (t InterfaceType) String() string {
	switch t {
	case InterfaceModule:
		return "module"
	default:
		return fmt.Sprintf("interface(%d)", int(t))
	}
}

// ModuleFactory builds a module bound to env. args is the free-form
// construction string supplied by the caller.
type ModuleFactory func(ctx context.Context, env *environment.Environment, args string) (module.Module, error)

// registeredModule keeps the factory together with its original-case name.
type registeredModule struct {
	name    string
	factory ModuleFactory
}

// Registry holds all the interface factories contributed by loaded plugins
// for a single runtime.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*registeredModule
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		modules: make(map[string]*registeredModule),
	}
}

// RegisterModule registers a factory for the module interface called name.
func (r *Registry) RegisterModule(name string, factory ModuleFactory) {
	key := strings.ToLower(name)
	if key == "" {
		panic("module interface name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[key]; exists {
		panic(fmt.Sprintf("module interface with name '%s' already registered", name))
	}
	slog.Debug("Registering module interface.", "name", name)
	r.modules[key] = &registeredModule{name: name, factory: factory}
}

// Module looks up the factory for a module interface. It reports false when
// no loaded plugin provides name.
func (r *Registry) Module(name string) (ModuleFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return m.factory, true
}

// Interfaces returns the original-case names of every interface of type t,
// sorted.
func (r *Registry) Interfaces(t InterfaceType) []string {
	if t != InterfaceModule {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.name)
	}
	sort.Strings(names)
	return names
}

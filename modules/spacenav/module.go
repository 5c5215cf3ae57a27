// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package spacenav provides the "ravespacenav" plugin and its SpaceNav
// module, which exposes a 3D-mouse served by spacenavd to the host.
package spacenav

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/specialistvlad/spacenavgo/internal/registry"
	"github.com/specialistvlad/spacenavgo/internal/spnav"
	"github.com/specialistvlad/spacenavgo/internal/telemetry"
)

const (
	// PluginName is the name the plugin is loaded by.
	PluginName = "ravespacenav"
	// ModuleName is the module interface the plugin provides.
	ModuleName = "SpaceNav"
)

// Telemetry event names.
const (
	EventMotion = "spnav:motion"
	EventButton = "spnav:button"
)

// Plugin implements registry.Plugin.
type Plugin struct{}

// Name implements registry.Plugin.
func (Plugin) Name() string { return PluginName }

// Register implements registry.Plugin.
func (Plugin) Register(r *registry.Registry) {
	r.RegisterModule(ModuleName, Factory)
}

// Options configures a SpaceNav module.
type Options struct {
	// SocketPath is the spacenavd socket; empty means spnav.DefaultSocketPath.
	SocketPath string
	// NoConnect skips the connection attempt at construction time.
	NoConnect bool
	// ClientOptions are appended to the spnav client options.
	ClientOptions []spnav.Option
}

// ParseArgs reads construction arguments such as
// "-socket /run/spnav.sock -no-connect".
func ParseArgs(args string) (Options, error) {
	fs := flag.NewFlagSet(ModuleName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	socketPath := fs.String("socket", spnav.DefaultSocketPath, "spacenavd socket path")
	noConnect := fs.Bool("no-connect", false, "do not connect on construction")

	if err := fs.Parse(strings.Fields(args)); err != nil {
		return Options{}, fmt.Errorf("invalid %s arguments %q: %w", ModuleName, args, err)
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("invalid %s arguments %q: unexpected %q", ModuleName, args, fs.Arg(0))
	}
	return Options{SocketPath: *socketPath, NoConnect: *noConnect}, nil
}

// Factory is the registry.ModuleFactory for SpaceNav.
func Factory(ctx context.Context, env *environment.Environment, args string) (module.Module, error) {
	opts, err := ParseArgs(args)
	if err != nil {
		return nil, err
	}
	return New(ctx, env, opts), nil
}

// State is the combined device state: the latest motion plus the held state
// of the first two buttons.
type State struct {
	X, Y, Z    int
	RX, RY, RZ int
	B0, B1     bool
}

// SpaceNav is the module. Commands and SimulationStep may run concurrently.
type SpaceNav struct {
	module.Commands

	client    *spnav.Client
	publisher telemetry.Publisher
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
	motion  spnav.Motion
	button  spnav.Button
	state   State
}

// New creates the module and, unless opts.NoConnect is set, tries to
// connect to the daemon. A failed connection is logged and leaves the module
// in a non-running state; it can be retried with OpenSpaceNav.
func New(ctx context.Context, env *environment.Environment, opts Options) *SpaceNav {
	clientOpts := []spnav.Option{}
	if opts.SocketPath != "" {
		clientOpts = append(clientOpts, spnav.WithSocketPath(opts.SocketPath))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	m := &SpaceNav{
		client:    spnav.NewClient(clientOpts...),
		publisher: telemetry.Nop{},
		logger:    ctxlog.FromContext(ctx).With("module", ModuleName),
	}
	if env != nil {
		m.publisher = env.Publisher()
		m.logger = m.logger.With("env", env.ID())
	}

	m.Register("OpenSpaceNav", m.openSpaceNav, "Manually open the connection to the spacenav")
	m.Register("CloseSpaceNav", m.closeSpaceNav, "Manually close the connection to the spacenav")
	m.Register("GetMotion", m.getMotion, "Get most recent motion event")
	m.Register("GetButton", m.getButton, "Get most recent button event")
	m.Register("GetState", m.getState, "Get current joystick state")

	if !opts.NoConnect {
		if err := m.client.Open(ctx); err != nil {
			m.logger.Error("failed to connect to the space navigator daemon", "socket", m.client.SocketPath(), "error", err)
		} else {
			m.running = true
		}
	}
	return m
}

// Name implements module.Module.
func (m *SpaceNav) Name() string { return ModuleName }

// Running reports whether the module is consuming device events.
func (m *SpaceNav) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// State returns a snapshot of the combined device state.
func (m *SpaceNav) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SimulationStep implements module.Module. It drains every pending event so
// that no button release is missed between steps.
func (m *SpaceNav) SimulationStep(ctx context.Context, elapsed time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}

	for {
		ev, ok := m.client.PollEvent()
		if !ok {
			return nil
		}
		m.apply(ev)
	}
}

// apply folds one event into the module state. m.mu must be held.
func (m *SpaceNav) apply(ev spnav.Event) {
	switch ev.Type {
	case spnav.EventMotion:
		mo := ev.Motion
		m.logger.Debug("got motion event", "x", mo.X, "y", mo.Y, "z", mo.Z, "rx", mo.RX, "ry", mo.RY, "rz", mo.RZ)
		m.motion = mo
		m.publisher.Publish(EventMotion, map[string]any{
			"x": mo.X, "y": mo.Y, "z": mo.Z,
			"rx": mo.RX, "ry": mo.RY, "rz": mo.RZ,
			"period": mo.Period,
		})
	case spnav.EventButton:
		m.logger.Debug("got button event", "press", ev.Button.Press, "button", ev.Button.Num)
		m.button = ev.Button
		m.publisher.Publish(EventButton, map[string]any{
			"num":   ev.Button.Num,
			"press": ev.Button.Press,
		})
	}

	m.state.X, m.state.Y, m.state.Z = m.motion.X, m.motion.Y, m.motion.Z
	m.state.RX, m.state.RY, m.state.RZ = m.motion.RX, m.motion.RY, m.motion.RZ
	switch m.button.Num {
	case 0:
		m.state.B0 = m.button.Press
	case 1:
		m.state.B1 = m.button.Press
	}
}

// Close implements module.Module.
func (m *SpaceNav) Close() error {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	if err := m.client.Close(); err != nil && !errors.Is(err, spnav.ErrNotOpen) {
		return err
	}
	return nil
}

func (m *SpaceNav) openSpaceNav(ctx context.Context, _ string) (string, error) {
	if err := m.client.Open(ctx); err != nil {
		m.logger.Warn("OpenSpaceNav failed", "error", err)
		return "-1", fmt.Errorf("%w: %v", module.ErrCommandFailed, err)
	}
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
	return "0", nil
}

func (m *SpaceNav) closeSpaceNav(ctx context.Context, _ string) (string, error) {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()

	if err := m.client.Close(); err != nil {
		return "-1", fmt.Errorf("%w: %v", module.ErrCommandFailed, err)
	}
	return "0", nil
}

func (m *SpaceNav) getMotion(ctx context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mo := m.motion
	return fmt.Sprintf("%d %d %d %d %d %d\n", mo.X, mo.Y, mo.Z, mo.RX, mo.RY, mo.RZ), nil
}

func (m *SpaceNav) getButton(ctx context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("%d %d\n", boolInt(m.button.Press), m.button.Num), nil
}

func (m *SpaceNav) getState(ctx context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	return fmt.Sprintf("%d %d %d %d %d %d %d %d\n", s.X, s.Y, s.Z, s.RX, s.RY, s.RZ, boolInt(s.B0), boolInt(s.B1)), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package testutil

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/specialistvlad/spacenavgo/internal/registry"
)

// ErrProbeFailed is returned by the probe module's "fail" command.
var ErrProbeFailed = errors.New("probe failure")

// ProbePlugin is a plugin for lifecycle tests. It provides one module,
// "Probe", and counts how often modules are created, stepped and closed.
type ProbePlugin struct {
	// PluginName defaults to "probe".
	PluginName string
	// FailCreate makes every module construction fail.
	FailCreate bool

	Created atomic.Int32
	Steps   atomic.Int32
	Closed  atomic.Int32
}

// Name implements registry.Plugin.
func (p *ProbePlugin) Name() string {
	if p.PluginName == "" {
		return "probe"
	}
	return p.PluginName
}

// Register implements registry.Plugin.
func (p *ProbePlugin) Register(r *registry.Registry) {
	r.RegisterModule("Probe", p.create)
}

func (p *ProbePlugin) create(_ context.Context, _ *environment.Environment, args string) (module.Module, error) {
	if p.FailCreate {
		return nil, errors.New("probe construction refused")
	}
	p.Created.Add(1)

	m := &probeModule{plugin: p, args: args}
	m.Register("echo", func(_ context.Context, in string) (string, error) {
		return in, nil
	}, "Reply with the input verbatim")
	m.Register("args", func(context.Context, string) (string, error) {
		return m.args, nil
	}, "Reply with the construction arguments")
	m.Register("steps", func(context.Context, string) (string, error) {
		return strings.Repeat(".", int(p.Steps.Load())), nil
	}, "Reply with one dot per simulation step")
	m.Register("fail", func(context.Context, string) (string, error) {
		return "-1", ErrProbeFailed
	}, "Always fail")
	return m, nil
}

type probeModule struct {
	module.Commands
	plugin *ProbePlugin
	args   string
}

func (m *probeModule) Name() string { return "Probe" }

func (m *probeModule) SimulationStep(context.Context, time.Duration) error {
	m.plugin.Steps.Add(1)
	return nil
}

func (m *probeModule) Close() error {
	m.plugin.Closed.Add(1)
	return nil
}

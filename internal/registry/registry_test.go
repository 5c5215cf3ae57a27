// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/spacenavgo/internal/environment"
	"github.com/specialistvlad/spacenavgo/internal/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	name    string
	modules []string
}

func (p *stubPlugin) Name() string { return p.name }

func (p *stubPlugin) Register(r *Registry) {
	for _, m := range p.modules {
		r.RegisterModule(m, func(ctx context.Context, env *environment.Environment, args string) (module.Module, error) {
			return nil, nil
		})
	}
}

func TestPluginKey(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"ravespacenav":               "ravespacenav",
		"build/ravespacenav":         "ravespacenav",
		"/opt/plugins/RaveSpaceNav":  "ravespacenav",
		"build/libravespacenav.so":   "ravespacenav",
		"plugins/ravespacenav.dylib": "ravespacenav",
		"library":                    "library",
		"  build/ravespacenav  ":     "ravespacenav",
		"":                           "",
	}

	for ref, want := range testCases {
		assert.Equal(t, want, PluginKey(ref), "ref %q", ref)
	}
}

func TestCatalog_LookupByPath(t *testing.T) {
	t.Parallel()

	plugin := &stubPlugin{name: "ravespacenav"}
	c := NewCatalog(plugin)

	got, ok := c.Lookup("build/ravespacenav")
	require.True(t, ok)
	assert.Same(t, plugin, got)

	_, ok = c.Lookup("build/otherplugin")
	assert.False(t, ok)
	assert.Equal(t, []string{"ravespacenav"}, c.Names())
}

func TestCatalog_DuplicatePanics(t *testing.T) {
	t.Parallel()

	c := NewCatalog(&stubPlugin{name: "one"})
	assert.Panics(t, func() { c.Add(&stubPlugin{name: "ONE"}) })
	assert.Panics(t, func() { c.Add(&stubPlugin{name: ""}) })
}

func TestRegistry_ModuleLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	r := New()
	(&stubPlugin{name: "p", modules: []string{"SpaceNav", "Alpha"}}).Register(r)

	_, ok := r.Module("spacenav")
	assert.True(t, ok)
	_, ok = r.Module("SPACENAV")
	assert.True(t, ok)
	_, ok = r.Module("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Alpha", "SpaceNav"}, r.Interfaces(InterfaceModule))
	assert.Nil(t, r.Interfaces(InterfaceType(42)))
}

func TestRegistry_DuplicateModulePanics(t *testing.T) {
	t.Parallel()

	r := New()
	(&stubPlugin{name: "p", modules: []string{"SpaceNav"}}).Register(r)
	assert.Panics(t, func() {
		(&stubPlugin{name: "q", modules: []string{"spacenav"}}).Register(r)
	})
}

func TestInterfaceType_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "module", InterfaceModule.String())
	assert.Equal(t, "interface(7)", InterfaceType(7).String())
}

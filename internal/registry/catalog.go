// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Plugin is the interface every compiled-in plugin implements.
type Plugin interface {
	// Name is the name the plugin is loaded by, e.g. "ravespacenav".
	Name() string
	// Register contributes the plugin's interfaces to r.
	Register(r *Registry)
}

// Catalog lists the plugins available for loading.
type Catalog struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewCatalog creates a catalog holding the given plugins.
func NewCatalog(plugins ...Plugin) *Catalog {
	c := &Catalog{plugins: make(map[string]Plugin)}
	for _, p := range plugins {
		c.Add(p)
	}
	return c
}

// Add makes p available for loading. It panics on duplicate names.
func (c *Catalog) Add(p Plugin) {
	key := strings.ToLower(p.Name())
	if key == "" {
		panic("plugin name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.plugins[key]; exists {
		panic(fmt.Sprintf("plugin with name '%s' already in catalog", p.Name()))
	}
	c.plugins[key] = p
}

// Lookup resolves a plugin reference. The reference may be a bare name or a
// path to a plugin binary (e.g. "build/ravespacenav.so"); only the base name
// without a shared-library extension is significant.
func (c *Catalog) Lookup(ref string) (Plugin, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plugins[PluginKey(ref)]
	return p, ok
}

// Names returns the sorted names of all plugins in the catalog.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

// PluginKey normalizes a plugin reference into its catalog key.
func PluginKey(ref string) string {
	base := filepath.Base(strings.TrimSpace(ref))
	switch strings.ToLower(filepath.Ext(base)) {
	case ".so", ".dll", ".dylib":
		// Shared libraries are conventionally prefixed with "lib".
		base = strings.TrimPrefix(strings.TrimSuffix(base, filepath.Ext(base)), "lib")
	}
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToLower(base)
}

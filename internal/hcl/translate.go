// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"fmt"
	"time"

	"github.com/specialistvlad/spacenavgo/internal/config"
)

// merge translates one decoded file into the agnostic model.
func (l *Loader) merge(dst *config.Script, root *fileRoot, file string) error {
	if rt := root.Runtime; rt != nil {
		dst.Plugins = append(dst.Plugins, rt.Plugins...)
	}

	if env := root.Environment; env != nil {
		if env.Scene != nil {
			scene := resolve(file, *env.Scene)
			dst.Scene = &scene
		}
		if env.Schema != nil {
			schema := resolve(file, *env.Schema)
			dst.SchemaPath = &schema
		}
		if env.Validate != nil {
			v := *env.Validate
			dst.Validate = &v
		}
	}

	if sim := root.Simulation; sim != nil {
		if sim.Steps != nil {
			if *sim.Steps < 0 {
				return fmt.Errorf("simulation steps must not be negative, got %d", *sim.Steps)
			}
			steps := *sim.Steps
			dst.Steps = &steps
		}
		if sim.Interval != nil {
			d, err := time.ParseDuration(*sim.Interval)
			if err != nil {
				return fmt.Errorf("simulation interval: %w", err)
			}
			if d < 0 {
				return fmt.Errorf("simulation interval must not be negative, got %s", d)
			}
			dst.StepInterval = &d
		}
	}

	for _, m := range root.Modules {
		if m.Name == "" {
			return fmt.Errorf("module name must not be empty")
		}
		dst.Modules = append(dst.Modules, config.ModuleSpec{
			Name:     m.Name,
			Args:     m.Args,
			Commands: append([]string(nil), m.Commands...),
		})
	}
	return nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "time"

// Script is the unified representation of one or more bootstrap script files.
type Script struct {
	// Plugins to load, in order.
	Plugins []string

	// Scene is the scene file to load; nil when the script does not set it.
	Scene *string
	// SchemaPath overrides the built-in scene schema.
	SchemaPath *string
	// Validate toggles scene schema validation.
	Validate *bool

	// Steps is the number of simulation steps to run before commands.
	Steps *int
	// StepInterval is the wall-clock time between simulation steps.
	StepInterval *time.Duration

	// Modules to create, in declaration order.
	Modules []ModuleSpec

	// Files lists the script files the model was built from.
	Files []string
}

// ModuleSpec describes one module to create and the commands to send it.
type ModuleSpec struct {
	Name     string
	Args     string
	Commands []string
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

// fileRoot is the top-level structure of a bootstrap script file. Unknown
// blocks and attributes are rejected.
type fileRoot struct {
	Runtime     *runtimeBlock     `hcl:"runtime,block"`
	Environment *environmentBlock `hcl:"environment,block"`
	Simulation  *simulationBlock  `hcl:"simulation,block"`
	Modules     []*moduleBlock    `hcl:"module,block"`
}

type runtimeBlock struct {
	Plugins []string `hcl:"plugins,optional"`
}

type environmentBlock struct {
	Scene    *string `hcl:"scene,optional"`
	Schema   *string `hcl:"schema,optional"`
	Validate *bool   `hcl:"validate,optional"`
}

type simulationBlock struct {
	Steps    *int    `hcl:"steps,optional"`
	Interval *string `hcl:"interval,optional"`
}

type moduleBlock struct {
	Name     string   `hcl:"name,label"`
	Args     string   `hcl:"args,optional"`
	Commands []string `hcl:"commands,optional"`
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, expression
// evaluation and translating the HCL schema into the format-agnostic
// config.Script.
//
// Expressions are evaluated with an `env` object holding the process
// environment, so a script may write scene = "${env.HOME}/scenes/a.env.xml".
// Relative scene and schema paths are resolved against the directory of the
// script that declares them.
package hcl

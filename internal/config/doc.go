// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic model of a bootstrap script and
// the Loader interface that produces it.
//
// A script describes one run: which plugins to load, which scene to load into
// the environment, how long to simulate and which modules to create and
// command. Fields left unset in the script are nil or empty so that callers
// can layer the script over other sources such as command-line flags.
// Concrete loaders, such as the HCL one, live in separate packages.
package config

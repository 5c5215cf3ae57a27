// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package module defines the contract every host-loaded module satisfies and
// the string command dispatcher modules embed to expose their operations.
//
// A module is driven in two ways. The environment advances it once per
// simulation step through SimulationStep, and clients talk to it through
// SendCommand, which takes a single free-form line. The first whitespace
// separated token names the command (case-insensitive) and the remainder is
// handed to the command's handler untouched. Every dispatcher answers "help".
package module

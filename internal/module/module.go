// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package module

import (
	"context"
	"time"
)

// Module is a named behavioural unit bound to an environment.
type Module interface {
	// Name returns the interface name the module was created under.
	Name() string

	// SendCommand dispatches one command line and returns the reply.
	SendCommand(ctx context.Context, line string) (string, error)

	// SimulationStep advances the module by the elapsed simulated time.
	SimulationStep(ctx context.Context, elapsed time.Duration) error

	// Close releases everything the module holds. It is called once, by the
	// owning environment, during teardown.
	Close() error
}

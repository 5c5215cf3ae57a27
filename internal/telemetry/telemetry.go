// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package telemetry forwards device events out of the process so that remote
// viewers can follow a run live.
package telemetry

// Publisher receives named events. Implementations must be safe for
// concurrent use and must not block the caller for long.
type Publisher interface {
	Publish(event string, payload any)
}

// Nop is a Publisher that discards everything.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(string, any) {}

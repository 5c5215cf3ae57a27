// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "context"

// Loader is the interface for a format-specific script loader.
type Loader interface {
	// Load reads every script found under paths (files or directories) and
	// merges them into a single Script.
	Load(ctx context.Context, paths ...string) (*Script, error)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package registry provides the central "glue" for the plugin system.
//
// Two structures live here. The Catalog lists every plugin compiled into the
// binary, keyed by the name a user loads it with (e.g. "ravespacenav"). The
// Registry holds the interface factories of the plugins that were actually
// loaded into a runtime. A plugin that sits in the catalog but was never
// loaded contributes nothing to the Registry, so its modules cannot be
// created.
//
// Both structures treat names case-insensitively and panic on duplicate
// registration, since a duplicate is always a programmer error.
package registry

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/spacenavgo/internal/config"
	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
	"github.com/specialistvlad/spacenavgo/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnviron replaces the process environment exposed as `env`.
func WithEnviron(environ []string) LoaderOption {
	return func(l *Loader) { l.environ = environ }
}

// NewLoader creates a new HCL script loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{environ: os.Environ()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every .hcl file under paths and merges them in discovery
// order. Single-valued settings from later files override earlier ones;
// plugins and modules accumulate.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Script, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl script files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "files", files)

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ)
	script := &config.Script{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(script, &root, file); err != nil {
			return nil, fmt.Errorf("invalid script %s: %w", file, err)
		}
		script.Files = append(script.Files, file)
	}

	logger.Debug("HCL loading complete.", "plugins", len(script.Plugins), "modules", len(script.Modules))
	return script, nil
}

// findAllHCLFiles returns every .hcl file under paths, without duplicates.
// Unlike a missing directory in a search path, a missing script is an error.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing script path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error walking script directory %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}

// resolve makes a relative path relative to the script's directory.
func resolve(scriptFile, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(scriptFile), p)
}

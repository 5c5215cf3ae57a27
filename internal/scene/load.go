// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package scene loads environment description files.
//
// A scene is an XML document rooted at <Environment>. Before decoding, the
// document is validated against an XSD: the built-in scene.xsd by default,
// or a schema supplied by the caller. Element and attribute names are case
// sensitive.
package scene

import (
	"bytes"
	"context"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
	"github.com/specialistvlad/spacenavgo/internal/ctxlog"
)

//go:embed scene.xsd
var schemaFS embed.FS

// ErrInvalidScene is returned when a document fails schema validation or
// cannot be decoded.
var ErrInvalidScene = errors.New("invalid scene")

// Options controls how a scene is loaded.
type Options struct {
	// SchemaPath overrides the built-in schema.
	SchemaPath string
	// SkipValidation disables schema validation entirely.
	SkipValidation bool
}

var defaultSchema = sync.OnceValues(func() (*xsd.Schema, error) {
	return xsd.Load(schemaFS, "scene.xsd")
})

// Load reads, validates and decodes the scene file at path.
func Load(ctx context.Context, path string, opts Options) (*Scene, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading scene.", "path", path, "schema", opts.SchemaPath, "skip_validation", opts.SkipValidation)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}

	if !opts.SkipValidation {
		if err := Validate(ctx, data, opts.SchemaPath); err != nil {
			return nil, fmt.Errorf("scene %s: %w", path, err)
		}
	}

	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	s.Path = path

	logger.Debug("Scene loaded.", "path", path, "robots", len(s.Robots), "kinbodies", len(s.KinBodies), "bodies", s.BodyCount())
	return s, nil
}

// Parse decodes a scene document without validating it.
func Parse(r io.Reader) (*Scene, error) {
	var s Scene
	if err := xml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return &s, nil
}

// Validate checks data against the schema at schemaPath, or against the
// built-in schema when schemaPath is empty. Every violation is reported.
func Validate(ctx context.Context, data []byte, schemaPath string) error {
	schema, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}

	err = schema.Validate(bytes.NewReader(data))
	if err == nil {
		return nil
	}

	violations, ok := xsderrors.AsValidations(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	logger := ctxlog.FromContext(ctx)
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		logger.Debug("Scene violation.", "code", v.Code, "path", v.Path, "line", v.Line, "column", v.Column, "message", v.Message)
		msgs = append(msgs, v.Error())
	}
	return fmt.Errorf("%w:\n- %s", ErrInvalidScene, strings.Join(msgs, "\n- "))
}

func loadSchema(schemaPath string) (*xsd.Schema, error) {
	if schemaPath == "" {
		schema, err := defaultSchema()
		if err != nil {
			return nil, fmt.Errorf("load built-in scene schema: %w", err)
		}
		return schema, nil
	}

	schema, err := xsd.LoadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("load scene schema %s: %w", schemaPath, err)
	}
	return schema, nil
}

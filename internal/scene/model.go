// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package scene

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Scene is the decoded form of an environment description file.
type Scene struct {
	XMLName         xml.Name   `xml:"Environment"`
	CamTrans        Floats     `xml:"camtrans"`
	CamRotationAxis Floats     `xml:"camrotationaxis"`
	BackgroundColor Floats     `xml:"bkgndcolor"`
	Robots          []*Robot   `xml:"Robot"`
	KinBodies       []*KinBody `xml:"KinBody"`

	// Path is the file the scene was loaded from, empty when parsed from a
	// reader.
	Path string `xml:"-"`
}

// Robot references an externally described robot.
type Robot struct {
	Name         string `xml:"name,attr"`
	File         string `xml:"file,attr"`
	Translation  Floats `xml:"Translation"`
	RotationAxis Floats `xml:"RotationAxis"`
}

// KinBody is a kinematic body made of one or more rigid bodies.
type KinBody struct {
	Name         string  `xml:"name,attr"`
	File         string  `xml:"file,attr"`
	Translation  Floats  `xml:"Translation"`
	RotationAxis Floats  `xml:"RotationAxis"`
	Bodies       []*Body `xml:"Body"`
}

// Body is a single rigid link.
type Body struct {
	Name         string  `xml:"name,attr"`
	Type         string  `xml:"type,attr"`
	Translation  Floats  `xml:"Translation"`
	RotationAxis Floats  `xml:"RotationAxis"`
	Geoms        []*Geom `xml:"Geom"`
}

// Static reports whether the body is fixed in the world.
func (b *Body) Static() bool {
	return b.Type == "static"
}

// Geom is a collision/render primitive attached to a body.
type Geom struct {
	Type         string   `xml:"type,attr"`
	Render       *bool    `xml:"render,attr"`
	Translation  Floats   `xml:"Translation"`
	RotationAxis Floats   `xml:"RotationAxis"`
	Extents      Floats   `xml:"extents"`
	Radius       *float64 `xml:"radius"`
	Height       *float64 `xml:"height"`
	DiffuseColor Floats   `xml:"diffuseColor"`
	AmbientColor Floats   `xml:"ambientColor"`
	Transparency *float64 `xml:"transparency"`
	Data         string   `xml:"Data"`
	RenderFile   string   `xml:"Render"`
}

// Floats is a whitespace separated list of numbers such as "0 0 1.5".
type Floats []float64

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Floats) UnmarshalText(text []byte) error {
	fields := strings.Fields(string(text))
	out := make(Floats, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", field, err)
		}
		out = append(out, v)
	}
	*f = out
	return nil
}

// KinBody returns the kinematic body called name, or nil.
func (s *Scene) KinBody(name string) *KinBody {
	for _, kb := range s.KinBodies {
		if kb.Name == name {
			return kb
		}
	}
	return nil
}

// BodyCount returns the total number of rigid bodies across all kinbodies.
func (s *Scene) BodyCount() int {
	n := 0
	for _, kb := range s.KinBodies {
		n += len(kb.Bodies)
	}
	return n
}

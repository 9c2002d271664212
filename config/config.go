// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads level descriptions from TOML.
//
// A level file declares the portal surfaces and their pairing, the viewer,
// an optional preview viewer, the wrap repetition setup and the vertical
// wrap bounds:
//
//	[[portal]]
//	name = "east"
//	pair = "west"
//	position = [10.0, 1.5, 0.0]
//	rotation = [0.0, 90.0, 0.0]
//
//	[portal.projection]
//	width = 640
//	height = 512
//	depth = "fast"
//
//	[portal.recursion]
//	steps = 2
//
//	[viewer]
//	position = [0.0, 1.5, 0.0]
//	fov = 60.0
//
//	[wrap]
//	entrance = [-10.0, 0.0, 0.0]
//	exit = [10.0, 0.0, 0.0]
//	repetitions = 1
//
// Omitted values take the portal and viewer defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidLevel is returned for a level file that parses but is not usable.
var ErrInvalidLevel = errors.New("config: invalid level")

// Vec3 is an [x, y, z] triple.
type Vec3 [3]float64

// Level is a parsed level file.
type Level struct {
	Portals []Portal `toml:"portal"`
	Viewer  Viewer   `toml:"viewer"`
	Preview *Viewer  `toml:"preview"`
	Wrap    *Wrap    `toml:"wrap"`
	Bounds  *Bounds  `toml:"bounds"`

	// dir resolves relative asset paths; empty for parsed data.
	dir string
}

// Portal describes one portal surface.
type Portal struct {
	Name     string `toml:"name"`
	Pair     string `toml:"pair"`
	Position Vec3   `toml:"position"`
	Rotation Vec3   `toml:"rotation"`
	Scale    *Vec3  `toml:"scale"`

	// Facing, when set, makes the portal fixed-facing along that axis.
	Facing string `toml:"facing"`

	Projection Projection `toml:"projection"`
	Recursion  Recursion  `toml:"recursion"`
	Distortion Distortion `toml:"distortion"`
}

// Projection overrides the target resolution and depth tier.
type Projection struct {
	Width  *int   `toml:"width"`
	Height *int   `toml:"height"`
	Depth  string `toml:"depth"`
}

// Recursion overrides the recursion depth and the terminal step colour.
type Recursion struct {
	Steps *int `toml:"steps"`

	// FinalStepColor, as [r, g, b, a] in 0..1, caps the recursion with a
	// flat colour instead of an empty terminal step.
	FinalStepColor *[4]float64 `toml:"final_step_color"`
}

// Distortion overrides the scrolling pattern settings.
type Distortion struct {
	Enabled bool        `toml:"enabled"`
	Pattern string      `toml:"pattern"`
	Color   *[4]float64 `toml:"color"`
	Tiling  *int        `toml:"tiling"`
	SpeedX  *float64    `toml:"speed_x"`
	SpeedY  *float64    `toml:"speed_y"`
}

// Viewer describes a viewer camera. Zero values take the defaults.
type Viewer struct {
	Position    Vec3    `toml:"position"`
	Rotation    Vec3    `toml:"rotation"`
	Aspect      float64 `toml:"aspect"`
	FieldOfView float64 `toml:"fov"`
	NearClip    float64 `toml:"near"`
	FarClip     float64 `toml:"far"`
	CullingMask *uint32 `toml:"culling_mask"`
}

// Group is a geometry group copied by the wrap setup.
type Group struct {
	Name   string `toml:"name"`
	Origin Vec3   `toml:"origin"`
}

// Wrap describes the level repetition around the seam.
type Wrap struct {
	Entrance         Vec3    `toml:"entrance"`
	EntranceRotation Vec3    `toml:"entrance_rotation"`
	Exit             Vec3    `toml:"exit"`
	ExitRotation     Vec3    `toml:"exit_rotation"`
	Repetitions      int     `toml:"repetitions"`
	Primary          Group   `toml:"primary"`
	Groups           []Group `toml:"groups"`
	FarViewer        *Vec3   `toml:"far_viewer"`
	FarRenderPlane   *Vec3   `toml:"far_render_plane"`
}

// Bounds are the heights of the vertical wrap planes.
type Bounds struct {
	Upper float64 `toml:"upper"`
	Lower float64 `toml:"lower"`
}

// Load reads and parses a level file. Relative pattern paths resolve
// against the file's directory.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	lvl.dir = filepath.Dir(path)
	return lvl, nil
}

// Parse decodes a level. Unknown keys are rejected.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lvl); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := lvl.check(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// check validates structure that does not depend on other packages.
func (l *Level) check() error {
	seen := make(map[string]bool, len(l.Portals))
	for i, p := range l.Portals {
		if p.Name == "" {
			return fmt.Errorf("%w: portal %d has no name", ErrInvalidLevel, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate portal %q", ErrInvalidLevel, p.Name)
		}
		seen[p.Name] = true
	}
	if l.Bounds != nil && l.Bounds.Upper <= l.Bounds.Lower {
		return fmt.Errorf("%w: upper bound %g not above lower bound %g",
			ErrInvalidLevel, l.Bounds.Upper, l.Bounds.Lower)
	}
	return nil
}

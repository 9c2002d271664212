// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/render"
)

// Limits on view projection settings.
const (
	MinRecursionSteps = 1
	MaxRecursionSteps = 20

	MinTiling = 1
	MaxTiling = 100

	MaxScrollSpeed = 10
)

// Default projection, matching a 5:4 render texture.
const (
	DefaultWidth  = 1280
	DefaultHeight = 1024
)

// Projection is the resolution and depth precision of a surface's targets.
// Width and height below 1 are clamped to 1 when targets are allocated.
type Projection struct {
	Width  int
	Height int
	Depth  render.DepthQuality
}

// TargetConfig converts the projection to a clamped target config.
func (p Projection) TargetConfig() render.TargetConfig {
	return render.TargetConfig{Width: p.Width, Height: p.Height, Depth: p.Depth}.Clamped()
}

// Recursion controls the mirror-in-mirror depth.
type Recursion struct {
	// Steps is the number of nested reflections, 1 to 20.
	Steps int

	// FinalStep, when set, replaces the surfaces seen by the terminal step
	// instead of culling everything but the background.
	FinalStep *material.Material
}

// Distortion is the scrolling pattern overlaid on the portal image.
type Distortion struct {
	Enabled bool
	Pattern material.Texture
	Tint    color.RGBA
	Tiling  int
	SpeedX  float64
	SpeedY  float64
}

// ViewProjectionSettings configures how one surface renders its partner's view.
type ViewProjectionSettings struct {
	Projection Projection
	Recursion  Recursion
	Distortion Distortion
}

// DefaultSettings returns 1280x1024 high precision targets, one recursion
// step and a disabled white distortion pattern scrolling slowly along X.
func DefaultSettings() ViewProjectionSettings {
	return ViewProjectionSettings{
		Projection: Projection{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Depth:  render.DepthHigh,
		},
		Recursion: Recursion{Steps: 1},
		Distortion: Distortion{
			Tint:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Tiling: 1,
			SpeedX: 0.01,
		},
	}
}

// Validate checks the recursion depth and distortion ranges.
// Projection sizes are not checked; they are clamped at allocation time.
func (s ViewProjectionSettings) Validate() error {
	var errs []error
	if n := s.Recursion.Steps; n < MinRecursionSteps || n > MaxRecursionSteps {
		errs = append(errs, fmt.Errorf("%w: %d steps, want %d..%d",
			ErrInvalidRecursion, n, MinRecursionSteps, MaxRecursionSteps))
	}
	d := s.Distortion
	if d.Tiling < MinTiling || d.Tiling > MaxTiling {
		errs = append(errs, fmt.Errorf("%w: tiling %d, want %d..%d",
			ErrInvalidDistortion, d.Tiling, MinTiling, MaxTiling))
	}
	if d.SpeedX < -MaxScrollSpeed || d.SpeedX > MaxScrollSpeed {
		errs = append(errs, fmt.Errorf("%w: speed x %g, want -%d..%d",
			ErrInvalidDistortion, d.SpeedX, MaxScrollSpeed, MaxScrollSpeed))
	}
	if d.SpeedY < -MaxScrollSpeed || d.SpeedY > MaxScrollSpeed {
		errs = append(errs, fmt.Errorf("%w: speed y %g, want -%d..%d",
			ErrInvalidDistortion, d.SpeedY, MaxScrollSpeed, MaxScrollSpeed))
	}
	return errors.Join(errs...)
}

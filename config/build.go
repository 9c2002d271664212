// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap/align"
	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/portal"
	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/transform"
	"github.com/gogpu/worldwrap/wrap"
)

// Vec returns v as an mgl64 vector.
func (v Vec3) Vec() mgl64.Vec3 { return mgl64.Vec3(v) }

func transformOf(pos, rot Vec3) transform.Transform {
	return transform.NewEuler(pos.Vec(), rot.Vec())
}

// Registry builds the portal registry, pairs surfaces by name and validates
// the result. Pairing is applied one side at a time so that a level where
// A names B but B names C fails validation instead of being repaired.
func (l *Level) Registry() (*portal.Registry, error) {
	reg := portal.NewRegistry()
	for _, p := range l.Portals {
		settings, err := l.settings(p)
		if err != nil {
			return nil, fmt.Errorf("config: portal %q: %w", p.Name, err)
		}
		t := transformOf(p.Position, p.Rotation)
		if p.Scale != nil {
			t.Scale = p.Scale.Vec()
		}
		id, err := reg.Add(p.Name, t, settings)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if p.Facing != "" {
			f, err := align.ParseFacing(p.Facing)
			if err != nil {
				return nil, fmt.Errorf("config: portal %q: %w", p.Name, err)
			}
			s := reg.Surface(id)
			s.FixedFacing = true
			s.Facing = f
		}
	}

	for _, p := range l.Portals {
		if p.Pair == "" {
			continue
		}
		id, _ := reg.Lookup(p.Name)
		partner, ok := reg.Lookup(p.Pair)
		if !ok {
			return nil, fmt.Errorf("config: portal %q: %w: %q", p.Name, portal.ErrUnknownSurface, p.Pair)
		}
		if err := reg.SetPair(id, partner); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return reg, nil
}

// settings applies the portal's overrides to the defaults.
func (l *Level) settings(p Portal) (portal.ViewProjectionSettings, error) {
	s := portal.DefaultSettings()

	if v := p.Projection.Width; v != nil {
		s.Projection.Width = *v
	}
	if v := p.Projection.Height; v != nil {
		s.Projection.Height = *v
	}
	if p.Projection.Depth != "" {
		q, err := render.ParseDepthQuality(p.Projection.Depth)
		if err != nil {
			return s, err
		}
		s.Projection.Depth = q
	}

	if v := p.Recursion.Steps; v != nil {
		s.Recursion.Steps = *v
	}
	if c := p.Recursion.FinalStepColor; c != nil {
		s.Recursion.FinalStep = material.NewOverride(p.Name+" final step", rgba(*c))
	}

	d := p.Distortion
	s.Distortion.Enabled = d.Enabled
	if d.Color != nil {
		s.Distortion.Tint = rgba(*d.Color)
	}
	if d.Tiling != nil {
		s.Distortion.Tiling = *d.Tiling
	}
	if d.SpeedX != nil {
		s.Distortion.SpeedX = *d.SpeedX
	}
	if d.SpeedY != nil {
		s.Distortion.SpeedY = *d.SpeedY
	}
	if d.Pattern != "" {
		img, err := l.loadPattern(d.Pattern)
		if err != nil {
			return s, err
		}
		s.Distortion.Pattern = material.ImageTexture{Image: img}
	}
	return s, nil
}

func (l *Level) loadPattern(path string) (image.Image, error) {
	if !filepath.IsAbs(path) && l.dir != "" {
		path = filepath.Join(l.dir, path)
	}
	f, err := os.Open(path) //nolint:gosec // level files name their own assets
	if err != nil {
		return nil, fmt.Errorf("distortion pattern: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("distortion pattern %s: %w", path, err)
	}
	return img, nil
}

// rgba converts [r, g, b, a] in 0..1 to 8-bit colour.
func rgba(c [4]float64) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(mgl64.Clamp(v, 0, 1) * 255))
	}
	return color.RGBA{R: ch(c[0]), G: ch(c[1]), B: ch(c[2]), A: ch(c[3])}
}

// toViewer applies the viewer defaults to zero values.
func (v Viewer) toViewer() portal.Viewer {
	out := portal.NewViewer(transformOf(v.Position, v.Rotation))
	if v.Aspect > 0 {
		out.Aspect = v.Aspect
	}
	if v.FieldOfView > 0 {
		out.FieldOfView = v.FieldOfView
	}
	if v.NearClip > 0 {
		out.NearClip = v.NearClip
	}
	if v.FarClip > 0 {
		out.FarClip = v.FarClip
	}
	if v.CullingMask != nil {
		out.CullingMask = render.Layer(*v.CullingMask)
	}
	return out
}

// Frame returns a frame holding the primary viewer and, when declared,
// the preview viewer.
func (l *Level) Frame() portal.Frame {
	primary := l.Viewer.toViewer()
	f := portal.Frame{Primary: &primary}
	if l.Preview != nil {
		preview := l.Preview.toViewer()
		f.Preview = &preview
	}
	return f
}

// WrapSetup returns the repetition setup, or nil when the level has no
// [wrap] table. The far anchors, when declared, are fresh transforms owned
// by the returned setup.
func (l *Level) WrapSetup() *wrap.Setup {
	w := l.Wrap
	if w == nil {
		return nil
	}
	s := &wrap.Setup{
		Primary:     wrap.Group{Name: w.Primary.Name, Origin: w.Primary.Origin.Vec()},
		Entrance:    transformOf(w.Entrance, w.EntranceRotation),
		Exit:        transformOf(w.Exit, w.ExitRotation),
		Repetitions: w.Repetitions,
	}
	if s.Primary.Name == "" {
		s.Primary.Name = "level"
	}
	for _, g := range w.Groups {
		s.Groups = append(s.Groups, wrap.Group{Name: g.Name, Origin: g.Origin.Vec()})
	}
	if w.FarViewer != nil {
		t := transform.New(w.FarViewer.Vec())
		s.FarViewer = &t
	}
	if w.FarRenderPlane != nil {
		t := transform.New(w.FarRenderPlane.Vec())
		s.FarRenderPlane = &t
	}
	return s
}

// Repositioner returns a vertical wrap for objects, or nil when the level
// has no [bounds] table.
func (l *Level) Repositioner(objects ...*transform.Transform) *wrap.Repositioner {
	if l.Bounds == nil {
		return nil
	}
	upper := transform.New(mgl64.Vec3{0, l.Bounds.Upper, 0})
	lower := transform.New(mgl64.Vec3{0, l.Bounds.Lower, 0})
	return &wrap.Repositioner{Objects: objects, Upper: &upper, Lower: &lower}
}

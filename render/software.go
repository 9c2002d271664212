// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// SoftwareRenderer is a CPU ray caster for a World.
//
// It writes directly into CPU-backed targets (Pixels() != nil) and is used
// by tests and the wrapdemo command in place of an engine renderer.
//
// Example:
//
//	renderer := render.NewSoftwareRenderer(render.DefaultWorld())
//	target := render.NewPixmapTarget(320, 240)
//	cam := render.NewCamera("main")
//	cam.Position = mgl64.Vec3{0, 1.5, 0}
//
//	renderer.Render(cam, target)
//	img := target.Image()
type SoftwareRenderer struct {
	world *World
	stats Stats
}

// Stats counts renderer work since the last ResetStats.
type Stats struct {
	Renders int
	Blits   int
	Pixels  int
}

// NewSoftwareRenderer creates a CPU renderer for world.
// A nil world renders the default world.
func NewSoftwareRenderer(world *World) *SoftwareRenderer {
	if world == nil {
		world = DefaultWorld()
	}
	return &SoftwareRenderer{world: world}
}

// World returns the scene being rendered.
func (r *SoftwareRenderer) World() *World {
	return r.world
}

// Render ray-casts the world from cam into target.
//
// Returns ErrNotCPUTarget if the target is GPU-only.
func (r *SoftwareRenderer) Render(cam *Camera, target RenderTarget) error {
	if cam == nil {
		return errors.New("render: nil camera")
	}
	img, err := rgbaOf(target)
	if err != nil {
		return err
	}

	width, height := target.Width(), target.Height()
	aspect := float64(width) / float64(height)

	var override *color.RGBA
	if cam.Override != nil {
		fill := cam.Override.Fill
		override = &fill
	}

	for y := range height {
		v := 1 - 2*(float64(y)+0.5)/float64(height)
		row := y * img.Stride
		for x := range width {
			u := 2*(float64(x)+0.5)/float64(width) - 1
			dir := cam.ViewRay(u, v, aspect)
			c := r.world.Trace(cam.Position, dir, cam.CullingMask, cam.NearClip, cam.FarClip, override)
			off := row + x*4
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = c.A
		}
	}

	r.stats.Renders++
	r.stats.Pixels += width * height
	return nil
}

// Blit copies src into dst, using bilinear scaling when sizes differ.
func (r *SoftwareRenderer) Blit(src, dst RenderTarget) error {
	s, err := rgbaOf(src)
	if err != nil {
		return err
	}
	d, err := rgbaOf(dst)
	if err != nil {
		return err
	}

	if s.Bounds().Size() == d.Bounds().Size() {
		draw.Copy(d, image.Point{}, s, s.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(d, d.Bounds(), s, s.Bounds(), draw.Src, nil)
	}
	r.stats.Blits++
	return nil
}

// Flush ensures all rendering is complete.
// For the software renderer, this is a no-op as operations are synchronous.
func (r *SoftwareRenderer) Flush() error {
	return nil
}

// Stats returns the work counters.
func (r *SoftwareRenderer) Stats() Stats {
	return r.stats
}

// ResetStats zeroes the work counters.
func (r *SoftwareRenderer) ResetStats() {
	r.stats = Stats{}
}

// Capabilities returns the renderer's capabilities.
func (r *SoftwareRenderer) Capabilities() RendererCapabilities {
	return RendererCapabilities{
		IsGPU:          false,
		SupportsDepth:  false,
		MaxTextureSize: 0, // No limit
	}
}

// rgbaOf views a CPU-backed target as *image.RGBA without copying.
func rgbaOf(target RenderTarget) (*image.RGBA, error) {
	if target == nil {
		return nil, errors.New("render: nil target")
	}
	if pt, ok := target.(*PixmapTarget); ok {
		return pt.Image(), nil
	}
	pix := target.Pixels()
	if pix == nil {
		return nil, ErrNotCPUTarget
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: target.Stride(),
		Rect:   image.Rect(0, 0, target.Width(), target.Height()),
	}, nil
}

// Ensure SoftwareRenderer implements Renderer and CapableRenderer.
var (
	_ Renderer        = (*SoftwareRenderer)(nil)
	_ CapableRenderer = (*SoftwareRenderer)(nil)
)

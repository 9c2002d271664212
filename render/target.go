// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RenderTarget is an offscreen colour+depth buffer owned by one portal surface.
//
// Targets may support CPU access (Pixels) or live only on the GPU
// (TextureTarget). The Renderer implementation chooses the access method.
// Every target also satisfies material.Texture, so it can be bound to a
// portal surface's material directly.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the colour format of the target.
	Format() gputypes.TextureFormat

	// DepthFormat returns the depth buffer format of the target.
	DepthFormat() gputypes.TextureFormat

	// Label returns the diagnostic owner label.
	Label() string

	// Pixels returns direct access to RGBA pixel data.
	// Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row, or 0 for GPU-only targets.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// The depth buffer is not materialized on the CPU; only its precision is
// recorded so that software and GPU paths agree on configuration.
type PixmapTarget struct {
	img   *image.RGBA
	depth DepthQuality
	label string
}

// NewPixmapTarget creates a new CPU-backed render target with a high
// precision depth tier.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: DepthHigh,
	}
}

// newPixmapTargetFromDescriptor creates a labelled target for an allocator.
func newPixmapTargetFromDescriptor(desc TargetDescriptor) *PixmapTarget {
	return &PixmapTarget{
		img:   image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height)),
		depth: desc.Depth,
		label: desc.Label,
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// DepthFormat returns the depth format of the configured quality tier.
func (t *PixmapTarget) DepthFormat() gputypes.TextureFormat {
	return t.depth.Format()
}

// Depth returns the configured depth precision.
func (t *PixmapTarget) Depth() DepthQuality {
	return t.depth
}

// Label returns the diagnostic owner label.
func (t *PixmapTarget) Label() string {
	return t.label
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	bounds := t.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			t.img.SetRGBA(x, y, rgba)
		}
	}
}

// SetPixel sets a single pixel at the given coordinates.
func (t *PixmapTarget) SetPixel(x, y int, c color.Color) {
	t.img.Set(x, y, c)
}

// GetPixel returns the color at the given coordinates.
func (t *PixmapTarget) GetPixel(x, y int) color.RGBA {
	return t.img.RGBAAt(x, y)
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// TextureTarget is a GPU colour texture plus depth texture created through
// the wgpu HAL. Release it through the HALAllocator that created it.
type TextureTarget struct {
	device hal.Device

	label  string
	width  int
	height int
	format gputypes.TextureFormat
	depth  DepthQuality

	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int {
	return t.height
}

// Format returns the colour format.
func (t *TextureTarget) Format() gputypes.TextureFormat {
	return t.format
}

// DepthFormat returns the depth texture format.
func (t *TextureTarget) DepthFormat() gputypes.TextureFormat {
	return t.depth.Format()
}

// Label returns the diagnostic owner label.
func (t *TextureTarget) Label() string {
	return t.label
}

// Pixels returns nil as this is a GPU-only target.
func (t *TextureTarget) Pixels() []byte {
	return nil
}

// Stride returns 0 as this is a GPU-only target.
func (t *TextureTarget) Stride() int {
	return 0
}

// ColorView returns the colour attachment view, or nil after Destroy.
func (t *TextureTarget) ColorView() hal.TextureView {
	return t.colorView
}

// DepthView returns the depth attachment view, or nil after Destroy.
func (t *TextureTarget) DepthView() hal.TextureView {
	return t.depthView
}

// ColorTexture returns the colour texture, e.g. as a copy destination.
func (t *TextureTarget) ColorTexture() hal.Texture {
	return t.colorTex
}

// Destroy releases the views and textures. Safe to call more than once.
func (t *TextureTarget) Destroy() {
	if t.device == nil {
		return
	}
	if t.depthView != nil {
		t.device.DestroyTextureView(t.depthView)
		t.depthView = nil
	}
	if t.depthTex != nil {
		t.device.DestroyTexture(t.depthTex)
		t.depthTex = nil
	}
	if t.colorView != nil {
		t.device.DestroyTextureView(t.colorView)
		t.colorView = nil
	}
	if t.colorTex != nil {
		t.device.DestroyTexture(t.colorTex)
		t.colorTex = nil
	}
}

// Ensure TextureTarget implements RenderTarget.
var _ RenderTarget = (*TextureTarget)(nil)

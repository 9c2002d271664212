// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package material is the shader binding surface for portal surfaces.
//
// A Material holds named uniforms (textures, integers, floats, colours)
// that the host renderer uploads before drawing a surface. Portal surfaces
// use the uniform names declared here; the matching WGSL shader is
// available through PortalShaderSource and PortalShaderSPIRV.
package material

import (
	"image"
	"image/color"
)

// Uniform names bound on portal surface materials.
const (
	MainTex           = "main_tex"
	EnableDistortion  = "enable_distortion"
	DistortionPattern = "distortion_pattern"
	DistortionColor   = "distortion_color"
	DistortionTiling  = "distortion_tiling"
	DistortionSpeedX  = "distortion_speed_x"
	DistortionSpeedY  = "distortion_speed_y"
)

// Texture is anything a material can sample.
// Render targets and ImageTexture satisfy it.
type Texture interface {
	Width() int
	Height() int
}

// ImageTexture adapts a decoded image, such as a distortion pattern, to Texture.
type ImageTexture struct {
	Image image.Image
}

// Width returns the image width in pixels.
func (t ImageTexture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (t ImageTexture) Height() int { return t.Image.Bounds().Dy() }

// Material is a named set of shader uniforms.
//
// Materials are not safe for concurrent use.
type Material struct {
	name   string
	shader string

	// Fill is the flat colour used when the material overrides a whole
	// render, as on the terminal recursion step.
	Fill color.RGBA

	textures map[string]Texture
	ints     map[string]int
	floats   map[string]float64
	colors   map[string]color.RGBA
}

// New creates an empty material using the named shader.
func New(name, shader string) *Material {
	return &Material{
		name:     name,
		shader:   shader,
		textures: make(map[string]Texture),
		ints:     make(map[string]int),
		floats:   make(map[string]float64),
		colors:   make(map[string]color.RGBA),
	}
}

// NewOverride creates a flat-fill material for the terminal recursion step.
func NewOverride(name string, fill color.RGBA) *Material {
	m := New(name, "")
	m.Fill = fill
	return m
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Shader returns the name of the shader the material binds to.
func (m *Material) Shader() string { return m.shader }

// SetTexture binds tex to name. A nil tex unbinds it.
func (m *Material) SetTexture(name string, tex Texture) {
	if tex == nil {
		delete(m.textures, name)
		return
	}
	m.textures[name] = tex
}

// Texture returns the texture bound to name, or nil.
func (m *Material) Texture(name string) Texture {
	return m.textures[name]
}

// HasTexture reports whether a texture is bound to name.
func (m *Material) HasTexture(name string) bool {
	_, ok := m.textures[name]
	return ok
}

// SetInt sets an integer uniform.
func (m *Material) SetInt(name string, v int) { m.ints[name] = v }

// Int returns an integer uniform, or 0.
func (m *Material) Int(name string) int { return m.ints[name] }

// SetBool sets a flag uniform, stored as 0 or 1 for the shader.
func (m *Material) SetBool(name string, v bool) {
	if v {
		m.ints[name] = 1
	} else {
		m.ints[name] = 0
	}
}

// Bool reports whether a flag uniform is set to a non-zero value.
func (m *Material) Bool(name string) bool { return m.ints[name] != 0 }

// SetFloat sets a float uniform.
func (m *Material) SetFloat(name string, v float64) { m.floats[name] = v }

// Float returns a float uniform, or 0.
func (m *Material) Float(name string) float64 { return m.floats[name] }

// SetColor sets a colour uniform.
func (m *Material) SetColor(name string, c color.RGBA) { m.colors[name] = c }

// Color returns a colour uniform, or transparent black.
func (m *Material) Color(name string) color.RGBA { return m.colors[name] }

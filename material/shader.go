// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package material

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
)

// PortalShader is the shader name bound by portal surface materials.
const PortalShader = "portal"

//go:embed shaders/portal.wgsl
var portalShaderSource string

// ErrEmptySPIRV is returned when the compiler produces no usable output.
var ErrEmptySPIRV = errors.New("material: compiled shader is empty")

var (
	portalOnce  sync.Once
	portalSPIRV []uint32
	portalErr   error
)

// PortalShaderSource returns the WGSL source of the portal surface shader.
func PortalShaderSource() string {
	return portalShaderSource
}

// PortalShaderSPIRV compiles the portal shader to SPIR-V words.
// The result is computed once and shared.
func PortalShaderSPIRV() ([]uint32, error) {
	portalOnce.Do(func() {
		portalSPIRV, portalErr = compileSPIRV(portalShaderSource)
	})
	return portalSPIRV, portalErr
}

// NewPortal creates a portal surface material with the distortion uniforms
// at their neutral values.
func NewPortal(name string) *Material {
	m := New(name, PortalShader)
	m.SetBool(EnableDistortion, false)
	m.SetInt(DistortionTiling, 1)
	return m
}

// compileSPIRV compiles WGSL to little-endian SPIR-V words.
func compileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("material: failed to compile shader: %w", err)
	}
	if len(spirvBytes) < 4 || len(spirvBytes)%4 != 0 {
		return nil, ErrEmptySPIRV
	}

	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

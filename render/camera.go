// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/transform"
)

// Layer is a bit in a camera culling mask.
type Layer uint32

// Culling layers.
const (
	// LayerNone renders nothing but the background.
	LayerNone Layer = 0

	// LayerDefault holds ordinary scene content.
	LayerDefault Layer = 1 << 0

	// LayerGeometry holds level geometry.
	LayerGeometry Layer = 1 << 1

	// LayerAll renders every layer.
	LayerAll Layer = ^Layer(0)
)

// Has reports whether every bit of l is set in mask.
func (mask Layer) Has(l Layer) bool {
	return l != 0 && mask&l == l
}

// Camera is a render camera: a pose, a perspective projection, a culling
// mask and an optional override material that replaces every surface.
type Camera struct {
	// Label identifies the camera in diagnostics.
	Label string

	Position mgl64.Vec3
	Rotation mgl64.Quat

	// Aspect is width/height. Zero means use the target's aspect.
	Aspect float64

	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float64

	NearClip float64
	FarClip  float64

	CullingMask Layer

	// Override, when non-nil, replaces the output with its Fill colour.
	Override *material.Material
}

// NewCamera returns a camera at the origin looking down +Z with a 60°
// field of view and every layer enabled.
func NewCamera(label string) *Camera {
	return &Camera{
		Label:       label,
		Rotation:    mgl64.QuatIdent(),
		FieldOfView: 60,
		NearClip:    0.3,
		FarClip:     1000,
		CullingMask: LayerAll,
	}
}

// SetPose copies position and rotation from t.
func (c *Camera) SetPose(t transform.Transform) {
	c.Position = t.Position
	c.Rotation = t.Rotation
}

// Pose returns the camera pose as a unit-scale transform.
func (c *Camera) Pose() transform.Transform {
	t := transform.New(c.Position)
	t.Rotation = c.Rotation
	return t
}

// ViewRay returns the normalized world-space direction through the point
// (u, v) of the image plane, where u and v range over [-1, 1] with +v up.
func (c *Camera) ViewRay(u, v, aspect float64) mgl64.Vec3 {
	if c.Aspect > 0 {
		aspect = c.Aspect
	}
	if aspect <= 0 {
		aspect = 1
	}
	fov := c.FieldOfView
	if fov <= 0 || fov >= 180 {
		fov = 60
	}
	tanHalf := math.Tan(mgl64.DegToRad(fov) / 2)
	local := mgl64.Vec3{u * tanHalf * aspect, v * tanHalf, 1}
	return c.Rotation.Rotate(local).Normalize()
}

// Projection returns the left-handed perspective matrix for the camera.
func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	if c.Aspect > 0 {
		aspect = c.Aspect
	}
	if aspect <= 0 {
		aspect = 1
	}
	near, far := c.NearClip, c.FarClip
	f := 1 / math.Tan(mgl64.DegToRad(c.FieldOfView)/2)
	return mgl64.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (far - near), 1,
		0, 0, -near * far / (far - near), 0,
	}
}

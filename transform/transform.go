// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package transform provides the spatial transform used by portal surfaces,
// viewers and level anchors, plus the small set/measure helpers built on it.
//
// Rotations follow the engine convention: left-handed, +Y up, +Z forward,
// Euler angles in degrees applied Z first, then X, then Y.
package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Basis vectors in world space.
var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// Transform is a position, rotation and scale in world space.
//
// The zero value has a zero quaternion and zero scale and is not usable;
// construct with Identity or New.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// Identity returns a transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// New returns a transform at pos with no rotation and unit scale.
func New(pos mgl64.Vec3) Transform {
	t := Identity()
	t.Position = pos
	return t
}

// NewEuler returns a transform at pos rotated by the given Euler angles in degrees.
func NewEuler(pos, euler mgl64.Vec3) Transform {
	t := New(pos)
	t.Rotation = Euler(euler.X(), euler.Y(), euler.Z())
	return t
}

// SetPosition replaces the position.
func (t *Transform) SetPosition(x, y, z float64) {
	t.Position = mgl64.Vec3{x, y, z}
}

// SetPosition2D replaces X and Y and keeps Z.
func (t *Transform) SetPosition2D(x, y float64) {
	t.Position = mgl64.Vec3{x, y, t.Position.Z()}
}

// SetX replaces the X coordinate.
func (t *Transform) SetX(x float64) { t.Position[0] = x }

// SetY replaces the Y coordinate.
func (t *Transform) SetY(y float64) { t.Position[1] = y }

// SetZ replaces the Z coordinate.
func (t *Transform) SetZ(z float64) { t.Position[2] = z }

// SetScaleX replaces the X scale.
func (t *Transform) SetScaleX(x float64) { t.Scale[0] = x }

// SetScaleY replaces the Y scale.
func (t *Transform) SetScaleY(y float64) { t.Scale[1] = y }

// SetScale2D replaces the X and Y scale and keeps Z.
func (t *Transform) SetScale2D(x, y float64) {
	t.Scale = mgl64.Vec3{x, y, t.Scale.Z()}
}

// Translate moves the transform by d.
func (t *Transform) Translate(d mgl64.Vec3) {
	t.Position = t.Position.Add(d)
}

// Distance returns the 3D distance between the two positions.
func (t Transform) Distance(other Transform) float64 {
	return other.Position.Sub(t.Position).Len()
}

// Distance2D returns the distance between the two positions projected on the XY plane.
func (t Transform) Distance2D(other Transform) float64 {
	return xy(other.Position).Sub(xy(t.Position)).Len()
}

// DirectionTo2D returns the unit XY direction from t to other.
// Coincident points yield the zero vector.
func (t Transform) DirectionTo2D(other Transform) mgl64.Vec2 {
	d := xy(other.Position).Sub(xy(t.Position))
	if d.Len() == 0 {
		return mgl64.Vec2{}
	}
	return d.Normalize()
}

// LookAt2D rotates t about Z so its up axis points at target on the XY plane.
// rotOffset is added in degrees.
func (t *Transform) LookAt2D(target mgl64.Vec2, rotOffset float64) {
	diff := target.Sub(xy(t.Position))
	if diff.Len() != 0 {
		diff = diff.Normalize()
	}
	rotZ := mgl64.RadToDeg(math.Atan2(diff.Y(), diff.X()))
	t.Rotation = Euler(0, 0, rotZ-90+rotOffset)
}

// Forward returns the transform's +Z axis in world space.
func (t Transform) Forward() mgl64.Vec3 { return t.Rotation.Rotate(Forward) }

// Right returns the transform's +X axis in world space.
func (t Transform) Right() mgl64.Vec3 { return t.Rotation.Rotate(Right) }

// Up returns the transform's +Y axis in world space.
func (t Transform) Up() mgl64.Vec3 { return t.Rotation.Rotate(Up) }

// TransformPoint maps a point from local space to world space.
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	scaled := mgl64.Vec3{p.X() * t.Scale.X(), p.Y() * t.Scale.Y(), p.Z() * t.Scale.Z()}
	return t.Rotation.Rotate(scaled).Add(t.Position)
}

// InverseTransformPoint maps a point from world space to local space.
// A zero scale component collapses that axis to 0.
func (t Transform) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	local := t.Rotation.Inverse().Rotate(p.Sub(t.Position))
	return mgl64.Vec3{
		safeDiv(local.X(), t.Scale.X()),
		safeDiv(local.Y(), t.Scale.Y()),
		safeDiv(local.Z(), t.Scale.Z()),
	}
}

// Compose returns the world transform of a child whose position and
// rotation are expressed relative to t. The child keeps its own scale.
func (t Transform) Compose(localPos mgl64.Vec3, localRot mgl64.Quat) Transform {
	return Transform{
		Position: t.TransformPoint(localPos),
		Rotation: t.Rotation.Mul(localRot).Normalize(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func xy(v mgl64.Vec3) mgl64.Vec2 { return mgl64.Vec2{v.X(), v.Y()} }

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

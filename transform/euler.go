// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package transform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gimbalEpsilon is the cos(pitch) below which yaw absorbs roll.
const gimbalEpsilon = 1e-6

// AngleAxis returns a rotation of deg degrees about axis.
func AngleAxis(deg float64, axis mgl64.Vec3) mgl64.Quat {
	if axis.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Normalize())
}

// Euler returns the rotation for Euler angles in degrees, applied Z, then X, then Y.
func Euler(x, y, z float64) mgl64.Quat {
	return AngleAxis(y, Up).Mul(AngleAxis(x, Right)).Mul(AngleAxis(z, Forward)).Normalize()
}

// EulerAngles decomposes q into Euler angles in degrees, each in [0, 360).
// At pitch ±90° roll is reported as 0 and folded into yaw.
func EulerAngles(q mgl64.Quat) mgl64.Vec3 {
	m := q.Normalize().Mat4()

	sx := mgl64.Clamp(-m.At(1, 2), -1, 1)
	x := math.Asin(sx)

	var y, z float64
	if math.Cos(x) > gimbalEpsilon {
		y = math.Atan2(m.At(0, 2), m.At(2, 2))
		z = math.Atan2(m.At(1, 0), m.At(1, 1))
	} else {
		x = math.Copysign(math.Pi/2, sx)
		y = math.Atan2(-m.At(2, 0), m.At(0, 0))
	}

	return mgl64.Vec3{
		Wrap360(mgl64.RadToDeg(x)),
		Wrap360(mgl64.RadToDeg(y)),
		Wrap360(mgl64.RadToDeg(z)),
	}
}

// EulerAngles returns the transform's rotation as Euler angles in degrees.
func (t Transform) EulerAngles() mgl64.Vec3 { return EulerAngles(t.Rotation) }

// Wrap360 maps an angle in degrees into [0, 360).
func Wrap360(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

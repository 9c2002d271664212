// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package align

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap/transform"
)

// Facing is the axis a fixed-facing portal points along.
type Facing int

const (
	FacingUp Facing = iota
	FacingDown
	FacingRight
	FacingLeft
	FacingForward
	FacingBack
)

var facingNames = [...]string{"up", "down", "right", "left", "forward", "back"}

// String returns the lower-case facing name.
func (f Facing) String() string {
	if f < 0 || int(f) >= len(facingNames) {
		return fmt.Sprintf("Facing(%d)", int(f))
	}
	return facingNames[f]
}

// ParseFacing parses a facing name, case-insensitively.
func ParseFacing(s string) (Facing, error) {
	for i, name := range facingNames {
		if strings.EqualFold(s, name) {
			return Facing(i), nil
		}
	}
	return 0, fmt.Errorf("align: unknown facing %q", s)
}

// Offset is the Euler correction in degrees applied after alignment.
// Up, Right and Forward need none; Down, Left and Back flip one axis.
func (f Facing) Offset() mgl64.Vec3 {
	switch f {
	case FacingDown:
		return mgl64.Vec3{0, 180, 0}
	case FacingLeft:
		return mgl64.Vec3{180, 0, 0}
	case FacingBack:
		return mgl64.Vec3{0, 0, 180}
	default:
		return mgl64.Vec3{}
	}
}

// AlignFixedFacing returns the rotation for a fixed-facing portal camera.
//
// current is the camera's present rotation. Each axis the facing does not
// pin is replaced by the signed angle between the partner's back vector and
// the viewer's forward vector, measured with the viewer temporarily flattened
// on that axis. Left/Right facings keep X, Up/Down keep Y, Forward/Back keep Z.
func AlignFixedFacing(current mgl64.Quat, viewer, partner transform.Transform, f Facing) mgl64.Quat {
	euler := transform.EulerAngles(current)
	ve := viewer.EulerAngles()
	back := partner.Forward().Mul(-1)

	if f != FacingLeft && f != FacingRight {
		euler[0] = SignedAngle(back, forwardOf(ve.X(), 0, ve.Z()), transform.Right)
	}
	if f != FacingDown && f != FacingUp {
		euler[1] = SignedAngle(back, forwardOf(0, ve.Y(), ve.Z()), transform.Up)
	}
	if f != FacingBack && f != FacingForward {
		euler[2] = SignedAngle(back, forwardOf(ve.X(), ve.Y(), 0), transform.Forward)
	}

	e := euler.Add(f.Offset())
	return transform.Euler(e.X(), e.Y(), e.Z())
}

func forwardOf(x, y, z float64) mgl64.Vec3 {
	return transform.Euler(x, y, z).Rotate(transform.Forward)
}

// Angle returns the unsigned angle between a and b in degrees, in [0, 180].
// Degenerate vectors give 0.
func Angle(a, b mgl64.Vec3) float64 {
	denom := math.Sqrt(a.Dot(a) * b.Dot(b))
	if denom < 1e-15 {
		return 0
	}
	cos := mgl64.Clamp(a.Dot(b)/denom, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// SignedAngle returns the angle from a to b about axis n in degrees, in
// [0, 360). The sign comes from dot(n, cross(a, b)); a zero product counts as
// positive, so opposite vectors give 180.
func SignedAngle(a, b, n mgl64.Vec3) float64 {
	angle := Angle(a, b)
	if n.Dot(a.Cross(b)) < 0 {
		angle = -angle
	}
	for angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle
}

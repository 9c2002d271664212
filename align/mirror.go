// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package align computes where a portal's render camera must sit so that the
// image it captures lines up with what the viewer would see through the seam.
//
// Two solvers are provided. MirroredPose places a camera behind the local
// portal, mirrored from the viewer's pose relative to the remote portal; it is
// what the recursive render pass uses. AlignFixedFacing only rotates a camera,
// one or two axes at a time, for portals that stay fixed to a facing axis.
package align

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap/transform"
)

// StaggerDivisor spreads recursion steps along the view axis: each step moves
// the camera back by Distance(local, remote) / StaggerDivisor.
const StaggerDivisor = 5

// halfTurn rotates 180° about +Y, so the mirrored camera looks back through
// the portal instead of away from it.
var halfTurn = transform.AngleAxis(180, transform.Up)

// Pose is a camera position and rotation relative to the local portal.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// World returns the pose in world space for a camera parented to local.
func (p Pose) World(local transform.Transform) transform.Transform {
	return local.Compose(p.Position, p.Rotation)
}

// MirroredPose returns the pose of the render camera for one recursion step.
//
// The viewer position is expressed in the remote portal's local space, X and
// Z are negated to mirror it through the portal plane, and Z is pushed back
// by step × StepOffset. The rotation is the viewer rotation relative to the
// remote portal, turned 180° about Y.
//
// Poses are never cached; call once per step per frame. The result is
// undefined when local and remote are the same portal, which the portal
// registry rejects at configuration time.
func MirroredPose(viewer, local, remote transform.Transform, step int) Pose {
	p := remote.InverseTransformPoint(viewer.Position)
	p[0] = -p[0]
	p[2] = -p[2] + float64(step)*StepOffset(local, remote)

	r := halfTurn.Mul(remote.Rotation.Inverse()).Mul(viewer.Rotation).Normalize()

	return Pose{Position: p, Rotation: r}
}

// StepOffset is the Z distance added per recursion step.
func StepOffset(local, remote transform.Transform) float64 {
	return local.Distance(remote) / StaggerDivisor
}

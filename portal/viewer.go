// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"fmt"

	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/transform"
)

// RenderContext selects which viewer a pass follows and which persistent
// target slot it writes.
type RenderContext int

const (
	// Primary is the in-game viewer.
	Primary RenderContext = iota

	// Preview is an editor or debug viewer with its own target slot.
	Preview

	numContexts
)

// String returns "primary" or "preview".
func (rc RenderContext) String() string {
	switch rc {
	case Primary:
		return "primary"
	case Preview:
		return "preview"
	default:
		return fmt.Sprintf("RenderContext(%d)", int(rc))
	}
}

// Viewer is the camera a portal pass follows. Its projection settings are
// copied onto every step camera each frame.
type Viewer struct {
	Transform   transform.Transform
	Aspect      float64
	FieldOfView float64
	NearClip    float64
	FarClip     float64
	CullingMask render.Layer
}

// NewViewer returns a viewer at t with a 60° field of view, 4:3 aspect,
// 0.3..1000 clip range and every layer visible.
func NewViewer(t transform.Transform) Viewer {
	return Viewer{
		Transform:   t,
		Aspect:      4.0 / 3.0,
		FieldOfView: 60,
		NearClip:    0.3,
		FarClip:     1000,
		CullingMask: render.LayerAll,
	}
}

// ViewerSource resolves the viewer for a render context. ok is false while
// the viewer does not exist yet.
type ViewerSource interface {
	Viewer(rc RenderContext) (v Viewer, ok bool)
}

// Frame is a ViewerSource holding at most one viewer per context.
type Frame struct {
	Primary *Viewer
	Preview *Viewer
}

// Viewer returns the viewer for rc.
func (f Frame) Viewer(rc RenderContext) (Viewer, bool) {
	var v *Viewer
	switch rc {
	case Primary:
		v = f.Primary
	case Preview:
		v = f.Preview
	}
	if v == nil {
		return Viewer{}, false
	}
	return *v, true
}

// Ensure Frame implements ViewerSource.
var _ ViewerSource = Frame{}

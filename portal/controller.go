// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/worldwrap"
	"github.com/gogpu/worldwrap/align"
	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/transform"
)

// State is the controller lifecycle state.
type State int

const (
	// Uninitialized means no primary viewer has been seen yet.
	Uninitialized State = iota

	// Ready means passes are being rendered.
	Ready
)

// String returns "uninitialized" or "ready".
func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Step is the record of one recursion step: the camera used, its world
// pose and whether it was the terminal step.
type Step struct {
	Index    int
	Camera   render.Camera
	Pose     transform.Transform
	Terminal bool
}

// nearClipKey identifies a near-clip configuration already warned about.
type nearClipKey struct {
	surface SurfaceID
	near    float64
	far     float64
	depth   render.DepthQuality
}

// Controller drives the per-frame portal render passes of a Registry.
//
// For every paired surface it places one camera per recursion step behind
// the surface, mirrored from the viewer through the partner, renders each
// step into the surface's scratch target and copies it into the persistent
// target of the render context. The persistent target is then bound to the
// partner's material, since the partner is where that view is seen.
//
// Controllers are not safe for concurrent use; surfaces are rendered
// strictly one at a time.
type Controller struct {
	reg      *Registry
	renderer render.Renderer
	alloc    render.Allocator
	opts     options

	state  State
	warned map[nearClipKey]struct{}
}

// NewController creates a controller in the Uninitialized state.
func NewController(reg *Registry, renderer render.Renderer, alloc render.Allocator, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		reg:      reg,
		renderer: renderer,
		alloc:    alloc,
		opts:     o,
		warned:   make(map[nearClipKey]struct{}),
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.state }

// Registry returns the surfaces driven by the controller.
func (c *Controller) Registry() *Registry { return c.reg }

func (c *Controller) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return worldwrap.Logger()
}

// contexts returns the render contexts the controller renders.
func (c *Controller) contexts() []RenderContext {
	if c.opts.preview {
		return []RenderContext{Primary, Preview}
	}
	return []RenderContext{Primary}
}

// Update runs UpdatePortal for every surface in registration order.
//
// A configuration error stops the frame and is returned immediately.
// Resource errors skip only the failing surface; they are joined and
// returned after every surface has been processed.
func (c *Controller) Update(src ViewerSource) error {
	var errs []error
	for _, id := range c.reg.Surfaces() {
		err := c.UpdatePortal(id, src)
		if err == nil {
			continue
		}
		if IsConfigError(err) {
			return err
		}
		errs = append(errs, err)
	}
	if err := c.renderer.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("portal: flush: %w", err))
	}
	return errors.Join(errs...)
}

// UpdatePortal renders one surface's pass for this frame.
//
// Not-ready conditions (no viewer yet, no partner) return nil without
// rendering. An unpaired surface has its MainTex unbound. Mis-pairing and
// invalid settings return configuration errors. Target allocation and
// render failures skip the rest of the surface's pass and are returned.
//
// The partner's MainTex only ever holds a live target of this surface that
// a pass has rendered into: it is unbound as soon as the targets are
// reallocated or released, and rebound once the new ones are rendered.
func (c *Controller) UpdatePortal(id SurfaceID, src ViewerSource) error {
	s := c.reg.Surface(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}

	primary, ok := src.Viewer(Primary)
	if !ok {
		return nil
	}
	if c.state == Uninitialized {
		c.state = Ready
		c.logger().Info("portal controller ready", "surfaces", c.reg.Len())
	}

	partner, err := c.reg.Partner(id)
	if err != nil {
		return err
	}
	if partner == nil {
		unbindMainTex(s)
		return nil
	}
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("portal %q: %w", s.Name, err)
	}

	if s.targets == nil {
		s.targets = render.NewTargetSet(s.Name, c.alloc, len(c.contexts()))
	}
	cfg := s.Settings.Projection.TargetConfig()
	gen := s.targets.Generation()
	_, err = s.targets.EnsureTargets(cfg)
	if s.targets.Generation() != gen {
		unbindMainTex(partner)
	}
	if err != nil {
		c.logger().Warn("portal pass skipped", "surface", s.Name, "err", err)
		return fmt.Errorf("portal %q: %w", s.Name, err)
	}

	for _, rc := range c.contexts() {
		viewer := primary
		if rc != Primary {
			if viewer, ok = src.Viewer(rc); !ok {
				continue
			}
		}
		c.checkNearClip(s, viewer, cfg.Depth)
		if err := c.renderSteps(s, partner, rc, viewer); err != nil {
			return fmt.Errorf("portal %q %s: %w", s.Name, rc, err)
		}
		s.rendered[rc] = s.targets.Generation()
	}

	c.publish(s, partner)
	return nil
}

// renderSteps renders steps N down to 0 for one render context.
func (c *Controller) renderSteps(s, partner *Surface, rc RenderContext, viewer Viewer) error {
	n := s.Settings.Recursion.Steps
	s.steps[rc] = resizeSteps(s.steps[rc], n+1, s.Name, rc)

	scratch := s.targets.Scratch()
	dst := s.targets.Persistent(int(rc))

	for j := n; j >= 0; j-- {
		st := &s.steps[rc][j]
		cam := &st.Camera

		cam.Aspect = viewer.Aspect
		cam.FieldOfView = viewer.FieldOfView
		cam.NearClip = viewer.NearClip
		cam.FarClip = viewer.FarClip
		cam.CullingMask = viewer.CullingMask
		cam.Override = nil

		pose := align.MirroredPose(viewer.Transform, s.Transform, partner.Transform, j).World(s.Transform)
		if s.FixedFacing {
			pose.Rotation = align.AlignFixedFacing(cam.Rotation, viewer.Transform, partner.Transform, s.Facing)
		}
		cam.SetPose(pose)
		st.Pose = pose

		st.Terminal = j > 0 && j == n
		if st.Terminal {
			if final := s.Settings.Recursion.FinalStep; final != nil {
				cam.Override = final
			} else {
				cam.CullingMask = render.LayerNone
			}
		}

		if err := c.renderer.Render(cam, scratch); err != nil {
			return fmt.Errorf("render step %d: %w", j, err)
		}
		if err := c.renderer.Blit(scratch, dst); err != nil {
			return fmt.Errorf("blit step %d: %w", j, err)
		}
	}
	return nil
}

// resizeSteps keeps existing records so fixed-facing cameras carry their
// rotation between frames, and drops records beyond count.
func resizeSteps(steps []Step, count int, owner string, rc RenderContext) []Step {
	if len(steps) > count {
		clear(steps[count:])
		steps = steps[:count]
	}
	for i := len(steps); i < count; i++ {
		cam := render.NewCamera(fmt.Sprintf("%s %s Camera %d", owner, rc, i))
		steps = append(steps, Step{Index: i, Camera: *cam})
	}
	return steps
}

// publish binds the surface's persistent targets to the partner's
// materials and the surface's distortion uniforms to its own. A context
// that has not rendered into the current targets is bound to nothing.
// Scroll speeds are negated to convert world-space motion to texture space.
func (c *Controller) publish(s, partner *Surface) {
	gen := s.targets.Generation()
	d := s.Settings.Distortion
	for rc := range numContexts {
		var tex material.Texture
		if s.rendered[rc] == gen {
			if t := s.targets.Persistent(int(rc)); t != nil {
				tex = t
			}
		}
		partner.materials[rc].SetTexture(material.MainTex, tex)

		m := s.materials[rc]
		m.SetBool(material.EnableDistortion, d.Enabled)
		m.SetTexture(material.DistortionPattern, d.Pattern)
		m.SetColor(material.DistortionColor, d.Tint)
		m.SetInt(material.DistortionTiling, d.Tiling)
		m.SetFloat(material.DistortionSpeedX, -d.SpeedX)
		m.SetFloat(material.DistortionSpeedY, -d.SpeedY)
	}
}

// checkNearClip warns once per configuration when the viewer's clip range
// exceeds what the depth tier resolves.
func (c *Controller) checkNearClip(s *Surface, v Viewer, depth render.DepthQuality) {
	limit := c.opts.highRange
	if depth == render.DepthFast {
		limit = c.opts.fastRange
	}
	if v.NearClip > 0 && v.FarClip/v.NearClip <= limit {
		return
	}
	key := nearClipKey{surface: s.id, near: v.NearClip, far: v.FarClip, depth: depth}
	if _, ok := c.warned[key]; ok {
		return
	}
	c.warned[key] = struct{}{}
	c.logger().Warn("viewer clip range exceeds portal depth precision",
		"surface", s.Name, "near", v.NearClip, "far", v.FarClip,
		"depth_bits", depth.Bits(), "max_ratio", limit)
}

// Release frees every surface's targets and unbinds the materials.
func (c *Controller) Release() {
	for _, id := range c.reg.Surfaces() {
		s := c.reg.Surface(id)
		if s.targets != nil {
			s.targets.Release()
		}
		unbindMainTex(s)
	}
}

func unbindMainTex(s *Surface) {
	for rc := range numContexts {
		s.materials[rc].SetTexture(material.MainTex, nil)
	}
}

// IsConfigError reports whether err is a configuration error, which no
// later frame can resolve.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrSelfPaired) ||
		errors.Is(err, ErrAsymmetricPair) ||
		errors.Is(err, ErrUnknownSurface) ||
		errors.Is(err, ErrInvalidRecursion) ||
		errors.Is(err, ErrInvalidDistortion)
}

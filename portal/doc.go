// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package portal renders paired portal surfaces.
//
// Surfaces live in a Registry and are paired by handle. Every frame the
// Controller walks the registry; for each paired surface it resolves the
// viewer, makes sure the surface's targets match its ViewProjectionSettings,
// renders each recursion step from the deepest to step 0 into the scratch
// target, copies each result into the persistent target of the render
// context, and binds that freshly rendered target onto the partner's
// material. Distortion uniforms go on the surface's own material.
//
//	reg := portal.NewRegistry()
//	east, _ := reg.Add("east", eastTransform, portal.DefaultSettings())
//	west, _ := reg.Add("west", westTransform, portal.DefaultSettings())
//	if err := reg.Pair(east, west); err != nil {
//	    return err
//	}
//
//	ctrl := portal.NewController(reg, renderer, render.PixmapAllocator{})
//	v := portal.NewViewer(player)
//	err := ctrl.Update(portal.Frame{Primary: &v})
//
// Missing viewers and unpaired surfaces are not errors: the pass is simply
// skipped. Mis-pairing and out-of-range settings are configuration errors
// (see IsConfigError). Allocation and render failures skip the failing
// surface for the frame.
package portal

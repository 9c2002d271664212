// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the offscreen targets and the renderer contract
// used by portal surfaces.
//
// # Key Principle
//
// worldwrap RECEIVES a GPU device from the host application, it does NOT
// create its own. GPU-backed targets are allocated through the wgpu HAL
// device of a host DeviceHandle; CPU targets need nothing.
//
// # Core Types
//
//   - RenderTarget: a colour+depth buffer (PixmapTarget, TextureTarget)
//   - Allocator: creates and releases targets (PixmapAllocator, HALAllocator)
//   - TargetSet: the persistent and scratch targets of one portal surface
//   - Camera: pose, projection, culling mask and override material
//   - Renderer: draws a camera view into a target and copies targets
//
// # Target Management
//
// Every portal surface owns a TargetSet. EnsureTargets is called once per
// frame with the surface's projection settings:
//
//	set := render.NewTargetSet("east", render.PixmapAllocator{}, 2)
//	targets, err := set.EnsureTargets(render.TargetConfig{
//	    Width:  1280,
//	    Height: 1024,
//	    Depth:  render.DepthHigh,
//	})
//
// An unchanged config is a no-op. A changed one releases every target
// before allocating replacements, and a failed allocation leaves the set
// empty so no stale target is ever sampled.
//
// # Software Rendering
//
//	renderer := render.NewSoftwareRenderer(render.DefaultWorld())
//	cam := render.NewCamera("main")
//	renderer.Render(cam, targets[0])
//
// # Thread Safety
//
// Renderers and target sets are NOT thread-safe. Each should be used from
// a single goroutine, or external synchronization must be used.
package render

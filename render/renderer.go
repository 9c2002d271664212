// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Renderer draws the scene as seen by a camera into a render target.
//
// The Renderer is supplied by the host engine; worldwrap only drives it.
// SoftwareRenderer is a CPU implementation used by tests and the demo.
//
// Thread Safety: Renderers are NOT thread-safe. Each renderer should be used
// from a single goroutine, or external synchronization must be used.
//
// Example:
//
//	renderer := render.NewSoftwareRenderer(render.DefaultWorld())
//	target := render.NewPixmapTarget(800, 600)
//
//	cam := render.NewCamera("main")
//	if err := renderer.Render(cam, target); err != nil {
//	    log.Printf("render failed: %v", err)
//	}
type Renderer interface {
	// Render draws the scene from cam into target.
	//
	// Layers outside cam.CullingMask are skipped; a mask of LayerNone
	// leaves only the background. A non-nil cam.Override replaces every
	// surface with the override material.
	Render(cam *Camera, target RenderTarget) error

	// Blit copies src into dst, scaling when the sizes differ.
	Blit(src, dst RenderTarget) error

	// Flush ensures all pending rendering operations are complete.
	//
	// For CPU renderers, this is typically a no-op as operations are
	// synchronous. For GPU renderers, this may submit command buffers
	// and wait for completion.
	Flush() error
}

// RendererCapabilities describes the features supported by a renderer.
type RendererCapabilities struct {
	// IsGPU indicates if this is a GPU-accelerated renderer.
	IsGPU bool

	// SupportsDepth indicates if the renderer honours the target depth format.
	SupportsDepth bool

	// MaxTextureSize is the maximum texture dimension (0 = unlimited).
	MaxTextureSize int
}

// CapableRenderer is an optional interface for renderers that can
// report their capabilities.
type CapableRenderer interface {
	Renderer

	// Capabilities returns the renderer's capabilities.
	Capabilities() RendererCapabilities
}

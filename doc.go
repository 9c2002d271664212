// Package worldwrap renders seamless level wraps.
//
// # Overview
//
// When a player crosses a level boundary the geometry should appear to
// continue on the opposite side. worldwrap pairs two portal surfaces at the
// seam, places a mirrored camera behind the far surface every frame, renders
// what it sees into an offscreen target and binds that target to the near
// surface's material, so the seam reads as continuous space instead of a cut.
//
// # Packages
//
//   - transform: positions, rotations and the small helpers built on them
//   - align: mirrored camera poses and fixed-facing alignment
//   - render: render targets, allocators, the target manager and the renderer contract
//   - material: named uniform sets and the portal surface shader
//   - portal: surface registry, view settings and the per-frame render pass controller
//   - wrap: one-time level repetition setup and the vertical repositioner
//   - config: TOML level descriptions
//
// # Quick Start
//
//	reg, err := level.Registry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctrl := portal.NewController(reg, render.NewSoftwareRenderer(world), render.PixmapAllocator{})
//
//	// every frame:
//	if err := ctrl.Update(level.Frame()); err != nil {
//	    log.Printf("portal pass: %v", err)
//	}
//
// # Logging
//
// worldwrap is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] logger shared by every sub-package.
//
// # Thread Safety
//
// Rendering is frame-synchronous. Controllers, target sets and renderers must
// be driven from a single goroutine; only [SetLogger] and [Logger] are safe
// for concurrent use.
package worldwrap

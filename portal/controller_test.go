// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"bytes"
	"errors"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap/align"
	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/transform"
)

// renderCall records one Render on the recording renderer.
type renderCall struct {
	camera render.Camera
	target string
}

// recordingRenderer records calls without drawing.
type recordingRenderer struct {
	renders   []renderCall
	blits     []string
	flushes   int
	renderErr error
}

func (r *recordingRenderer) Render(cam *render.Camera, target render.RenderTarget) error {
	if r.renderErr != nil {
		return r.renderErr
	}
	r.renders = append(r.renders, renderCall{camera: *cam, target: target.Label()})
	return nil
}

func (r *recordingRenderer) Blit(src, dst render.RenderTarget) error {
	r.blits = append(r.blits, src.Label()+" -> "+dst.Label())
	return nil
}

func (r *recordingRenderer) Flush() error {
	r.flushes++
	return nil
}

// countingAllocator counts allocations and fails for labels with failPrefix.
type countingAllocator struct {
	render.PixmapAllocator
	allocs     int
	failPrefix string
}

var errOutOfMemory = errors.New("out of memory")

func (a *countingAllocator) Allocate(desc render.TargetDescriptor) (render.RenderTarget, error) {
	if a.failPrefix != "" && strings.HasPrefix(desc.Label, a.failPrefix) {
		return nil, errors.Join(render.ErrAllocation, errOutOfMemory)
	}
	a.allocs++
	return a.PixmapAllocator.Allocate(desc)
}

func vecNear(a, b mgl64.Vec3) bool { return a.Sub(b).Len() < 1e-9 }

func quatNear(a, b mgl64.Quat) bool {
	return math.Abs(a.W-b.W) < 1e-9 && a.V.Sub(b.V).Len() < 1e-9
}

func smallSettings() ViewProjectionSettings {
	s := DefaultSettings()
	s.Projection.Width = 8
	s.Projection.Height = 6
	return s
}

// newPairedRegistry returns east and west surfaces ten units apart, facing
// each other along X.
func newPairedRegistry(t *testing.T, settings ViewProjectionSettings) (*Registry, SurfaceID, SurfaceID) {
	t.Helper()
	reg := NewRegistry()
	east, err := reg.Add("east", transform.NewEuler(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 90, 0}), settings)
	if err != nil {
		t.Fatalf("Add(east) error = %v", err)
	}
	west, err := reg.Add("west", transform.NewEuler(mgl64.Vec3{-10, 0, 0}, mgl64.Vec3{0, -90, 0}), settings)
	if err != nil {
		t.Fatalf("Add(west) error = %v", err)
	}
	if err := reg.Pair(east, west); err != nil {
		t.Fatalf("Pair() error = %v", err)
	}
	return reg, east, west
}

func viewerFrame() Frame {
	v := NewViewer(transform.NewEuler(mgl64.Vec3{2, 1.5, 1}, mgl64.Vec3{0, 80, 0}))
	return Frame{Primary: &v}
}

func TestControllerNoViewerIsNoop(t *testing.T) {
	reg, _, _ := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	alloc := &countingAllocator{}
	ctrl := NewController(reg, r, alloc)

	if err := ctrl.Update(Frame{}); err != nil {
		t.Fatalf("Update() error = %v, want nil", err)
	}
	if ctrl.State() != Uninitialized {
		t.Errorf("State() = %v, want uninitialized", ctrl.State())
	}
	if len(r.renders) != 0 || alloc.allocs != 0 {
		t.Errorf("renders = %d, allocs = %d, want 0, 0", len(r.renders), alloc.allocs)
	}

	if err := ctrl.Update(viewerFrame()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if ctrl.State() != Ready {
		t.Errorf("State() = %v, want ready", ctrl.State())
	}
}

func TestControllerUnpairedSurface(t *testing.T) {
	reg := NewRegistry()
	id, err := reg.Add("lonely", transform.Identity(), smallSettings())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	// A stale binding from an earlier pairing must be cleared.
	reg.Surface(id).Material(Primary).SetTexture(material.MainTex, render.NewPixmapTarget(1, 1))

	r := &recordingRenderer{}
	alloc := &countingAllocator{}
	ctrl := NewController(reg, r, alloc)

	if err := ctrl.UpdatePortal(id, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v, want nil", err)
	}
	if len(r.renders) != 0 || len(r.blits) != 0 {
		t.Errorf("renders = %d, blits = %d, want none", len(r.renders), len(r.blits))
	}
	if alloc.allocs != 0 {
		t.Errorf("allocs = %d, want 0", alloc.allocs)
	}
	if reg.Surface(id).Material(Primary).HasTexture(material.MainTex) {
		t.Error("unpaired surface still has MainTex bound")
	}
}

func TestControllerRendersStepsOutermostLast(t *testing.T) {
	settings := smallSettings()
	settings.Recursion.Steps = 2
	reg, east, _ := newPairedRegistry(t, settings)
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if len(r.renders) != 3 {
		t.Fatalf("renders = %d, want 3", len(r.renders))
	}

	wantLabels := []string{"east primary Camera 2", "east primary Camera 1", "east primary Camera 0"}
	for i, call := range r.renders {
		if call.camera.Label != wantLabels[i] {
			t.Errorf("render %d camera = %q, want %q", i, call.camera.Label, wantLabels[i])
		}
		if call.target != "east Scratch" {
			t.Errorf("render %d target = %q, want east Scratch", i, call.target)
		}
	}
	for i, b := range r.blits {
		if b != "east Scratch -> east RenderTexture 0" {
			t.Errorf("blit %d = %q", i, b)
		}
	}

	// Terminal step culls everything; the rest see what the viewer sees.
	if got := r.renders[0].camera.CullingMask; got != render.LayerNone {
		t.Errorf("terminal CullingMask = %v, want LayerNone", got)
	}
	for _, call := range r.renders[1:] {
		if call.camera.CullingMask != render.LayerAll {
			t.Errorf("%s CullingMask = %v, want LayerAll", call.camera.Label, call.camera.CullingMask)
		}
	}

	steps := reg.Surface(east).Steps(Primary)
	if len(steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(steps))
	}
	if !steps[2].Terminal || steps[0].Terminal || steps[1].Terminal {
		t.Error("only step 2 should be terminal")
	}
}

func TestControllerSingleStepZeroIsNotTerminal(t *testing.T) {
	// With Steps = 1 the terminal step is 1; step 0 always renders.
	reg, east, _ := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if len(r.renders) != 2 {
		t.Fatalf("renders = %d, want 2", len(r.renders))
	}
	if r.renders[1].camera.CullingMask != render.LayerAll {
		t.Errorf("step 0 CullingMask = %v, want LayerAll", r.renders[1].camera.CullingMask)
	}
}

func TestControllerFinalStepOverride(t *testing.T) {
	settings := smallSettings()
	final := material.NewOverride("cap", color.RGBA{R: 10, G: 10, B: 10, A: 255})
	settings.Recursion.FinalStep = final
	reg, east, _ := newPairedRegistry(t, settings)
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	terminal := r.renders[0].camera
	if terminal.Override != final {
		t.Error("terminal step should use the FinalStep override")
	}
	if terminal.CullingMask != render.LayerAll {
		t.Errorf("terminal CullingMask = %v, want LayerAll with an override", terminal.CullingMask)
	}
	if r.renders[1].camera.Override != nil {
		t.Error("step 0 should not use the override")
	}
}

func TestControllerStepPoses(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})
	frame := viewerFrame()

	if err := ctrl.UpdatePortal(east, frame); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}

	local := reg.Surface(east).Transform
	remote := reg.Surface(west).Transform
	steps := reg.Surface(east).Steps(Primary)
	for j, st := range steps {
		want := align.MirroredPose(frame.Primary.Transform, local, remote, j).World(local)
		if !vecNear(st.Pose.Position, want.Position) {
			t.Errorf("step %d position = %v, want %v", j, st.Pose.Position, want.Position)
		}
		if !vecNear(st.Camera.Position, want.Position) {
			t.Errorf("step %d camera position = %v, want %v", j, st.Camera.Position, want.Position)
		}
	}

	// Consecutive steps are staggered by a fixed distance along the portal axis.
	gap := steps[1].Pose.Position.Sub(steps[0].Pose.Position).Len()
	if want := align.StepOffset(local, remote); mgl64.Abs(gap-want) > 1e-9 {
		t.Errorf("step gap = %v, want %v", gap, want)
	}
}

func TestControllerCopiesViewerProjection(t *testing.T) {
	reg, east, _ := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})

	v := NewViewer(transform.Identity())
	v.Aspect = 1.6
	v.FieldOfView = 75
	v.FarClip = 500
	v.CullingMask = render.LayerGeometry
	if err := ctrl.UpdatePortal(east, Frame{Primary: &v}); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}

	// Viewer settings change live; the next frame must pick them up.
	v.FieldOfView = 90
	r.renders = nil
	if err := ctrl.UpdatePortal(east, Frame{Primary: &v}); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	cam := r.renders[1].camera
	if cam.Aspect != 1.6 || cam.FieldOfView != 90 || cam.FarClip != 500 || cam.CullingMask != render.LayerGeometry {
		t.Errorf("step camera = aspect %v fov %v far %v mask %v, want 1.6 90 500 geometry",
			cam.Aspect, cam.FieldOfView, cam.FarClip, cam.CullingMask)
	}
}

func TestControllerPublishesToPartner(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})
	e, w := reg.Surface(east), reg.Surface(west)

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	// east's view is seen through west as soon as it is rendered.
	if got, want := w.Material(Primary).Texture(material.MainTex), e.Targets().Persistent(0); got != want {
		t.Errorf("west MainTex = %v, want east persistent target", got)
	}
	if e.Material(Primary).HasTexture(material.MainTex) {
		t.Error("east bound a texture before west rendered")
	}

	if err := ctrl.UpdatePortal(west, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if got, want := e.Material(Primary).Texture(material.MainTex), w.Targets().Persistent(0); got != want {
		t.Errorf("east MainTex = %v, want west persistent target", got)
	}
	if e.Material(Preview).HasTexture(material.MainTex) {
		t.Error("preview MainTex bound without WithPreview")
	}
}

func TestControllerResizeRebindsPartner(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})
	if err := ctrl.Update(viewerFrame()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	e, w := reg.Surface(east), reg.Surface(west)
	old := e.Targets().Persistent(0)

	e.Settings.Projection.Width = 16
	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}

	got := w.Material(Primary).Texture(material.MainTex)
	if got == old {
		t.Fatal("west still samples the released east target")
	}
	if want := e.Targets().Persistent(0); got != want {
		t.Fatalf("west MainTex = %v, want current east target", got)
	}
	if got.Width() != 16 {
		t.Errorf("west MainTex width = %d, want 16", got.Width())
	}
}

func TestControllerFailedPassAfterResizeUnbindsPartner(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{})
	if err := ctrl.Update(viewerFrame()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	reg.Surface(east).Settings.Projection.Width = 16
	r.renderErr = errors.New("device lost")
	if err := ctrl.UpdatePortal(east, viewerFrame()); err == nil {
		t.Fatal("UpdatePortal() error = nil, want render error")
	}
	if reg.Surface(west).Material(Primary).HasTexture(material.MainTex) {
		t.Error("west MainTex still bound to the released east target")
	}
}

func TestControllerDistortionUniforms(t *testing.T) {
	settings := smallSettings()
	pattern := material.ImageTexture{Image: render.NewPixmapTarget(4, 4).Image()}
	settings.Distortion = Distortion{
		Enabled: true,
		Pattern: pattern,
		Tint:    color.RGBA{R: 200, G: 100, B: 50, A: 255},
		Tiling:  7,
		SpeedX:  0.5,
		SpeedY:  -2,
	}
	reg, east, _ := newPairedRegistry(t, settings)
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}

	m := reg.Surface(east).Material(Primary)
	if !m.Bool(material.EnableDistortion) {
		t.Error("EnableDistortion = false, want true")
	}
	if m.Texture(material.DistortionPattern) != pattern {
		t.Error("DistortionPattern not bound")
	}
	if got := m.Color(material.DistortionColor); got != settings.Distortion.Tint {
		t.Errorf("DistortionColor = %v, want %v", got, settings.Distortion.Tint)
	}
	if got := m.Int(material.DistortionTiling); got != 7 {
		t.Errorf("DistortionTiling = %d, want 7", got)
	}
	if got := m.Float(material.DistortionSpeedX); got != -0.5 {
		t.Errorf("DistortionSpeedX = %v, want -0.5", got)
	}
	if got := m.Float(material.DistortionSpeedY); got != 2 {
		t.Errorf("DistortionSpeedY = %v, want 2", got)
	}
}

func TestControllerTargetsIdempotent(t *testing.T) {
	reg, east, _ := newPairedRegistry(t, smallSettings())
	alloc := &countingAllocator{}
	ctrl := NewController(reg, &recordingRenderer{}, alloc)

	for range 3 {
		if err := ctrl.Update(viewerFrame()); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	// One persistent target plus scratch per surface.
	if alloc.allocs != 4 {
		t.Errorf("allocs = %d, want 4", alloc.allocs)
	}

	reg.Surface(east).Settings.Projection.Width = 16
	if err := ctrl.Update(viewerFrame()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if alloc.allocs != 6 {
		t.Errorf("allocs after resize = %d, want 6", alloc.allocs)
	}
	if w := reg.Surface(east).Targets().Persistent(0).Width(); w != 16 {
		t.Errorf("east target width = %d, want 16", w)
	}
}

func TestControllerStepRecordsShrink(t *testing.T) {
	settings := smallSettings()
	settings.Recursion.Steps = 4
	reg, east, _ := newPairedRegistry(t, settings)
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})

	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if n := len(reg.Surface(east).Steps(Primary)); n != 5 {
		t.Errorf("len(Steps) = %d, want 5", n)
	}

	reg.Surface(east).Settings.Recursion.Steps = 1
	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if n := len(reg.Surface(east).Steps(Primary)); n != 2 {
		t.Errorf("len(Steps) after shrink = %d, want 2", n)
	}
}

func TestControllerConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(reg *Registry, east, west SurfaceID)
		wantErr error
	}{
		{
			name:    "asymmetric",
			mutate:  func(reg *Registry, _, west SurfaceID) { _ = reg.SetPair(west, NoSurface) },
			wantErr: ErrAsymmetricPair,
		},
		{
			name:    "self paired",
			mutate:  func(reg *Registry, east, _ SurfaceID) { _ = reg.SetPair(east, east) },
			wantErr: ErrSelfPaired,
		},
		{
			name:    "unknown partner",
			mutate:  func(reg *Registry, east, _ SurfaceID) { _ = reg.SetPair(east, 42) },
			wantErr: ErrUnknownSurface,
		},
		{
			name: "recursion zero",
			mutate: func(reg *Registry, east, _ SurfaceID) {
				reg.Surface(east).Settings.Recursion.Steps = 0
			},
			wantErr: ErrInvalidRecursion,
		},
		{
			name: "recursion too deep",
			mutate: func(reg *Registry, east, _ SurfaceID) {
				reg.Surface(east).Settings.Recursion.Steps = 21
			},
			wantErr: ErrInvalidRecursion,
		},
		{
			name: "tiling",
			mutate: func(reg *Registry, east, _ SurfaceID) {
				reg.Surface(east).Settings.Distortion.Tiling = 0
			},
			wantErr: ErrInvalidDistortion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, east, west := newPairedRegistry(t, smallSettings())
			tt.mutate(reg, east, west)
			r := &recordingRenderer{}
			ctrl := NewController(reg, r, &countingAllocator{})

			err := ctrl.Update(viewerFrame())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
			}
			if !IsConfigError(err) {
				t.Errorf("IsConfigError(%v) = false", err)
			}
			if len(r.renders) != 0 {
				t.Errorf("renders = %d, want 0 after a configuration error", len(r.renders))
			}
			if verr := reg.Validate(); !errors.Is(verr, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", verr, tt.wantErr)
			}
		})
	}
}

func TestControllerAllocationFailureSkipsSurface(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{failPrefix: "east"})

	err := ctrl.Update(viewerFrame())
	if !errors.Is(err, render.ErrAllocation) {
		t.Fatalf("Update() error = %v, want ErrAllocation", err)
	}
	if IsConfigError(err) {
		t.Error("allocation failure reported as configuration error")
	}
	if reg.Surface(east).Targets().Ready() {
		t.Error("east targets ready after failed allocation")
	}
	// west still renders its two steps.
	if len(r.renders) != 2 {
		t.Errorf("renders = %d, want 2 (west only)", len(r.renders))
	}
	if reg.Surface(west).Material(Primary).HasTexture(material.MainTex) {
		t.Error("west bound a texture from east, which has none")
	}
}

func TestControllerRenderErrorPropagates(t *testing.T) {
	reg, _, _ := newPairedRegistry(t, smallSettings())
	boom := errors.New("device lost")
	ctrl := NewController(reg, &recordingRenderer{renderErr: boom}, &countingAllocator{})

	err := ctrl.Update(viewerFrame())
	if !errors.Is(err, boom) {
		t.Errorf("Update() error = %v, want %v", err, boom)
	}
}

func TestControllerPreviewContext(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	r := &recordingRenderer{}
	ctrl := NewController(reg, r, &countingAllocator{}, WithPreview(true))

	// Without a preview viewer only the primary context renders, and the
	// untouched preview slot is not shown.
	if err := ctrl.UpdatePortal(east, viewerFrame()); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	if len(r.renders) != 2 {
		t.Errorf("renders = %d, want 2", len(r.renders))
	}
	if reg.Surface(west).Material(Preview).HasTexture(material.MainTex) {
		t.Error("west preview MainTex bound before a preview pass rendered")
	}
	if !reg.Surface(west).Material(Primary).HasTexture(material.MainTex) {
		t.Error("west primary MainTex not bound")
	}

	frame := viewerFrame()
	preview := NewViewer(transform.New(mgl64.Vec3{0, 10, -5}))
	frame.Preview = &preview
	r.renders = nil
	if err := ctrl.Update(frame); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(r.renders) != 8 {
		t.Errorf("renders = %d, want 8 (2 surfaces x 2 contexts x 2 steps)", len(r.renders))
	}
	if got, want := reg.Surface(west).Material(Preview).Texture(material.MainTex), reg.Surface(east).Targets().Persistent(1); got != want {
		t.Errorf("west preview MainTex = %v, want east preview target", got)
	}
	if n := len(reg.Surface(east).Steps(Preview)); n != 2 {
		t.Errorf("len(Steps(Preview)) = %d, want 2", n)
	}
}

func TestControllerNearClipWarning(t *testing.T) {
	reg, _, _ := newPairedRegistry(t, smallSettings())
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{}, WithLogger(logger))

	v := NewViewer(transform.Identity())
	v.NearClip = 0.001
	v.FarClip = 1000
	for range 3 {
		if err := ctrl.Update(Frame{Primary: &v}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	// Once per surface, not once per frame.
	if n := strings.Count(buf.String(), "clip range exceeds"); n != 2 {
		t.Errorf("warnings = %d, want 2\n%s", n, buf.String())
	}

	buf.Reset()
	v.NearClip = 0.3
	if err := ctrl.Update(Frame{Primary: &v}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected warning for a sane clip range: %s", buf.String())
	}
}

func TestControllerFixedFacing(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	s := reg.Surface(east)
	s.FixedFacing = true
	s.Facing = align.FacingUp
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})
	frame := viewerFrame()
	partner := reg.Surface(west).Transform

	if err := ctrl.UpdatePortal(east, frame); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	first := s.Steps(Primary)
	want := align.AlignFixedFacing(mgl64.QuatIdent(), frame.Primary.Transform, partner, align.FacingUp)
	for _, st := range first {
		if !quatNear(st.Pose.Rotation, want) {
			t.Errorf("step %d rotation = %v, want %v", st.Index, st.Pose.Rotation, want)
		}
		mirrored := align.MirroredPose(frame.Primary.Transform, s.Transform, partner, st.Index).World(s.Transform)
		if !vecNear(st.Pose.Position, mirrored.Position) {
			t.Errorf("step %d position = %v, want mirrored %v", st.Index, st.Pose.Position, mirrored.Position)
		}
	}

	// The next frame starts from the rotation the camera kept.
	if err := ctrl.UpdatePortal(east, frame); err != nil {
		t.Fatalf("UpdatePortal() error = %v", err)
	}
	for i, st := range s.Steps(Primary) {
		next := align.AlignFixedFacing(first[i].Camera.Rotation, frame.Primary.Transform, partner, align.FacingUp)
		if !quatNear(st.Pose.Rotation, next) {
			t.Errorf("frame 2 step %d rotation = %v, want %v", st.Index, st.Pose.Rotation, next)
		}
	}
}

func TestControllerRelease(t *testing.T) {
	reg, east, west := newPairedRegistry(t, smallSettings())
	ctrl := NewController(reg, &recordingRenderer{}, &countingAllocator{})
	for range 2 {
		if err := ctrl.Update(viewerFrame()); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	ctrl.Release()

	for _, id := range []SurfaceID{east, west} {
		s := reg.Surface(id)
		if s.Targets().Ready() {
			t.Errorf("%s targets still ready", s.Name)
		}
		if s.Material(Primary).HasTexture(material.MainTex) {
			t.Errorf("%s MainTex still bound", s.Name)
		}
	}
}

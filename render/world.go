// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pillar is a capped vertical cylinder standing on its base point.
type Pillar struct {
	Base   mgl64.Vec3
	Radius float64
	Height float64
	Color  color.RGBA
	Layer  Layer
}

// World is the analytic scene drawn by SoftwareRenderer: a sky gradient,
// a checkered ground plane and a set of pillars.
type World struct {
	Zenith  color.RGBA
	Horizon color.RGBA

	// GroundY is the height of the ground plane.
	GroundY float64

	// CheckerSize is the edge length of one ground tile. Zero disables the
	// checker pattern.
	CheckerSize float64
	GroundA     color.RGBA
	GroundB     color.RGBA
	GroundLayer Layer

	Pillars []Pillar

	// Light is the direction towards the light, used for pillar shading.
	Light mgl64.Vec3
}

// DefaultWorld returns a small level: a row of pillars along X on a
// checkered ground.
func DefaultWorld() *World {
	w := &World{
		Zenith:      color.RGBA{R: 70, G: 120, B: 200, A: 255},
		Horizon:     color.RGBA{R: 190, G: 210, B: 235, A: 255},
		CheckerSize: 1,
		GroundA:     color.RGBA{R: 90, G: 90, B: 90, A: 255},
		GroundB:     color.RGBA{R: 150, G: 150, B: 150, A: 255},
		GroundLayer: LayerGeometry,
		Light:       mgl64.Vec3{0.4, 1, -0.3}.Normalize(),
	}
	for i := -4; i <= 4; i++ {
		w.Pillars = append(w.Pillars, Pillar{
			Base:   mgl64.Vec3{float64(i) * 2.5, 0, 6},
			Radius: 0.4,
			Height: 3,
			Color:  color.RGBA{R: 200, G: uint8(120 + 10*(i+4)), B: 60, A: 255}, //nolint:gosec // 120..200
			Layer:  LayerDefault,
		})
	}
	return w
}

// AddCopy appends a copy of pillars translated by offset.
func (w *World) AddCopy(pillars []Pillar, offset mgl64.Vec3) {
	for _, p := range pillars {
		p.Base = p.Base.Add(offset)
		w.Pillars = append(w.Pillars, p)
	}
}

// Background returns the sky colour seen along dir.
func (w *World) Background(dir mgl64.Vec3) color.RGBA {
	t := mgl64.Clamp(dir.Y(), 0, 1)
	return lerpRGBA(w.Horizon, w.Zenith, t)
}

// hit is the nearest surface along a ray.
type hit struct {
	t     float64
	color color.RGBA
}

// Trace returns the colour seen from origin along dir, considering only
// surfaces on layers in mask and hits within [near, far]. far <= 0 means
// unbounded. When override is non-nil every surface uses that colour.
func (w *World) Trace(origin, dir mgl64.Vec3, mask Layer, near, far float64, override *color.RGBA) color.RGBA {
	if far <= 0 {
		far = math.Inf(1)
	}
	best := hit{t: math.Inf(1)}

	if mask.Has(w.GroundLayer) && math.Abs(dir.Y()) > 1e-12 {
		t := (w.GroundY - origin.Y()) / dir.Y()
		if t >= near && t <= far && t < best.t {
			p := origin.Add(dir.Mul(t))
			best = hit{t: t, color: w.groundColor(p)}
		}
	}

	for i := range w.Pillars {
		p := &w.Pillars[i]
		if !mask.Has(p.Layer) {
			continue
		}
		t, n, ok := p.intersect(origin, dir, near, far)
		if !ok || t >= best.t {
			continue
		}
		best = hit{t: t, color: shade(p.Color, n, w.Light)}
	}

	if math.IsInf(best.t, 1) {
		return w.Background(dir)
	}
	if override != nil {
		return *override
	}
	return best.color
}

func (w *World) groundColor(p mgl64.Vec3) color.RGBA {
	if w.CheckerSize <= 0 {
		return w.GroundA
	}
	ix := int(math.Floor(p.X() / w.CheckerSize))
	iz := int(math.Floor(p.Z() / w.CheckerSize))
	if (ix+iz)&1 == 0 {
		return w.GroundA
	}
	return w.GroundB
}

// intersect returns the nearest hit distance and surface normal of the
// ray with the pillar's side or top cap.
func (p *Pillar) intersect(origin, dir mgl64.Vec3, near, far float64) (float64, mgl64.Vec3, bool) {
	best := math.Inf(1)
	var normal mgl64.Vec3

	ox := origin.X() - p.Base.X()
	oz := origin.Z() - p.Base.Z()
	a := dir.X()*dir.X() + dir.Z()*dir.Z()
	if a > 1e-12 {
		b := 2 * (ox*dir.X() + oz*dir.Z())
		c := ox*ox + oz*oz - p.Radius*p.Radius
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t < near || t > far || t >= best {
					continue
				}
				y := origin.Y() + t*dir.Y()
				if y < p.Base.Y() || y > p.Base.Y()+p.Height {
					continue
				}
				best = t
				normal = mgl64.Vec3{ox + t*dir.X(), 0, oz + t*dir.Z()}.Normalize()
			}
		}
	}

	if math.Abs(dir.Y()) > 1e-12 {
		top := p.Base.Y() + p.Height
		t := (top - origin.Y()) / dir.Y()
		if t >= near && t <= far && t < best {
			x := ox + t*dir.X()
			z := oz + t*dir.Z()
			if x*x+z*z <= p.Radius*p.Radius {
				best = t
				normal = mgl64.Vec3{0, 1, 0}
			}
		}
	}

	if math.IsInf(best, 1) {
		return 0, mgl64.Vec3{}, false
	}
	return best, normal, true
}

// shade applies a half-ambient Lambert term.
func shade(c color.RGBA, n, light mgl64.Vec3) color.RGBA {
	k := 0.5 + 0.5*math.Max(0, n.Dot(light))
	return color.RGBA{
		R: uint8(float64(c.R) * k), //nolint:gosec // k <= 1
		G: uint8(float64(c.G) * k), //nolint:gosec // k <= 1
		B: uint8(float64(c.B) * k), //nolint:gosec // k <= 1
		A: c.A,
	}
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) //nolint:gosec // t in [0,1]
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"errors"
	"fmt"

	"github.com/gogpu/worldwrap/align"
	"github.com/gogpu/worldwrap/material"
	"github.com/gogpu/worldwrap/render"
	"github.com/gogpu/worldwrap/transform"
)

// Configuration errors. These are fatal: a controller never renders a
// surface whose configuration is invalid.
var (
	// ErrSelfPaired is returned when a surface is paired with itself.
	ErrSelfPaired = errors.New("portal: surface paired with itself")

	// ErrAsymmetricPair is returned when A pairs with B but B does not pair with A.
	ErrAsymmetricPair = errors.New("portal: pairing is not mutual")

	// ErrUnknownSurface is returned for a handle the registry does not hold.
	ErrUnknownSurface = errors.New("portal: unknown surface")

	// ErrDuplicateSurface is returned when a surface name is already registered.
	ErrDuplicateSurface = errors.New("portal: duplicate surface name")

	// ErrInvalidRecursion is returned for a recursion depth outside 1..20.
	ErrInvalidRecursion = errors.New("portal: invalid recursion depth")

	// ErrInvalidDistortion is returned for out-of-range distortion settings.
	ErrInvalidDistortion = errors.New("portal: invalid distortion settings")
)

// SurfaceID is a handle to a surface in a Registry.
type SurfaceID int

// NoSurface is the handle of an absent partner.
const NoSurface SurfaceID = -1

// Surface is a planar portal region. Its material shows the partner's
// persistent target; its own targets hold what lies behind it as seen
// through the partner.
type Surface struct {
	// Name labels the surface and its targets in diagnostics.
	Name string

	Transform transform.Transform
	Settings  ViewProjectionSettings

	// FixedFacing makes step cameras keep the axes pinned by Facing and
	// only turn the remaining ones towards the viewer.
	FixedFacing bool
	Facing      align.Facing

	id   SurfaceID
	pair SurfaceID

	materials [numContexts]*material.Material
	targets   *render.TargetSet
	steps     [numContexts][]Step

	// rendered is the target generation each context last rendered into.
	rendered [numContexts]uint64
}

// ID returns the surface handle.
func (s *Surface) ID() SurfaceID { return s.id }

// Pair returns the partner handle, or NoSurface, false when unpaired.
func (s *Surface) Pair() (SurfaceID, bool) {
	return s.pair, s.pair != NoSurface
}

// Material returns the surface material for rc.
func (s *Surface) Material(rc RenderContext) *material.Material {
	if rc < 0 || rc >= numContexts {
		return nil
	}
	return s.materials[rc]
}

// Targets returns the surface's target set, or nil before the first pass.
func (s *Surface) Targets() *render.TargetSet { return s.targets }

// Steps returns a copy of the per-step records of the last pass for rc,
// indexed by recursion step.
func (s *Surface) Steps(rc RenderContext) []Step {
	if rc < 0 || rc >= numContexts {
		return nil
	}
	out := make([]Step, len(s.steps[rc]))
	copy(out, s.steps[rc])
	return out
}

// Registry holds portal surfaces and their pairing.
//
// Pairing is stored as one independent handle per surface; neither side
// owns the other. Registries are not safe for concurrent use.
type Registry struct {
	surfaces []*Surface
	byName   map[string]SurfaceID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]SurfaceID)}
}

// Add registers an unpaired surface.
func (r *Registry) Add(name string, t transform.Transform, settings ViewProjectionSettings) (SurfaceID, error) {
	if _, ok := r.byName[name]; ok {
		return NoSurface, fmt.Errorf("%w: %q", ErrDuplicateSurface, name)
	}
	id := SurfaceID(len(r.surfaces))
	s := &Surface{
		Name:      name,
		Transform: t,
		Settings:  settings,
		id:        id,
		pair:      NoSurface,
	}
	for rc := range numContexts {
		s.materials[rc] = material.NewPortal(name + " " + rc.String())
	}
	r.surfaces = append(r.surfaces, s)
	r.byName[name] = id
	return id, nil
}

// Surface returns the surface for id, or nil.
func (r *Registry) Surface(id SurfaceID) *Surface {
	if id < 0 || int(id) >= len(r.surfaces) {
		return nil
	}
	return r.surfaces[id]
}

// Lookup returns the handle of the named surface.
func (r *Registry) Lookup(name string) (SurfaceID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Surfaces returns every handle in registration order.
func (r *Registry) Surfaces() []SurfaceID {
	ids := make([]SurfaceID, len(r.surfaces))
	for i := range r.surfaces {
		ids[i] = SurfaceID(i)
	}
	return ids
}

// Len returns the number of surfaces.
func (r *Registry) Len() int { return len(r.surfaces) }

// Pair links a and b to each other.
func (r *Registry) Pair(a, b SurfaceID) error {
	if a == b {
		return fmt.Errorf("%w: %d", ErrSelfPaired, a)
	}
	sa, sb := r.Surface(a), r.Surface(b)
	if sa == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, a)
	}
	if sb == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, b)
	}
	sa.pair = b
	sb.pair = a
	return nil
}

// SetPair sets only id's side of a pairing. Validate reports the result
// unless the partner points back.
func (r *Registry) SetPair(id, partner SurfaceID) error {
	s := r.Surface(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}
	s.pair = partner
	return nil
}

// Unpair clears id's pairing, and the partner's if it points back at id.
func (r *Registry) Unpair(id SurfaceID) {
	s := r.Surface(id)
	if s == nil {
		return
	}
	if p := r.Surface(s.pair); p != nil && p.pair == id {
		p.pair = NoSurface
	}
	s.pair = NoSurface
}

// Partner returns the surface paired with id after checking that the
// pairing is valid. It returns nil, nil for an unpaired surface.
func (r *Registry) Partner(id SurfaceID) (*Surface, error) {
	s := r.Surface(id)
	if s == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSurface, id)
	}
	if s.pair == NoSurface {
		return nil, nil
	}
	if s.pair == id {
		return nil, fmt.Errorf("%w: %q", ErrSelfPaired, s.Name)
	}
	p := r.Surface(s.pair)
	if p == nil {
		return nil, fmt.Errorf("%w: %q pairs with %d", ErrUnknownSurface, s.Name, s.pair)
	}
	if p.pair != id {
		return nil, fmt.Errorf("%w: %q pairs with %q, which pairs with %d",
			ErrAsymmetricPair, s.Name, p.Name, p.pair)
	}
	return p, nil
}

// Validate checks every surface's pairing and settings and returns all
// problems joined. Unpaired surfaces are valid.
func (r *Registry) Validate() error {
	var errs []error
	for _, s := range r.surfaces {
		if _, err := r.Partner(s.id); err != nil {
			errs = append(errs, err)
		}
		if err := s.Settings.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("portal %q: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

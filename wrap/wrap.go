// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wrap extends a level on both sides of its wrap seam.
//
// Setup runs once when a level starts: it measures the offset between the
// entrance and exit anchors, asks an Instantiator for copies of every
// geometry group at whole multiples of that offset in both directions, and
// pushes the far viewer and far render plane out past the last copy.
// Repositioner runs every frame and moves objects that fell through the
// lower bound back to the top.
package wrap

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/worldwrap"
	"github.com/gogpu/worldwrap/transform"
)

var (
	// ErrRotationMismatch is returned when the entrance and exit anchors are
	// not oriented the same way. Rotated wraps are not supported.
	ErrRotationMismatch = errors.New("wrap: entrance and exit rotations differ")

	// ErrInvalidRepetitions is returned for a negative repetition count.
	ErrInvalidRepetitions = errors.New("wrap: negative repetitions")
)

// rotationTolerance is the largest 1-|dot| between anchor rotations still
// treated as equal.
const rotationTolerance = 1e-9

// Group is a named set of level geometry that is copied as a unit.
// Origin is the group's pivot in the authored level; only the primary
// group's origin positions copies.
type Group struct {
	Name   string
	Origin mgl64.Vec3
}

// Instantiator creates one copy of a geometry group at position.
type Instantiator interface {
	Instantiate(group Group, position mgl64.Vec3) error
}

// InstantiatorFunc adapts a function to Instantiator.
type InstantiatorFunc func(group Group, position mgl64.Vec3) error

// Instantiate calls f(group, position).
func (f InstantiatorFunc) Instantiate(group Group, position mgl64.Vec3) error {
	return f(group, position)
}

// Placement is one copy created by Apply.
type Placement struct {
	Group    string
	Position mgl64.Vec3

	// Repetition is the signed multiple of the offset: +n past the exit,
	// -n before the entrance.
	Repetition int
}

// Result summarizes an applied Setup.
type Result struct {
	// Offset is the exit position minus the entrance position.
	Offset mgl64.Vec3

	// Total is Offset times the repetition count.
	Total mgl64.Vec3

	Placements []Placement
}

// Setup describes the repetition of a level around its wrap seam.
type Setup struct {
	// Primary is the main level geometry. Groups are additional geometry
	// copied alongside it; every copy, theirs included, is placed relative
	// to Primary.Origin.
	Primary Group
	Groups  []Group

	Entrance transform.Transform
	Exit     transform.Transform

	// FarViewer and FarRenderPlane render the wrap beyond the physical
	// copies. Either may be nil.
	FarViewer      *transform.Transform
	FarRenderPlane *transform.Transform

	Repetitions int
}

// Offset returns exit.Position - entrance.Position.
func Offset(entrance, exit transform.Transform) mgl64.Vec3 {
	return exit.Position.Sub(entrance.Position)
}

// Validate checks the repetition count and that the anchors share an
// orientation.
func (s *Setup) Validate() error {
	if s.Repetitions < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRepetitions, s.Repetitions)
	}
	if !sameRotation(s.Entrance.Rotation, s.Exit.Rotation) {
		return fmt.Errorf("%w: entrance %v, exit %v", ErrRotationMismatch,
			s.Entrance.EulerAngles(), s.Exit.EulerAngles())
	}
	return nil
}

// Apply places the copies and moves the far anchors. For n in 1..Repetitions
// each group, primary first, is instantiated at origin + n*offset and then
// origin - n*offset, where origin is the primary group's origin. The far viewer then moves by -Repetitions*offset and the
// far render plane by +Repetitions*offset.
//
// Apply stops at the first instantiation error; the far anchors are only
// moved when every copy was placed.
func (s *Setup) Apply(inst Instantiator) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	offset := Offset(s.Entrance, s.Exit)
	res := Result{
		Offset:     offset,
		Total:      offset.Mul(float64(s.Repetitions)),
		Placements: make([]Placement, 0, 2*s.Repetitions*(1+len(s.Groups))),
	}

	groups := make([]Group, 0, 1+len(s.Groups))
	groups = append(groups, s.Primary)
	groups = append(groups, s.Groups...)

	origin := s.Primary.Origin
	for n := 1; n <= s.Repetitions; n++ {
		d := offset.Mul(float64(n))
		for _, g := range groups {
			for _, p := range [2]Placement{
				{Group: g.Name, Position: origin.Add(d), Repetition: n},
				{Group: g.Name, Position: origin.Sub(d), Repetition: -n},
			} {
				if err := inst.Instantiate(g, p.Position); err != nil {
					return res, fmt.Errorf("wrap: instantiate %q at %v: %w", g.Name, p.Position, err)
				}
				res.Placements = append(res.Placements, p)
			}
		}
	}

	if s.FarViewer != nil {
		s.FarViewer.Translate(res.Total.Mul(-1))
	}
	if s.FarRenderPlane != nil {
		s.FarRenderPlane.Translate(res.Total)
	}

	worldwrap.Logger().Info("wrap setup applied",
		"offset", offset, "repetitions", s.Repetitions, "copies", len(res.Placements))
	return res, nil
}

func sameRotation(a, b mgl64.Quat) bool {
	return 1-math.Abs(a.Normalize().Dot(b.Normalize())) <= rotationTolerance
}

// Recorder is an Instantiator that only records placements.
type Recorder struct {
	Placements []Placement
}

// Instantiate records the placement.
func (r *Recorder) Instantiate(group Group, position mgl64.Vec3) error {
	r.Placements = append(r.Placements, Placement{Group: group.Name, Position: position})
	return nil
}

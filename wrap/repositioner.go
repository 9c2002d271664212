// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wrap

import "github.com/gogpu/worldwrap/transform"

// Repositioner wraps tracked objects vertically: anything strictly below
// Lower is moved up by the distance between Upper and Lower.
type Repositioner struct {
	Objects []*transform.Transform
	Upper   *transform.Transform
	Lower   *transform.Transform
}

// Update checks every object once and returns how many were moved.
// Only the Y coordinate changes.
func (r *Repositioner) Update() int {
	if r.Upper == nil || r.Lower == nil {
		return 0
	}
	lower := r.Lower.Position.Y()
	span := r.Upper.Position.Y() - lower

	moved := 0
	for _, obj := range r.Objects {
		if obj == nil || obj.Position.Y() >= lower {
			continue
		}
		obj.SetY(obj.Position.Y() + span)
		moved++
	}
	return moved
}

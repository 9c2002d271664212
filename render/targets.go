// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/worldwrap"
)

// TargetSet owns the offscreen targets of one portal surface: one persistent
// target per render context plus one scratch target that every recursion
// step renders into before being copied out.
//
// A TargetSet is never shared between surfaces. It is not safe for
// concurrent use.
type TargetSet struct {
	owner string
	alloc Allocator
	slots int

	cfg        TargetConfig
	ready      bool
	generation uint64
	persistent []RenderTarget
	scratch    RenderTarget
}

// NewTargetSet creates an empty set for owner with slots persistent targets.
// slots below 1 is treated as 1.
func NewTargetSet(owner string, alloc Allocator, slots int) *TargetSet {
	return &TargetSet{
		owner: owner,
		alloc: alloc,
		slots: max(slots, 1),
	}
}

// Owner returns the label used for allocated targets.
func (s *TargetSet) Owner() string {
	return s.owner
}

// EnsureTargets makes the set match cfg and returns the persistent targets,
// indexed by render context.
//
// cfg is clamped to at least 1x1. When the clamped config equals the current
// one nothing is allocated. Otherwise every target (scratch included) is
// released before new ones are created. If any allocation fails the partial
// allocation is released, the set is left empty and the error is returned.
func (s *TargetSet) EnsureTargets(cfg TargetConfig) ([]RenderTarget, error) {
	cfg = cfg.Clamped()
	if s.ready && cfg == s.cfg {
		return s.Targets(), nil
	}

	s.Release()
	worldwrap.Logger().Debug("allocating portal targets",
		"owner", s.owner, "width", cfg.Width, "height", cfg.Height,
		"depth", cfg.Depth.String(), "slots", s.slots)

	persistent := make([]RenderTarget, 0, s.slots)
	for i := range s.slots {
		t, err := s.alloc.Allocate(TargetDescriptor{
			Label:  fmt.Sprintf("%s RenderTexture %d", s.owner, i),
			Width:  cfg.Width,
			Height: cfg.Height,
			Depth:  cfg.Depth,
		})
		if err != nil {
			s.releaseAll(persistent, nil)
			return nil, fmt.Errorf("ensure targets for %s: %w", s.owner, err)
		}
		persistent = append(persistent, t)
	}

	scratch, err := s.alloc.Allocate(TargetDescriptor{
		Label:  s.owner + " Scratch",
		Width:  cfg.Width,
		Height: cfg.Height,
		Depth:  cfg.Depth,
	})
	if err != nil {
		s.releaseAll(persistent, nil)
		return nil, fmt.Errorf("ensure targets for %s: %w", s.owner, err)
	}

	s.persistent = persistent
	s.scratch = scratch
	s.cfg = cfg
	s.ready = true
	s.generation++
	return s.Targets(), nil
}

// Targets returns a copy of the persistent targets, or nil when not ready.
func (s *TargetSet) Targets() []RenderTarget {
	if !s.ready {
		return nil
	}
	out := make([]RenderTarget, len(s.persistent))
	copy(out, s.persistent)
	return out
}

// Persistent returns the persistent target for render context i, or nil when
// the set is not ready or i is out of range.
func (s *TargetSet) Persistent(i int) RenderTarget {
	if !s.ready || i < 0 || i >= len(s.persistent) {
		return nil
	}
	return s.persistent[i]
}

// Scratch returns the intermediate target, or nil when not ready.
func (s *TargetSet) Scratch() RenderTarget {
	if !s.ready {
		return nil
	}
	return s.scratch
}

// Config returns the active config and whether targets exist for it.
func (s *TargetSet) Config() (TargetConfig, bool) {
	return s.cfg, s.ready
}

// Ready reports whether targets are currently allocated.
func (s *TargetSet) Ready() bool {
	return s.ready
}

// Generation changes every time targets are allocated or released. Callers
// holding a target compare generations to tell whether it is still live.
func (s *TargetSet) Generation() uint64 {
	return s.generation
}

// Slots returns the number of persistent targets.
func (s *TargetSet) Slots() int {
	return s.slots
}

// Release frees every target and clears the active config.
func (s *TargetSet) Release() {
	if s.ready {
		worldwrap.Logger().Debug("releasing portal targets", "owner", s.owner)
		s.generation++
	}
	s.releaseAll(s.persistent, s.scratch)
	s.persistent = nil
	s.scratch = nil
	s.cfg = TargetConfig{}
	s.ready = false
}

func (s *TargetSet) releaseAll(targets []RenderTarget, scratch RenderTarget) {
	for _, t := range targets {
		if t != nil {
			s.alloc.Release(t)
		}
	}
	if scratch != nil {
		s.alloc.Release(scratch)
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned for a target with a non-positive size.
	ErrInvalidDimensions = errors.New("render: invalid target dimensions")

	// ErrAllocation is returned when the backend fails to create a target.
	ErrAllocation = errors.New("render: target allocation failed")

	// ErrNoHALDevice is returned when the device provider does not expose
	// a wgpu HAL device.
	ErrNoHALDevice = errors.New("render: provider has no HAL device")

	// ErrNotCPUTarget is returned when a CPU renderer is given a GPU-only target.
	ErrNotCPUTarget = errors.New("render: target does not support CPU rendering")
)

// Allocator creates and releases render targets.
//
// Implementations must tolerate Release on a target they did not create by
// ignoring it.
type Allocator interface {
	// Allocate creates a target for desc.
	Allocate(desc TargetDescriptor) (RenderTarget, error)

	// Release frees a target. Releasing nil is a no-op.
	Release(target RenderTarget)
}

// PixmapAllocator allocates CPU-backed PixmapTargets.
// The zero value is ready to use.
type PixmapAllocator struct{}

// Allocate creates a PixmapTarget for desc.
func (PixmapAllocator) Allocate(desc TargetDescriptor) (RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return newPixmapTargetFromDescriptor(desc), nil
}

// Release is a no-op; pixmap memory is reclaimed by the garbage collector.
func (PixmapAllocator) Release(RenderTarget) {}

// allocationError wraps a backend error with ErrAllocation and the target label.
func allocationError(label, what string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrAllocation, label, what, err)
}

// Ensure PixmapAllocator implements Allocator.
var _ Allocator = PixmapAllocator{}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetUsage is the usage of portal colour textures: rendered into, sampled
// by the surface material and copied scratch to persistent.
const targetUsage = gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// HALAllocator allocates GPU TextureTargets through the wgpu HAL device of a
// host DeviceHandle.
type HALAllocator struct {
	device hal.Device
	format gputypes.TextureFormat
}

// NewHALAllocator creates an allocator from a host-provided device.
//
// The provider must implement HalDevice() any returning a hal.Device,
// otherwise ErrNoHALDevice is returned. The colour format follows the
// provider's surface format when it reports one.
func NewHALAllocator(provider DeviceHandle) (*HALAllocator, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALDevice)
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = ColorFormat
	}
	return &HALAllocator{device: device, format: format}, nil
}

// Format returns the colour format of allocated targets.
func (a *HALAllocator) Format() gputypes.TextureFormat {
	return a.format
}

// Allocate creates a colour texture, a depth texture and a view for each.
// On failure every partially created resource is destroyed.
func (a *HALAllocator) Allocate(desc TargetDescriptor) (RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	t := &TextureTarget{
		device: a.device,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: a.format,
		depth:  desc.Depth,
	}

	size := hal.Extent3D{
		Width:              uint32(desc.Width),  //nolint:gosec // validated positive
		Height:             uint32(desc.Height), //nolint:gosec // validated positive
		DepthOrArrayLayers: 1,
	}

	colorTex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label + " color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format,
		Usage:         targetUsage,
	})
	if err != nil {
		return nil, allocationError(desc.Label, "color texture", err)
	}
	t.colorTex = colorTex

	colorView, err := a.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: desc.Label + " color view",
	})
	if err != nil {
		t.Destroy()
		return nil, allocationError(desc.Label, "color view", err)
	}
	t.colorView = colorView

	depthTex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label + " depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Depth.Format(),
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Destroy()
		return nil, allocationError(desc.Label, "depth texture", err)
	}
	t.depthTex = depthTex

	depthView, err := a.device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: desc.Label + " depth view",
	})
	if err != nil {
		t.Destroy()
		return nil, allocationError(desc.Label, "depth view", err)
	}
	t.depthView = depthView

	return t, nil
}

// Release destroys a TextureTarget. Other target types are ignored.
func (a *HALAllocator) Release(target RenderTarget) {
	if t, ok := target.(*TextureTarget); ok && t != nil {
		t.Destroy()
	}
}

// Ensure HALAllocator implements Allocator.
var _ Allocator = (*HALAllocator)(nil)

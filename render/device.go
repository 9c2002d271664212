// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// worldwrap RECEIVES the device from the host, it does NOT create one.
// Hosts that want GPU-backed portal targets pass their provider to
// NewHALAllocator; the provider must also expose HalDevice() any.
type DeviceHandle = gpucontext.DeviceProvider

// ColorFormat is the pixel format of portal colour targets when the host
// does not report a surface format.
const ColorFormat = gputypes.TextureFormatRGBA8Unorm

// DepthQuality selects the precision of a target's depth buffer.
type DepthQuality int

const (
	// DepthFast uses a 16-bit depth buffer.
	DepthFast DepthQuality = iota

	// DepthHigh uses a 24-bit depth buffer.
	DepthHigh
)

// Bits returns the depth buffer bit depth: 16 for Fast, 24 for High.
func (q DepthQuality) Bits() int {
	if q == DepthFast {
		return 16
	}
	return 24
}

// Format returns the depth texture format for the quality tier.
func (q DepthQuality) Format() gputypes.TextureFormat {
	if q == DepthFast {
		return gputypes.TextureFormatDepth16Unorm
	}
	return gputypes.TextureFormatDepth24Plus
}

// String returns "fast" or "high".
func (q DepthQuality) String() string {
	switch q {
	case DepthFast:
		return "fast"
	case DepthHigh:
		return "high"
	default:
		return fmt.Sprintf("DepthQuality(%d)", int(q))
	}
}

// ParseDepthQuality parses "fast" or "high", case-insensitively.
func ParseDepthQuality(s string) (DepthQuality, error) {
	switch strings.ToLower(s) {
	case "fast":
		return DepthFast, nil
	case "high":
		return DepthHigh, nil
	default:
		return 0, fmt.Errorf("render: unknown depth quality %q", s)
	}
}

// TargetConfig is the requested size and depth precision of a surface's targets.
type TargetConfig struct {
	Width  int
	Height int
	Depth  DepthQuality
}

// Clamped returns the config with width and height raised to at least 1.
func (c TargetConfig) Clamped() TargetConfig {
	c.Width = max(c.Width, 1)
	c.Height = max(c.Height, 1)
	return c
}

// TargetDescriptor describes one render target to allocate.
type TargetDescriptor struct {
	// Label identifies the owner in diagnostics, e.g. "east RenderTexture 0".
	Label string

	// Width is the target width in pixels.
	Width int

	// Height is the target height in pixels.
	Height int

	// Depth is the depth buffer precision.
	Depth DepthQuality
}

// Validate reports ErrInvalidDimensions for non-positive sizes.
func (d TargetDescriptor) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %q is %dx%d", ErrInvalidDimensions, d.Label, d.Width, d.Height)
	}
	return nil
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns an empty description for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import "log/slog"

// Depth range ratios (far/near) above which a depth tier loses too much
// precision near the portal plane.
const (
	DefaultFastDepthRange = 1e3
	DefaultHighDepthRange = 1e5
)

// Option configures a Controller during creation.
//
// Example:
//
//	ctrl := portal.NewController(reg, renderer, alloc,
//	    portal.WithPreview(true),
//	    portal.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Controller creation.
type options struct {
	preview   bool
	logger    *slog.Logger
	fastRange float64
	highRange float64
}

// defaultOptions returns the default controller options.
func defaultOptions() options {
	return options{
		fastRange: DefaultFastDepthRange,
		highRange: DefaultHighDepthRange,
	}
}

// WithPreview enables the Preview render context. Each surface then keeps a
// second persistent target driven by the frame's preview viewer.
func WithPreview(enabled bool) Option {
	return func(o *options) {
		o.preview = enabled
	}
}

// WithLogger routes controller diagnostics to l instead of worldwrap.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithNearClipLimits sets the largest far/near ratio accepted without a
// warning for the Fast and High depth tiers. Non-positive values keep the
// defaults.
func WithNearClipLimits(fast, high float64) Option {
	return func(o *options) {
		if fast > 0 {
			o.fastRange = fast
		}
		if high > 0 {
			o.highRange = high
		}
	}
}

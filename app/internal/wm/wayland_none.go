// SPDX-License-Identifier: Unlicense OR MIT

//go:build nowayland

package wm

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/wsi"
)

// WaylandWindow is not available in nowayland builds.
type WaylandWindow struct {
	window
}

func NewWaylandWindow(w wsi.Window, cfg Config) (*WaylandWindow, error) {
	return nil, egl.ErrNotSupported
}

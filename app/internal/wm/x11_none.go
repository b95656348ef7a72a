// SPDX-License-Identifier: Unlicense OR MIT

//go:build nox11

package wm

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/wsi"
)

// X11Window is not available in nox11 builds.
type X11Window struct {
	window
}

func NewX11Window(w wsi.Window, cfg Config) (*X11Window, error) {
	return nil, egl.ErrNotSupported
}

// SPDX-License-Identifier: Unlicense OR MIT

//go:build (!linux && !freebsd) || android

package wm

import "glwin.dev/app/internal/egl"

// LoadWaylandEGL reports egl.ErrNotSupported outside Linux and
// FreeBSD.
func LoadWaylandEGL() (WaylandEGL, error) {
	return nil, egl.ErrNotSupported
}

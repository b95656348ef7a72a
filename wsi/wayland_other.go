// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd

package wsi

import "errors"

// WrapWaylandDisplay is only supported on Linux and FreeBSD.
func WrapWaylandDisplay(disp uintptr) (Conn, error) {
	return nil, errors.New("wayland: not supported on this platform")
}

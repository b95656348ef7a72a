// SPDX-License-Identifier: Unlicense OR MIT

package wm

// WaylandEGL is the wl_egl_window API of libwayland-egl.
type WaylandEGL interface {
	// Create returns a wl_egl_window* for the wl_surface*.
	Create(surface uintptr, width, height int) (uintptr, error)
	Resize(win uintptr, width, height int)
	Destroy(win uintptr)
}

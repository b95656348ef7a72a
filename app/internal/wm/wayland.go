// SPDX-License-Identifier: Unlicense OR MIT

//go:build !nowayland

package wm

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/wsi"
)

// WaylandWindow is a context bound to a wl_egl_window wrapping the
// surface of a Wayland window.
type WaylandWindow struct {
	window
	wlegl  WaylandEGL
	eglWin uintptr
}

// NewWaylandWindow binds a context to w. It returns
// egl.ErrNotSupported if w was not created by a Wayland toolkit or
// the compositor has no shell protocol to map its surface with.
func NewWaylandWindow(w wsi.Window, cfg Config) (*WaylandWindow, error) {
	ww, ok := w.(wsi.WaylandWindow)
	if !ok || w.Backend() != wsi.Wayland {
		return nil, egl.ErrNotSupported
	}
	if w.Conn() == nil {
		return nil, errNoConn
	}
	surf, ok := ww.NewSurface()
	if !ok || surf == 0 {
		return nil, egl.ErrNotSupported
	}
	wlegl := cfg.WaylandEGL
	if wlegl == nil {
		var err error
		if wlegl, err = LoadWaylandEGL(); err != nil {
			return nil, err
		}
	}
	def := wsi.NoInsets
	if ww.Decorated() {
		def = wsi.DecorationInsets
	}
	wl := &WaylandWindow{wlegl: wlegl}
	norm := newNormalizer(w, insetsFor(cfg, def), wl.resize)
	width, height := norm.InnerSize()
	eglWin, err := wlegl.Create(surf, width, height)
	if err != nil {
		return nil, err
	}
	wl.eglWin = eglWin
	ctx, err := newContext(cfg, egl.NativeDisplay{Platform: egl.PlatformWayland, Ptr: ww.WLDisplay()}, eglWin)
	if err != nil {
		wlegl.Destroy(eglWin)
		return nil, err
	}
	ctx.Surface().Resize(width, height)
	wl.ctx = ctx
	wl.norm = norm
	wl.destroy = func() {
		wlegl.Destroy(wl.eglWin)
	}
	return wl, nil
}

func (w *WaylandWindow) resize(width, height int) {
	w.wlegl.Resize(w.eglWin, width, height)
	w.ctx.Surface().Resize(width, height)
}

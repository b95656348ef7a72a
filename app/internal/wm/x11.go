// SPDX-License-Identifier: Unlicense OR MIT

//go:build !nox11

package wm

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/wsi"
)

// X11Window is a context bound to an X11 window. Decorations are
// drawn by the window manager.
type X11Window struct {
	window
	xwin uintptr
}

// NewX11Window binds a context to w. It returns egl.ErrNotSupported
// if w was not created by an X11 toolkit.
func NewX11Window(w wsi.Window, cfg Config) (*X11Window, error) {
	xw, ok := w.(wsi.X11Window)
	if !ok || w.Backend() != wsi.X11 {
		return nil, egl.ErrNotSupported
	}
	if w.Conn() == nil {
		return nil, errNoConn
	}
	disp := egl.NativeDisplay{Platform: egl.PlatformX11, Ptr: xw.XDisplay()}
	ctx, err := newContext(cfg, disp, xw.XWindow())
	if err != nil {
		return nil, err
	}
	x := &X11Window{xwin: xw.XWindow()}
	x.ctx = ctx
	// The X server tracks the window size; EGL follows it.
	x.norm = newNormalizer(w, insetsFor(cfg, wsi.NoInsets), ctx.Surface().Resize)
	ctx.Surface().Resize(x.norm.InnerSize())
	return x, nil
}

// XWindow returns the X window id the context renders to.
func (w *X11Window) XWindow() uintptr {
	return w.xwin
}

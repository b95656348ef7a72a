// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/app/internal/wm"
	"glwin.dev/io/event"
	"glwin.dev/wsi"
)

// Window is a context bound to a toolkit window. Exactly one backend
// field is set, chosen by NewWindow from the backend that created the
// toolkit window.
type Window struct {
	x11     *wm.X11Window
	wayland *wm.WaylandWindow
	android *wm.AndroidWindow
}

// backend is the part of the wm windows every operation of Window
// forwards to.
type backend interface {
	Context() *egl.Context
	MakeCurrent() error
	IsCurrent() bool
	ProcAddress(name string) uintptr
	SwapBuffers() error
	API() egl.API
	PixelFormat() egl.PixelFormat
	Poll() (event.Event, bool)
	Wait() event.Event
	SetInnerSize(width, height int)
	InnerSize() (int, int)
	SetResizeCallback(fn func(width, height int))
	Release()
}

// NewWindow creates a context for w on the display of w and binds it
// to w. The toolkit keeps ownership of w.
func NewWindow(w wsi.Window, options ...Option) (*Window, error) {
	cnf := newConfig(options)
	if err := cnf.checkShare(w.Backend()); err != nil {
		return nil, err
	}
	lib, err := cnf.loadLib()
	if err != nil {
		return nil, err
	}
	wcnf := wm.Config{
		Lib:         lib,
		PixelFormat: cnf.PixelFormat,
		GL:          cnf.glAttributes(),
		Insets:      cnf.Insets,
		WaylandEGL:  cnf.wlegl,
	}
	win := new(Window)
	switch w.Backend() {
	case wsi.X11:
		win.x11, err = wm.NewX11Window(w, wcnf)
	case wsi.Wayland:
		win.wayland, err = wm.NewWaylandWindow(w, wcnf)
	case wsi.Android:
		win.android, err = wm.NewAndroidWindow(w, wcnf)
	default:
		err = ErrNotSupported
	}
	if err != nil {
		return nil, err
	}
	return win, nil
}

// checkShare rejects sharing with released contexts and with windows
// of another backend. A zero b skips the backend check.
func (cnf *Config) checkShare(b wsi.Backend) error {
	if cnf.Share == nil {
		return nil
	}
	if cnf.Share.eglContext() == nil {
		return ErrNotSupported
	}
	if sw, ok := cnf.Share.(*Window); ok && b != 0 && sw.Backend() != b {
		return ErrNotSupported
	}
	return nil
}

func (w *Window) variant() backend {
	switch {
	case w == nil:
		return nil
	case w.x11 != nil:
		return w.x11
	case w.wayland != nil:
		return w.wayland
	case w.android != nil:
		return w.android
	}
	return nil
}

func (w *Window) eglContext() *egl.Context {
	if b := w.variant(); b != nil {
		return b.Context()
	}
	return nil
}

// Backend reports the backend of the window, or 0 for a Window not
// created by NewWindow.
func (w *Window) Backend() wsi.Backend {
	switch {
	case w == nil:
		return 0
	case w.x11 != nil:
		return wsi.X11
	case w.wayland != nil:
		return wsi.Wayland
	case w.android != nil:
		return wsi.Android
	}
	return 0
}

// MakeCurrent makes the context current on the calling thread. It
// returns ErrContextLost if the context must be recreated.
func (w *Window) MakeCurrent() error {
	b := w.variant()
	if b == nil {
		return &InvariantViolationError{Op: "MakeCurrent"}
	}
	return b.MakeCurrent()
}

// IsCurrent reports whether the context is current on the calling
// thread.
func (w *Window) IsCurrent() bool {
	b := w.variant()
	if b == nil {
		return false
	}
	return b.IsCurrent()
}

// ProcAddress returns the address of a GL function, or 0 if it is
// not available.
func (w *Window) ProcAddress(name string) uintptr {
	b := w.variant()
	if b == nil {
		return 0
	}
	return b.ProcAddress(name)
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() error {
	b := w.variant()
	if b == nil {
		return &InvariantViolationError{Op: "SwapBuffers"}
	}
	return b.SwapBuffers()
}

// API returns the client API of the context.
func (w *Window) API() API {
	b := w.variant()
	if b == nil {
		return 0
	}
	return b.API()
}

// PixelFormat returns the pixel format of the context. It never
// changes.
func (w *Window) PixelFormat() PixelFormat {
	b := w.variant()
	if b == nil {
		return PixelFormat{}
	}
	return b.PixelFormat()
}

// SetInnerSize resizes the client area and the rendering surface.
func (w *Window) SetInnerSize(width, height int) error {
	b := w.variant()
	if b == nil {
		return &InvariantViolationError{Op: "SetInnerSize"}
	}
	b.SetInnerSize(width, height)
	return nil
}

// InnerSize returns the size of the client area.
func (w *Window) InnerSize() (int, int) {
	b := w.variant()
	if b == nil {
		return 0, 0
	}
	return b.InnerSize()
}

// SetResizeCallback registers fn to be called with the new client
// area size when a resize event is processed, after the surface has
// been resized.
func (w *Window) SetResizeCallback(fn func(width, height int)) error {
	b := w.variant()
	if b == nil {
		return &InvariantViolationError{Op: "SetResizeCallback"}
	}
	b.SetResizeCallback(fn)
	return nil
}

// PollEvents returns an iterator over the events available without
// blocking.
func (w *Window) PollEvents() *EventIterator {
	return &EventIterator{w: w.variant(), op: "PollEvents"}
}

// WaitEvents returns an iterator that blocks for each event. The
// iterator panics with a *ConnectionLostError if the connection to
// the display server fails.
func (w *Window) WaitEvents() *EventIterator {
	return &EventIterator{w: w.variant(), op: "WaitEvents", wait: true}
}

// Release destroys the context and its surface.
func (w *Window) Release() {
	if b := w.variant(); b != nil {
		b.Release()
	}
}

// EventIterator iterates over the events of a Window.
type EventIterator struct {
	w    backend
	op   string
	wait bool
	e    event.Event
	err  error
}

// Next advances to the next event. It reports false when polling and
// no event is available, or when the window is invalid.
func (it *EventIterator) Next() bool {
	it.e = nil
	if it.w == nil {
		it.err = &InvariantViolationError{Op: it.op}
		return false
	}
	if it.wait {
		it.e = it.w.Wait()
		return true
	}
	e, ok := it.w.Poll()
	it.e = e
	return ok
}

// Event returns the event Next advanced to.
func (it *EventIterator) Event() event.Event {
	return it.e
}

// Err returns the error that stopped the iteration, if any.
func (it *EventIterator) Err() error {
	return it.err
}

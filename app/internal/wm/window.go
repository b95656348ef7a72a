// SPDX-License-Identifier: Unlicense OR MIT

// Package wm binds EGL contexts to the windows of the X11, Wayland
// and Android backends and normalizes their events.
package wm

import (
	"errors"
	"fmt"
	"sync"

	"glwin.dev/app/internal/egl"
	"glwin.dev/io/event"
	"glwin.dev/wsi"
)

// Config describes the context of a new window.
type Config struct {
	// Lib is the EGL library to create the context with.
	Lib         egl.Lib
	PixelFormat egl.PixelFormatRequirements
	GL          egl.GLAttributes
	// Insets overrides the decoration insets of the backend.
	Insets wsi.InsetFunc
	// WaylandEGL overrides the libwayland-egl binding.
	WaylandEGL WaylandEGL
}

// ConnectionLostError is the panic value of Wait when the connection
// to the display server fails.
type ConnectionLostError struct {
	Err error
}

func (e *ConnectionLostError) Error() string {
	return fmt.Sprintf("connection with the display server lost: %v", e.Err)
}

func (e *ConnectionLostError) Unwrap() error {
	return e.Err
}

var errNoConn = errors.New("wm: window has no display connection")

// window is the backend independent part of a window: its context
// and its event normalizer.
type window struct {
	ctx  *egl.Context
	norm *normalizer

	releaseOnce sync.Once
	// destroy releases backend resources after the context.
	destroy func()
}

func newContext(cfg Config, disp egl.NativeDisplay, native uintptr) (*egl.Context, error) {
	c, err := egl.NewConfig(cfg.Lib, disp, cfg.PixelFormat, cfg.GL, egl.WindowSurface)
	if err != nil {
		return nil, err
	}
	ctx, err := c.FinishWindow(native)
	if err != nil {
		c.Release()
		return nil, err
	}
	return ctx, nil
}

func insetsFor(cfg Config, def wsi.InsetFunc) wsi.InsetFunc {
	if cfg.Insets != nil {
		return cfg.Insets
	}
	return def
}

// Context returns the EGL context of the window.
func (w *window) Context() *egl.Context {
	return w.ctx
}

// MakeCurrent binds the context to the calling thread. Callers must
// keep the thread locked with runtime.LockOSThread while the context
// is current.
func (w *window) MakeCurrent() error {
	return w.ctx.MakeCurrent()
}

func (w *window) IsCurrent() bool {
	return w.ctx.IsCurrent()
}

func (w *window) ProcAddress(name string) uintptr {
	return w.ctx.ProcAddress(name)
}

func (w *window) SwapBuffers() error {
	return w.ctx.SwapBuffers()
}

func (w *window) API() egl.API {
	return w.ctx.API()
}

func (w *window) PixelFormat() egl.PixelFormat {
	return w.ctx.PixelFormat()
}

// Poll returns the next event without blocking.
func (w *window) Poll() (event.Event, bool) {
	return w.norm.Poll()
}

// Wait blocks until the next event. It panics with a
// *ConnectionLostError if the display server connection fails.
func (w *window) Wait() event.Event {
	return w.norm.Wait()
}

// SetInnerSize resizes the client area and the rendering surface.
func (w *window) SetInnerSize(width, height int) {
	w.norm.SetInnerSize(width, height)
}

func (w *window) InnerSize() (int, int) {
	return w.norm.InnerSize()
}

// SetResizeCallback registers fn to be called with the client area
// size whenever a resize has been applied. fn runs on the goroutine
// calling Poll or Wait, after the surface is resized. A nil fn removes
// the callback.
func (w *window) SetResizeCallback(fn func(width, height int)) {
	w.norm.SetResizeCallback(fn)
}

// Release destroys the context and the backend resources of the
// window. The native window itself is left to the toolkit.
func (w *window) Release() {
	w.releaseOnce.Do(func() {
		w.norm.release()
		w.ctx.Release()
		if w.destroy != nil {
			w.destroy()
		}
	})
}

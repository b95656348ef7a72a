// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"runtime"

	"glwin.dev/app/internal/egl"
)

// HeadlessContext is a context rendering into an off-screen pixel
// buffer on the default display.
type HeadlessContext struct {
	ctx *egl.Context
}

// NewHeadlessContext creates a context with a pixel buffer of exactly
// width by height pixels.
func NewHeadlessContext(width, height int, options ...Option) (*HeadlessContext, error) {
	cnf := newConfig(options)
	if err := cnf.checkShare(0); err != nil {
		return nil, err
	}
	lib, err := cnf.loadLib()
	if err != nil {
		return nil, err
	}
	c, err := egl.NewConfig(lib, egl.NativeDisplay{}, cnf.PixelFormat, cnf.glAttributes(), egl.PbufferSurface)
	if err != nil {
		return nil, err
	}
	ctx, err := c.FinishPbuffer(width, height)
	if err != nil {
		c.Release()
		return nil, err
	}
	return &HeadlessContext{ctx: ctx}, nil
}

func (h *HeadlessContext) eglContext() *egl.Context {
	return h.ctx
}

// MakeCurrent makes the context current on the calling thread.
func (h *HeadlessContext) MakeCurrent() error {
	return h.ctx.MakeCurrent()
}

func (h *HeadlessContext) IsCurrent() bool {
	return h.ctx.IsCurrent()
}

func (h *HeadlessContext) ProcAddress(name string) uintptr {
	return h.ctx.ProcAddress(name)
}

func (h *HeadlessContext) API() API {
	return h.ctx.API()
}

func (h *HeadlessContext) PixelFormat() PixelFormat {
	return h.ctx.PixelFormat()
}

// Size returns the size of the pixel buffer.
func (h *HeadlessContext) Size() (int, int) {
	return h.ctx.Surface().Size()
}

// Do runs f on a locked OS thread with the context current.
func (h *HeadlessContext) Do(f func() error) error {
	errCh := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := h.ctx.MakeCurrent(); err != nil {
			errCh <- err
			return
		}
		err := f()
		h.ctx.ReleaseCurrent()
		errCh <- err
	}()
	return <-errCh
}

// Release destroys the context and its pixel buffer.
func (h *HeadlessContext) Release() {
	h.ctx.Release()
}

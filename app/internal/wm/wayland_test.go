// SPDX-License-Identifier: Unlicense OR MIT

//go:build !nowayland

package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glwin.dev/app/internal/egl"
	"glwin.dev/io/system"
	"glwin.dev/wsi"
	"glwin.dev/wsi/wsitest"
)

func newTestWayland(t *testing.T, tw *wsitest.Window, cfg Config) (*WaylandWindow, *wsitest.WaylandEGL) {
	t.Helper()
	wlegl := new(wsitest.WaylandEGL)
	cfg.WaylandEGL = wlegl
	if cfg.Lib == nil {
		cfg.Lib = testLib(0x10)
	}
	w, err := NewWaylandWindow(tw, cfg)
	require.NoError(t, err)
	t.Cleanup(w.Release)
	return w, wlegl
}

func TestWaylandWindowResize(t *testing.T) {
	tw := wsitest.New(wsi.Wayland, 320, 240)
	tw.Decorate = true
	w, wlegl := newTestWayland(t, tw, Config{})

	ew := wlegl.Window()
	require.NotNil(t, ew)
	assert.Equal(t, uintptr(0x20), ew.Surface)
	assert.Equal(t, 320, ew.Width)

	var cb [2]int
	w.SetResizeCallback(func(width, height int) { cb = [2]int{width, height} })
	tw.S.Send(wsi.PingEvent{Serial: 3}, wsi.ConfigureEvent{Width: 800, Height: 600}, wsi.ConfigureEvent{Width: 640, Height: 480})
	e, ok := w.Poll()
	require.True(t, ok)
	assert.Equal(t, system.ResizeEvent{Width: 640, Height: 480}, e)
	assert.Equal(t, []uint32{3}, tw.S.Pongs())

	in := wsi.DecorationInsets(640, 480)
	innerW, innerH := 640-in.Left-in.Right, 480-in.Top-in.Bottom
	assert.Equal(t, [2]int{innerW, innerH}, cb)
	assert.Equal(t, innerW, ew.Width)
	assert.Equal(t, innerH, ew.Height)
	assert.Equal(t, 1, ew.Resizes)
	width, height := w.Context().Surface().Size()
	assert.Equal(t, innerW, width)
	assert.Equal(t, innerH, height)
	width, height = w.InnerSize()
	assert.Equal(t, innerW, width)
	assert.Equal(t, innerH, height)

	before := w.PixelFormat()
	w.SetInnerSize(200, 100)
	w.SetInnerSize(200, 100)
	assert.Equal(t, 200, ew.Width)
	assert.Equal(t, 100, ew.Height)
	assert.Equal(t, before, w.PixelFormat(), "resizing never changes the config")
}

func TestWaylandCustomInsets(t *testing.T) {
	tw := wsitest.New(wsi.Wayland, 100, 100)
	tw.Decorate = true
	w, _ := newTestWayland(t, tw, Config{Insets: func(int, int) system.Insets {
		return system.Insets{Top: 10}
	}})
	tw.S.Send(wsi.ConfigureEvent{Width: 100, Height: 100})
	_, ok := w.Poll()
	require.True(t, ok)
	width, height := w.InnerSize()
	assert.Equal(t, 100, width)
	assert.Equal(t, 90, height)
}

func TestWaylandUndecorated(t *testing.T) {
	tw := wsitest.New(wsi.Wayland, 100, 100)
	w, _ := newTestWayland(t, tw, Config{})
	tw.S.Send(wsi.ConfigureEvent{Width: 300, Height: 200})
	_, ok := w.Poll()
	require.True(t, ok)
	width, height := w.InnerSize()
	assert.Equal(t, 300, width)
	assert.Equal(t, 200, height)
}

func TestWaylandRelease(t *testing.T) {
	lib := testLib(0x10)
	tw := wsitest.New(wsi.Wayland, 100, 100)
	wlegl := new(wsitest.WaylandEGL)
	w, err := NewWaylandWindow(tw, Config{Lib: lib, WaylandEGL: wlegl})
	require.NoError(t, err)
	w.Release()
	w.Release()
	assert.True(t, wlegl.Window().Destroyed)
	assert.Zero(t, lib.Live())
	assert.Equal(t, 1, lib.Terminated[1])
}

func TestWaylandResizeAfterRelease(t *testing.T) {
	tw := wsitest.New(wsi.Wayland, 100, 100)
	wlegl := new(wsitest.WaylandEGL)
	w, err := NewWaylandWindow(tw, Config{Lib: testLib(0x10), WaylandEGL: wlegl})
	require.NoError(t, err)
	w.Release()

	tw.S.Send(wsi.ConfigureEvent{Width: 300, Height: 200})
	_, ok := w.Poll()
	require.True(t, ok)
	w.SetInnerSize(50, 50)
	ew := wlegl.Window()
	assert.True(t, ew.Destroyed)
	assert.Zero(t, ew.Resizes, "destroyed wl_egl_windows are never resized")
}

func TestWaylandWindowErrors(t *testing.T) {
	wlegl := new(wsitest.WaylandEGL)
	_, err := NewWaylandWindow(wsitest.New(wsi.X11, 1, 1), Config{Lib: testLib(0x10), WaylandEGL: wlegl})
	assert.ErrorIs(t, err, egl.ErrNotSupported)

	noShell := wsitest.New(wsi.Wayland, 1, 1)
	noShell.S = nil
	_, err = NewWaylandWindow(noShell, Config{Lib: testLib(0x10), WaylandEGL: wlegl})
	assert.ErrorIs(t, err, egl.ErrNotSupported, "no shell protocol")
	assert.Nil(t, wlegl.Window())

	_, err = NewWaylandWindow(wsitest.New(wsi.Wayland, 1, 1), Config{
		Lib:         testLib(0x10),
		WaylandEGL:  wlegl,
		PixelFormat: egl.PixelFormatRequirements{Stereoscopy: true},
	})
	assert.ErrorIs(t, err, egl.ErrNoAvailablePixelFormat)
	assert.True(t, wlegl.Window().Destroyed)
}

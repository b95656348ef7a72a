// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glwin.dev/io/system"
	"glwin.dev/wsi"
	"glwin.dev/wsi/wsitest"
)

type keyEvent struct{ r rune }

func (keyEvent) ImplementsEvent() {}

type surfaceRecorder struct {
	sizes [][2]int
}

func (r *surfaceRecorder) resize(width, height int) {
	r.sizes = append(r.sizes, [2]int{width, height})
}

func newTestNormalizer(insets wsi.InsetFunc) (*normalizer, *wsitest.Window, *surfaceRecorder) {
	w := wsitest.New(wsi.Wayland, 320, 240)
	rec := new(surfaceRecorder)
	return newNormalizer(w, insets, rec.resize), w, rec
}

func TestResizeLastWriteWins(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.NoInsets)
	var calls [][2]int
	n.SetResizeCallback(func(width, height int) {
		calls = append(calls, [2]int{width, height})
	})
	w.S.Send(wsi.ConfigureEvent{Width: 800, Height: 600}, wsi.ConfigureEvent{Width: 640, Height: 480})

	e, ok := n.Poll()
	require.True(t, ok)
	assert.Equal(t, system.ResizeEvent{Width: 640, Height: 480}, e)
	_, ok = n.Poll()
	assert.False(t, ok, "a single resize is emitted")

	assert.Equal(t, [][2]int{{640, 480}}, rec.sizes)
	assert.Equal(t, [][2]int{{640, 480}}, calls)
	assert.Equal(t, [][2]int{{640, 480}}, w.S.Resizes())
	width, height := n.InnerSize()
	assert.Equal(t, 640, width)
	assert.Equal(t, 480, height)
}

func TestResizeSubtractsInsets(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.DecorationInsets)
	w.S.Send(wsi.ConfigureEvent{Width: 800, Height: 600})
	e, ok := n.Poll()
	require.True(t, ok)
	ev := e.(system.ResizeEvent)
	in := wsi.DecorationInsets(800, 600)
	wantW := int(ev.Width) - in.Left - in.Right
	wantH := int(ev.Height) - in.Top - in.Bottom
	assert.Equal(t, [][2]int{{wantW, wantH}}, rec.sizes)
	width, height := n.InnerSize()
	assert.Equal(t, wantW, width)
	assert.Equal(t, wantH, height)

	// Windows smaller than their decorations keep a 1x1 client area.
	w.S.Send(wsi.ConfigureEvent{Width: 4, Height: 4})
	_, ok = n.Poll()
	require.True(t, ok)
	width, height = n.InnerSize()
	assert.Equal(t, 1, width)
	assert.Equal(t, 1, height)
}

func TestResizeIgnoresEmptyConfigure(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.NoInsets)
	w.S.Send(wsi.ConfigureEvent{Width: 0, Height: 0}, wsi.ConfigureEvent{Width: -1, Height: 100})
	_, ok := n.Poll()
	assert.False(t, ok)
	assert.Empty(t, rec.sizes)
	width, height := n.InnerSize()
	assert.Equal(t, 320, width)
	assert.Equal(t, 240, height)
}

func TestSetInnerSizeIdempotent(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.DecorationInsets)
	called := false
	n.SetResizeCallback(func(int, int) { called = true })
	n.SetInnerSize(300, 200)
	n.SetInnerSize(300, 200)
	assert.Equal(t, [][2]int{{300, 200}, {300, 200}}, rec.sizes)
	assert.Equal(t, [][2]int{{300, 200}, {300, 200}}, w.S.Resizes())
	width, height := n.InnerSize()
	assert.Equal(t, 300, width)
	assert.Equal(t, 200, height)
	assert.False(t, called, "explicit resizes are not reported")
	_, ok := n.Poll()
	assert.False(t, ok)
}

func TestPollDoesNotBlock(t *testing.T) {
	n, w, _ := newTestNormalizer(wsi.NoInsets)
	e, ok := n.Poll()
	assert.False(t, ok)
	assert.Nil(t, e)
	assert.Equal(t, 1, w.C.Dispatches)
	assert.Zero(t, w.C.Reads)
	assert.Zero(t, w.C.Flushes)
}

func TestPollDispatches(t *testing.T) {
	n, w, _ := newTestNormalizer(wsi.NoInsets)
	w.C.OnDispatch = func() {
		w.S.Send(wsi.ConfigureEvent{Width: 100, Height: 50})
	}
	e, ok := n.Poll()
	require.True(t, ok)
	assert.Equal(t, system.ResizeEvent{Width: 100, Height: 50}, e)

	w.C.OnDispatch = nil
	w.C.DispatchErr = errors.New("broken pipe")
	_, ok = n.Poll()
	assert.False(t, ok, "dispatch errors are not fatal while polling")
}

func TestResizePrecedesQueue(t *testing.T) {
	n, w, _ := newTestNormalizer(wsi.NoInsets)
	w.Queue.Push(keyEvent{'a'})
	w.Queue.Push(keyEvent{'b'})
	w.S.Send(wsi.ConfigureEvent{Width: 10, Height: 20})

	var got []interface{}
	for {
		e, ok := n.Poll()
		if !ok {
			break
		}
		got = append(got, e)
	}
	assert.Equal(t, []interface{}{
		system.ResizeEvent{Width: 10, Height: 20},
		keyEvent{'a'},
		keyEvent{'b'},
	}, got)
}

func TestQueuedResize(t *testing.T) {
	w := wsitest.New(wsi.X11, 320, 240)
	rec := new(surfaceRecorder)
	n := newNormalizer(w, wsi.NoInsets, rec.resize)
	var calls [][2]int
	n.SetResizeCallback(func(width, height int) {
		calls = append(calls, [2]int{width, height})
	})
	w.Queue.Push(system.ResizeEvent{Width: 800, Height: 600})
	w.Queue.Push(keyEvent{'a'})
	w.Queue.Push(system.ResizeEvent{})

	for i := 0; i < 3; i++ {
		_, ok := n.Poll()
		require.True(t, ok)
	}
	assert.Equal(t, [][2]int{{800, 600}}, rec.sizes)
	assert.Equal(t, [][2]int{{800, 600}}, calls)
	width, height := n.InnerSize()
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)
}

func TestResizeCallbackReenters(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.NoInsets)
	n.SetResizeCallback(func(width, height int) {
		n.SetInnerSize(width/2, height/2)
		_, ok := n.Poll()
		assert.False(t, ok)
	})
	w.S.Send(wsi.ConfigureEvent{Width: 200, Height: 100})
	_, ok := n.Poll()
	require.True(t, ok)
	assert.Equal(t, [][2]int{{200, 100}, {100, 50}}, rec.sizes)
}

func TestReleaseStopsResizing(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.NoInsets)
	called := false
	n.SetResizeCallback(func(int, int) { called = true })
	n.release()

	w.S.Send(wsi.ConfigureEvent{Width: 300, Height: 200})
	e, ok := n.Poll()
	require.True(t, ok)
	assert.Equal(t, system.ResizeEvent{Width: 300, Height: 200}, e)
	n.SetInnerSize(50, 50)

	assert.Empty(t, rec.sizes)
	assert.Empty(t, w.S.Resizes())
	assert.False(t, called)
	width, height := n.InnerSize()
	assert.Equal(t, 50, width)
	assert.Equal(t, 50, height)
}

func TestPingAndUnknownEvents(t *testing.T) {
	n, w, rec := newTestNormalizer(wsi.NoInsets)
	w.S.Send(wsi.PingEvent{Serial: 7}, struct{ name string }{"xdg_toplevel.close"}, wsi.PingEvent{Serial: 8})
	_, ok := n.Poll()
	assert.False(t, ok)
	assert.Equal(t, []uint32{7, 8}, w.S.Pongs())
	assert.Empty(t, rec.sizes)
}

func TestWaitReads(t *testing.T) {
	n, w, _ := newTestNormalizer(wsi.NoInsets)
	w.C.OnRead = func() {
		w.S.Send(wsi.ConfigureEvent{Width: 640, Height: 480})
	}
	e := n.Wait()
	assert.Equal(t, system.ResizeEvent{Width: 640, Height: 480}, e)
	assert.Equal(t, 1, w.C.Flushes)
	assert.Equal(t, 1, w.C.Reads)
	assert.Equal(t, 1, w.C.Dispatches)

	w.Queue.Push(keyEvent{'q'})
	assert.Equal(t, keyEvent{'q'}, n.Wait())
	assert.Equal(t, 1, w.C.Reads, "queued events are returned without reading")
}

func TestWaitConnectionLost(t *testing.T) {
	for _, tc := range []struct {
		name string
		set  func(c *wsitest.Conn, err error)
	}{
		{"flush", func(c *wsitest.Conn, err error) { c.FlushErr = err }},
		{"read", func(c *wsitest.Conn, err error) { c.ReadErr = err }},
		{"dispatch", func(c *wsitest.Conn, err error) { c.DispatchErr = err }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n, w, _ := newTestNormalizer(wsi.NoInsets)
			cause := errors.New("connection reset by peer")
			tc.set(w.C, cause)
			err := catchPanic(func() { n.Wait() })
			var lost *ConnectionLostError
			require.ErrorAs(t, err, &lost)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), "connection with the display server lost")
		})
	}
}

func catchPanic(f func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = v.(error)
		}
	}()
	f()
	return nil
}

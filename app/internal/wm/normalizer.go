// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"sync"

	"glwin.dev/app/internal/log"
	"glwin.dev/io/event"
	"glwin.dev/io/system"
	"glwin.dev/wsi"
)

// normalizer translates the native events of a window to portable
// events.
type normalizer struct {
	backend wsi.Backend
	conn    wsi.Conn
	shell   wsi.Shell
	queue   *wsi.Queue
	insets  wsi.InsetFunc
	// resize applies a new client area size to the backend surface.
	resize func(width, height int)

	// mu serializes translation.
	mu       sync.Mutex
	released bool

	// sizeMu guards the fields below.
	sizeMu             sync.Mutex
	pending            bool
	pendingW, pendingH int
	width, height      int
	onResize           func(width, height int)
}

func newNormalizer(w wsi.Window, insets wsi.InsetFunc, resize func(width, height int)) *normalizer {
	q := w.Events()
	if q == nil {
		q = new(wsi.Queue)
	}
	n := &normalizer{
		backend: w.Backend(),
		conn:    w.Conn(),
		shell:   w.Shell(),
		queue:   q,
		insets:  insets,
		resize:  resize,
	}
	n.width, n.height = clamp(w.InnerSize())
	return n
}

// Poll returns the next event. If none is ready, it dispatches the
// events already read from the connection and tries once more.
func (n *normalizer) Poll() (event.Event, bool) {
	if e, ok := n.next(); ok {
		return e, true
	}
	if err := n.conn.Dispatch(); err != nil {
		log.L().Warn("dispatch failed", "backend", n.backend, "error", err)
		return nil, false
	}
	return n.next()
}

// Wait blocks until an event is available.
func (n *normalizer) Wait() event.Event {
	for {
		if e, ok := n.next(); ok {
			return e
		}
		if err := n.conn.Flush(); err != nil {
			n.lost(err)
		}
		if err := n.conn.Read(); err != nil {
			n.lost(err)
		}
		if err := n.conn.Dispatch(); err != nil {
			n.lost(err)
		}
	}
}

func (n *normalizer) lost(err error) {
	log.L().Error("connection with the display server lost", "backend", n.backend, "error", err)
	panic(&ConnectionLostError{Err: err})
}

// next returns the next event and runs the resize callback, if any,
// once translation is done.
func (n *normalizer) next() (event.Event, bool) {
	e, ok, notify := n.translate()
	if notify != nil {
		notify()
	}
	return e, ok
}

// translate handles the pending shell events. A settled resize takes
// precedence over the queue. Resize events pushed by the toolkit are
// applied before they are returned.
func (n *normalizer) translate() (event.Event, bool, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.shell != nil {
		for _, e := range n.shell.Events() {
			switch e := e.(type) {
			case wsi.PingEvent:
				n.shell.Pong(e.Serial)
			case wsi.ConfigureEvent:
				if e.Width > 0 && e.Height > 0 {
					n.sizeMu.Lock()
					n.pending = true
					n.pendingW, n.pendingH = int(e.Width), int(e.Height)
					n.sizeMu.Unlock()
				}
			}
		}
	}
	n.sizeMu.Lock()
	pending, w, h := n.pending, n.pendingW, n.pendingH
	n.pending = false
	n.sizeMu.Unlock()
	if pending {
		return system.ResizeEvent{Width: uint32(w), Height: uint32(h)}, true, n.resizeTo(w, h)
	}
	e, ok := n.queue.Pop()
	if r, isResize := e.(system.ResizeEvent); ok && isResize && r.Width > 0 && r.Height > 0 {
		return e, true, n.resizeTo(int(r.Width), int(r.Height))
	}
	return e, ok, nil
}

// resizeTo applies the client area left by the insets of a window of
// the given size. It returns the resize callback to run.
func (n *normalizer) resizeTo(width, height int) func() {
	iw, ih := n.insets(width, height).Shrink(width, height)
	fn := n.apply(iw, ih)
	if fn == nil {
		return nil
	}
	return func() { fn(iw, ih) }
}

// SetInnerSize applies a client area size chosen by the caller.
func (n *normalizer) SetInnerSize(width, height int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.apply(clamp(width, height))
}

// apply records the client area size and resizes the decorations and
// the surface. Released windows only record it. The caller holds mu.
func (n *normalizer) apply(width, height int) func(width, height int) {
	n.sizeMu.Lock()
	n.width, n.height = width, height
	fn := n.onResize
	n.sizeMu.Unlock()
	if n.released {
		return nil
	}
	if n.shell != nil {
		n.shell.Resize(width, height)
	}
	n.resize(width, height)
	log.L().Debug("surface resized", "backend", n.backend, "width", width, "height", height)
	return fn
}

// release stops resizing the backend surface.
func (n *normalizer) release() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.released = true
}

func (n *normalizer) InnerSize() (int, int) {
	n.sizeMu.Lock()
	defer n.sizeMu.Unlock()
	return n.width, n.height
}

func (n *normalizer) SetResizeCallback(fn func(width, height int)) {
	n.sizeMu.Lock()
	defer n.sizeMu.Unlock()
	n.onResize = fn
}

func clamp(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

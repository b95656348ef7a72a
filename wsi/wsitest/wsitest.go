// SPDX-License-Identifier: Unlicense OR MIT

// Package wsitest provides an in-memory toolkit window for tests.
package wsitest

import (
	"sync"

	"glwin.dev/wsi"
)

// Conn is a fake display connection.
type Conn struct {
	mu sync.Mutex
	// OnDispatch and OnRead, if set, run during Dispatch and Read,
	// typically to deliver events.
	OnDispatch func()
	OnRead     func()
	// DispatchErr, FlushErr and ReadErr make the respective calls
	// fail.
	DispatchErr error
	FlushErr    error
	ReadErr     error

	Dispatches, Flushes, Reads int
}

func (c *Conn) Dispatch() error {
	c.mu.Lock()
	c.Dispatches++
	fn, err := c.OnDispatch, c.DispatchErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Flushes++
	return c.FlushErr
}

func (c *Conn) Read() error {
	c.mu.Lock()
	c.Reads++
	fn, err := c.OnRead, c.ReadErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if fn != nil {
		fn()
	}
	return nil
}

// Shell is a fake shell protocol.
type Shell struct {
	mu      sync.Mutex
	events  []wsi.NativeEvent
	pongs   []uint32
	resizes [][2]int
}

// Send queues native events for the next Events call.
func (s *Shell) Send(events ...wsi.NativeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

func (s *Shell) Events() []wsi.NativeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events
	s.events = nil
	return e
}

func (s *Shell) Pong(serial uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pongs = append(s.pongs, serial)
}

func (s *Shell) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizes = append(s.resizes, [2]int{width, height})
}

// Pongs returns the answered ping serials.
func (s *Shell) Pongs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint32(nil), s.pongs...)
}

// Resizes returns the client area sizes the decorations were laid
// out for.
func (s *Shell) Resizes() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]int(nil), s.resizes...)
}

// Window is a fake toolkit window. It implements every window
// interface of wsi; Kind selects the backend it reports.
type Window struct {
	Kind          wsi.Backend
	Width, Height int
	// Display is the native display pointer.
	Display uintptr
	// Handle is the X window id, wl_surface* or ANativeWindow*.
	Handle uintptr
	// Decorate makes a Wayland window draw client side decorations.
	Decorate bool

	C *Conn
	// S is the shell protocol, or nil.
	S     *Shell
	Queue wsi.Queue
}

var (
	_ wsi.X11Window     = (*Window)(nil)
	_ wsi.WaylandWindow = (*Window)(nil)
	_ wsi.AndroidWindow = (*Window)(nil)
)

// New returns a window of the given backend with a connection and,
// for Wayland, a shell.
func New(kind wsi.Backend, width, height int) *Window {
	w := &Window{
		Kind:    kind,
		Width:   width,
		Height:  height,
		Display: 0x10,
		Handle:  0x20,
		C:       new(Conn),
	}
	if kind == wsi.Wayland {
		w.S = new(Shell)
	}
	return w
}

func (w *Window) Backend() wsi.Backend { return w.Kind }

func (w *Window) InnerSize() (int, int) { return w.Width, w.Height }

func (w *Window) Conn() wsi.Conn {
	if w.C == nil {
		return nil
	}
	return w.C
}

func (w *Window) Shell() wsi.Shell {
	if w.S == nil {
		return nil
	}
	return w.S
}

func (w *Window) Events() *wsi.Queue { return &w.Queue }

func (w *Window) XDisplay() uintptr { return w.Display }

func (w *Window) XWindow() uintptr { return w.Handle }

func (w *Window) WLDisplay() uintptr { return w.Display }

func (w *Window) NewSurface() (uintptr, bool) {
	if w.S == nil {
		return 0, false
	}
	return w.Handle, true
}

func (w *Window) Decorated() bool { return w.Decorate }

func (w *Window) ANativeWindow() uintptr { return w.Handle }

// WaylandEGL is a fake libwayland-egl.
type WaylandEGL struct {
	mu      sync.Mutex
	next    uintptr
	Windows map[uintptr]*EGLWindow
}

// EGLWindow records a wl_egl_window.
type EGLWindow struct {
	Surface       uintptr
	Width, Height int
	Resizes       int
	Destroyed     bool
}

func (l *WaylandEGL) Create(surface uintptr, width, height int) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Windows == nil {
		l.Windows = make(map[uintptr]*EGLWindow)
	}
	l.next++
	win := 0x5000 + l.next
	l.Windows[win] = &EGLWindow{Surface: surface, Width: width, Height: height}
	return win, nil
}

func (l *WaylandEGL) Resize(win uintptr, width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.Windows[win]; ok {
		w.Width, w.Height = width, height
		w.Resizes++
	}
}

func (l *WaylandEGL) Destroy(win uintptr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.Windows[win]; ok {
		w.Destroyed = true
	}
}

// Window returns the single window created, or nil.
func (l *WaylandEGL) Window() *EGLWindow {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.Windows {
		return w
	}
	return nil
}

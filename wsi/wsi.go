// SPDX-License-Identifier: Unlicense OR MIT

/*
Package wsi defines the window system interface a windowing toolkit
implements to have OpenGL contexts bound to its windows.

A toolkit creates and sizes its own windows. It hands them over as
one of X11Window, WaylandWindow or AndroidWindow, exposes the
connection to the display server as a Conn and, where the backend
has a shell protocol, the decoded shell events as a Shell.

Events the toolkit has already translated to the portable vocabulary
are pushed to the window's Queue and delivered in order.
*/
package wsi

import (
	"glwin.dev/io/system"
)

// Backend identifies the windowing system that produced a Window.
type Backend uint8

const (
	X11 Backend = iota + 1
	Wayland
	Android
)

func (b Backend) String() string {
	switch b {
	case X11:
		return "x11"
	case Wayland:
		return "wayland"
	case Android:
		return "android"
	default:
		return "unknown"
	}
}

// Window is a native window created by a toolkit.
type Window interface {
	// Backend reports the windowing system that created the window.
	// It must not change over the lifetime of the window.
	Backend() Backend
	// InnerSize returns the current size of the client area.
	InnerSize() (width, height int)
	// Conn returns the connection the window's events arrive on.
	Conn() Conn
	// Shell returns the shell protocol of the window, or nil.
	Shell() Shell
	// Events returns the queue of translated events.
	Events() *Queue
}

// X11Window is a window of an Xlib display connection.
type X11Window interface {
	Window
	// XDisplay returns the Display* of the connection.
	XDisplay() uintptr
	// XWindow returns the X window id.
	XWindow() uintptr
}

// WaylandWindow is a window of a Wayland display connection.
type WaylandWindow interface {
	Window
	// WLDisplay returns the wl_display*.
	WLDisplay() uintptr
	// NewSurface returns the wl_surface* to render into. It reports
	// false if the compositor has no shell protocol the surface can
	// be mapped with.
	NewSurface() (uintptr, bool)
	// Decorated reports whether the toolkit draws client side
	// decorations around the surface.
	Decorated() bool
}

// AndroidWindow is an activity window.
type AndroidWindow interface {
	Window
	// ANativeWindow returns the ANativeWindow*, or 0 if the activity
	// has no window yet.
	ANativeWindow() uintptr
}

// Conn is a connection to a display server.
type Conn interface {
	// Dispatch runs the handlers for every event already read from
	// the connection. It does not block.
	Dispatch() error
	// Flush writes buffered requests to the server.
	Flush() error
	// Read blocks until events have been read from the connection.
	Read() error
}

// Shell is the shell protocol of a window.
type Shell interface {
	// Events drains the shell events decoded since the last call.
	Events() []NativeEvent
	// Pong answers a ping from the compositor.
	Pong(serial uint32)
	// Resize lays the decorations out around a client area of the
	// given size.
	Resize(width, height int)
}

// NativeEvent is a decoded shell event. Events of unknown types are
// ignored.
type NativeEvent interface{}

// PingEvent is a liveness check that must be answered with Pong.
type PingEvent struct {
	Serial uint32
}

// ConfigureEvent asks the client to resize the window, decorations
// included. Non-positive dimensions leave the choice to the client.
type ConfigureEvent struct {
	Width, Height int32
}

// InsetFunc computes the decoration insets of a window of the given
// outer size.
type InsetFunc func(width, height int) system.Insets

// Decoration geometry of client side decorations.
const (
	DecorationBorder = 8
	DecorationTitle  = 24
)

// DecorationInsets returns the insets of client side decorations
// with a DecorationBorder pixels border and a DecorationTitle pixels
// title bar.
func DecorationInsets(width, height int) system.Insets {
	return system.Insets{
		Top:    DecorationTitle,
		Bottom: DecorationBorder,
		Left:   DecorationBorder,
		Right:  DecorationBorder,
	}
}

// NoInsets is the InsetFunc of undecorated windows and windows
// decorated by the server.
func NoInsets(width, height int) system.Insets {
	return system.Insets{}
}

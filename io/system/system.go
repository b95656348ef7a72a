// SPDX-License-Identifier: Unlicense OR MIT

// Package system contains window level events.
package system

// A ResizeEvent is generated when a window settles on a new size.
// Width and Height are the size reported by the window system,
// including decorations drawn by the backend. The rendering surface
// has already been resized to the client area when the event is
// delivered.
type ResizeEvent struct {
	Width, Height uint32
}

// Insets is the space in pixels taken up by window decorations
// drawn by the windowing backend itself.
type Insets struct {
	Top, Bottom, Left, Right int
}

// Shrink returns the size left for the client area of a window of
// the given outer size. Both dimensions are clamped to at least 1.
func (i Insets) Shrink(width, height int) (int, int) {
	w := width - i.Left - i.Right
	h := height - i.Top - i.Bottom
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (ResizeEvent) ImplementsEvent() {}

// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app binds OpenGL and OpenGL ES contexts to windows created by
a windowing toolkit on X11, Wayland and Android.

# Windows

The toolkit creates and sizes its windows and hands each one over as
a wsi.Window. NewWindow negotiates an EGL context for it on the
window's own display:

	w, err := app.NewWindow(toolkitWindow,
		app.GL(app.GLAttributes{Version: app.Latest, VSync: true}),
	)
	if err != nil {
		...
	}
	defer w.Release()
	runtime.LockOSThread()
	if err := w.MakeCurrent(); err != nil {
		...
	}
	for it := w.WaitEvents(); it.Next(); {
		switch e := it.Event().(type) {
		case system.ResizeEvent:
			...
		}
		// Draw.
		if err := w.SwapBuffers(); err != nil {
			...
		}
	}

The rendering surface is resized before a system.ResizeEvent is
delivered, so the next frame is drawn at the new size. Events of
types a program does not know must be ignored.

# Threads

A context is current on a single OS thread. Callers must lock the
thread with runtime.LockOSThread before MakeCurrent and keep it
locked while the context is in use. Nothing in this package enforces
it.

# Headless contexts

A HeadlessContext renders into an off-screen pixel buffer on the
default display and needs no window.
*/
package app

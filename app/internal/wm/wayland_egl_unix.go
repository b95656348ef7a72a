// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux || freebsd) && !android

package wm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

type libWaylandEGL struct {
	create  func(surface uintptr, width, height int32) uintptr
	resize  func(win uintptr, width, height, dx, dy int32)
	destroy func(win uintptr)
}

var wlegl struct {
	once sync.Once
	lib  *libWaylandEGL
	err  error
}

// LoadWaylandEGL opens libwayland-egl.
func LoadWaylandEGL() (WaylandEGL, error) {
	wlegl.once.Do(func() {
		h, err := purego.Dlopen("libwayland-egl.so.1", purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			wlegl.err = fmt.Errorf("wayland: %w", err)
			return
		}
		l := new(libWaylandEGL)
		procs := map[string]interface{}{
			"wl_egl_window_create":  &l.create,
			"wl_egl_window_resize":  &l.resize,
			"wl_egl_window_destroy": &l.destroy,
		}
		for sym, fptr := range procs {
			if _, err := purego.Dlsym(h, sym); err != nil {
				wlegl.err = fmt.Errorf("wayland: failed to locate %s: %w", sym, err)
				return
			}
			purego.RegisterLibFunc(fptr, h, sym)
		}
		wlegl.lib = l
	})
	if wlegl.err != nil {
		return nil, wlegl.err
	}
	return wlegl.lib, nil
}

func (l *libWaylandEGL) Create(surface uintptr, width, height int) (uintptr, error) {
	win := l.create(surface, int32(width), int32(height))
	if win == 0 {
		return 0, errors.New("wayland: wl_egl_window_create failed")
	}
	return win, nil
}

func (l *libWaylandEGL) Resize(win uintptr, width, height int) {
	l.resize(win, int32(width), int32(height), 0, 0)
}

func (l *libWaylandEGL) Destroy(win uintptr) {
	l.destroy(win)
}

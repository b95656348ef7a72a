// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"glwin.dev/app/internal/egl"
	"glwin.dev/wsi"
)

// AndroidWindow is a context bound to the native window of an
// activity.
type AndroidWindow struct {
	window
}

// NewAndroidWindow binds a context to w on the default display.
func NewAndroidWindow(w wsi.Window, cfg Config) (*AndroidWindow, error) {
	aw, ok := w.(wsi.AndroidWindow)
	if !ok || w.Backend() != wsi.Android {
		return nil, egl.ErrNotSupported
	}
	native := aw.ANativeWindow()
	if native == 0 {
		return nil, &egl.OSError{Msg: "Android's native window is null"}
	}
	if w.Conn() == nil {
		return nil, errNoConn
	}
	ctx, err := newContext(cfg, egl.NativeDisplay{Platform: egl.PlatformAndroid}, native)
	if err != nil {
		return nil, err
	}
	a := new(AndroidWindow)
	a.ctx = ctx
	a.norm = newNormalizer(w, insetsFor(cfg, wsi.NoInsets), ctx.Surface().Resize)
	ctx.Surface().Resize(a.norm.InnerSize())
	return a, nil
}

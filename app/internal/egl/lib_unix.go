// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package egl

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

// libEGL binds the EGL entry points of a shared library.
type libEGL struct {
	getDisplay           func(native uintptr) EGLDisplay
	initialize           func(disp EGLDisplay, major, minor *EGLint) uint32
	terminate            func(disp EGLDisplay) uint32
	queryString          func(disp EGLDisplay, name EGLint) string
	bindAPI              func(api EGLint) uint32
	getConfigs           func(disp EGLDisplay, configs *EGLConfig, size EGLint, num *EGLint) uint32
	getConfigAttrib      func(disp EGLDisplay, cfg EGLConfig, attr EGLint, value *EGLint) uint32
	createContext        func(disp EGLDisplay, cfg EGLConfig, share EGLContext, attribs *EGLint) EGLContext
	destroyContext       func(disp EGLDisplay, ctx EGLContext) uint32
	createWindowSurface  func(disp EGLDisplay, cfg EGLConfig, win uintptr, attribs *EGLint) EGLSurface
	createPbufferSurface func(disp EGLDisplay, cfg EGLConfig, attribs *EGLint) EGLSurface
	destroySurface       func(disp EGLDisplay, surf EGLSurface) uint32
	makeCurrent          func(disp EGLDisplay, draw, read EGLSurface, ctx EGLContext) uint32
	swapBuffers          func(disp EGLDisplay, surf EGLSurface) uint32
	swapInterval         func(disp EGLDisplay, interval EGLint) uint32
	getCurrentContext    func() EGLContext
	getProcAddress       func(name string) uintptr
	getError             func() EGLint
	releaseThread        func() uint32
}

var libs struct {
	mu sync.Mutex
	m  map[string]*libEGL
}

func defaultLibraries() []string {
	if runtime.GOOS == "android" {
		return []string{"libEGL.so"}
	}
	return []string{"libEGL.so.1", "libEGL.so"}
}

// Load opens the named EGL library, or the system library if name
// is empty. Libraries are opened once and never closed.
func Load(name string) (Lib, error) {
	libs.mu.Lock()
	defer libs.mu.Unlock()
	if l, ok := libs.m[name]; ok {
		return l, nil
	}
	names := []string{name}
	if name == "" {
		names = defaultLibraries()
	}
	var errFirst error
	for _, n := range names {
		l, err := openLib(n)
		if err == nil {
			if libs.m == nil {
				libs.m = make(map[string]*libEGL)
			}
			libs.m[name] = l
			return l, nil
		}
		if errFirst == nil {
			errFirst = err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrNotSupported, errFirst)
}

func openLib(name string) (*libEGL, error) {
	h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	l := new(libEGL)
	procs := map[string]interface{}{
		"eglGetDisplay":           &l.getDisplay,
		"eglInitialize":           &l.initialize,
		"eglTerminate":            &l.terminate,
		"eglQueryString":          &l.queryString,
		"eglBindAPI":              &l.bindAPI,
		"eglGetConfigs":           &l.getConfigs,
		"eglGetConfigAttrib":      &l.getConfigAttrib,
		"eglCreateContext":        &l.createContext,
		"eglDestroyContext":       &l.destroyContext,
		"eglCreateWindowSurface":  &l.createWindowSurface,
		"eglCreatePbufferSurface": &l.createPbufferSurface,
		"eglDestroySurface":       &l.destroySurface,
		"eglMakeCurrent":          &l.makeCurrent,
		"eglSwapBuffers":          &l.swapBuffers,
		"eglSwapInterval":         &l.swapInterval,
		"eglGetCurrentContext":    &l.getCurrentContext,
		"eglGetProcAddress":       &l.getProcAddress,
		"eglGetError":             &l.getError,
		"eglReleaseThread":        &l.releaseThread,
	}
	for sym, fptr := range procs {
		if _, err := purego.Dlsym(h, sym); err != nil {
			return nil, fmt.Errorf("failed to locate %s in %s: %w", sym, name, err)
		}
		purego.RegisterLibFunc(fptr, h, sym)
	}
	return l, nil
}

func (l *libEGL) GetDisplay(native uintptr) EGLDisplay {
	return l.getDisplay(native)
}

func (l *libEGL) Initialize(disp EGLDisplay) (EGLint, EGLint, bool) {
	var major, minor EGLint
	ok := l.initialize(disp, &major, &minor) == _EGL_TRUE
	return major, minor, ok
}

func (l *libEGL) Terminate(disp EGLDisplay) bool {
	return l.terminate(disp) == _EGL_TRUE
}

func (l *libEGL) QueryString(disp EGLDisplay, name EGLint) string {
	return l.queryString(disp, name)
}

func (l *libEGL) BindAPI(api EGLint) bool {
	return l.bindAPI(api) == _EGL_TRUE
}

func (l *libEGL) GetConfigs(disp EGLDisplay) ([]EGLConfig, bool) {
	var n EGLint
	if l.getConfigs(disp, nil, 0, &n) != _EGL_TRUE {
		return nil, false
	}
	if n == 0 {
		return nil, true
	}
	configs := make([]EGLConfig, n)
	if l.getConfigs(disp, &configs[0], n, &n) != _EGL_TRUE {
		return nil, false
	}
	return configs[:n], true
}

func (l *libEGL) GetConfigAttrib(disp EGLDisplay, cfg EGLConfig, attr EGLint) (EGLint, bool) {
	var v EGLint
	ok := l.getConfigAttrib(disp, cfg, attr, &v) == _EGL_TRUE
	return v, ok
}

func (l *libEGL) CreateContext(disp EGLDisplay, cfg EGLConfig, share EGLContext, attribs []EGLint) EGLContext {
	ctx := l.createContext(disp, cfg, share, &attribs[0])
	runtime.KeepAlive(attribs)
	return ctx
}

func (l *libEGL) DestroyContext(disp EGLDisplay, ctx EGLContext) bool {
	return l.destroyContext(disp, ctx) == _EGL_TRUE
}

func (l *libEGL) CreateWindowSurface(disp EGLDisplay, cfg EGLConfig, win uintptr, attribs []EGLint) EGLSurface {
	surf := l.createWindowSurface(disp, cfg, win, &attribs[0])
	runtime.KeepAlive(attribs)
	return surf
}

func (l *libEGL) CreatePbufferSurface(disp EGLDisplay, cfg EGLConfig, attribs []EGLint) EGLSurface {
	surf := l.createPbufferSurface(disp, cfg, &attribs[0])
	runtime.KeepAlive(attribs)
	return surf
}

func (l *libEGL) DestroySurface(disp EGLDisplay, surf EGLSurface) bool {
	return l.destroySurface(disp, surf) == _EGL_TRUE
}

func (l *libEGL) MakeCurrent(disp EGLDisplay, draw, read EGLSurface, ctx EGLContext) bool {
	return l.makeCurrent(disp, draw, read, ctx) == _EGL_TRUE
}

func (l *libEGL) SwapBuffers(disp EGLDisplay, surf EGLSurface) bool {
	return l.swapBuffers(disp, surf) == _EGL_TRUE
}

func (l *libEGL) SwapInterval(disp EGLDisplay, interval EGLint) bool {
	return l.swapInterval(disp, interval) == _EGL_TRUE
}

func (l *libEGL) GetCurrentContext() EGLContext {
	return l.getCurrentContext()
}

func (l *libEGL) GetProcAddress(name string) uintptr {
	return l.getProcAddress(name)
}

func (l *libEGL) GetError() EGLint {
	return l.getError()
}

func (l *libEGL) ReleaseThread() bool {
	return l.releaseThread() == _EGL_TRUE
}

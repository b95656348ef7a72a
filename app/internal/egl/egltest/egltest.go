// SPDX-License-Identifier: Unlicense OR MIT

// Package egltest provides an in-memory EGL implementation for
// tests.
package egltest

import (
	"sync"

	"glwin.dev/app/internal/egl"
)

// Config is a config advertised by a fake display.
type Config map[egl.EGLint]egl.EGLint

// NewConfig returns a config from attribute/value pairs.
func NewConfig(attribs ...egl.EGLint) Config {
	c := make(Config)
	for i := 0; i+1 < len(attribs); i += 2 {
		c[attribs[i]] = attribs[i+1]
	}
	return c
}

// RGBA8 returns a hardware accelerated RGBA8 config with 24 bits of
// depth and 8 bits of stencil, usable for windows and pbuffers with
// every API. Extra attribute/value pairs override the defaults.
func RGBA8(overrides ...egl.EGLint) Config {
	c := NewConfig(
		egl.ConfigCaveat, egl.None,
		egl.RenderableType, egl.OpenGLBit|egl.OpenGLES2Bit|egl.OpenGLES3Bit,
		egl.SurfaceType, egl.WindowBit|egl.PbufferBit,
		egl.RedSize, 8,
		egl.GreenSize, 8,
		egl.BlueSize, 8,
		egl.AlphaSize, 8,
		egl.DepthSize, 24,
		egl.StencilSize, 8,
		egl.NativeVisualID, 0x21,
	)
	for k, v := range NewConfig(overrides...) {
		c[k] = v
	}
	return c
}

// Display is a fake native display.
type Display struct {
	// Native is the native display pointer the display is found by.
	Native       uintptr
	Major, Minor egl.EGLint
	Extensions   string
	Configs      []Config
	// MaxGL and MaxGLES are the highest context versions accepted.
	MaxGL, MaxGLES egl.Version
}

// ContextRecord records a created context.
type ContextRecord struct {
	Display   egl.EGLDisplay
	Config    egl.EGLConfig
	Share     egl.EGLContext
	API       egl.EGLint
	Attribs   []egl.EGLint
	Destroyed bool
}

// Attrib returns the value of attr in the context attribute list.
func (r *ContextRecord) Attrib(attr egl.EGLint) (egl.EGLint, bool) {
	return attrib(r.Attribs, attr)
}

// SurfaceRecord records a created surface.
type SurfaceRecord struct {
	Display       egl.EGLDisplay
	Config        egl.EGLConfig
	Window        uintptr
	Pbuffer       bool
	Width, Height int
	Attribs       []egl.EGLint
	Swaps         int
	Destroyed     bool
}

// Lib is a fake egl.Lib. It tracks a single current context for all
// goroutines.
type Lib struct {
	Displays []*Display
	// NoOpenGL and NoOpenGLES make binding the respective API fail.
	NoOpenGL   bool
	NoOpenGLES bool
	Procs      map[string]uintptr

	// MakeCurrentError and SwapError, if non-zero, make the
	// respective calls fail with the error code.
	MakeCurrentError egl.EGLint
	SwapError        egl.EGLint
	// FailInitialize makes eglInitialize fail.
	FailInitialize bool
	// FailWindowSurface makes window surface creation fail.
	FailWindowSurface bool

	mu            sync.Mutex
	err           egl.EGLint
	api           egl.EGLint
	next          uintptr
	current       egl.EGLContext
	lastCtx       egl.EGLContext
	lastSurf      egl.EGLSurface
	initialized   map[egl.EGLDisplay]bool
	Terminated    map[egl.EGLDisplay]int
	Contexts      map[egl.EGLContext]*ContextRecord
	Surfaces      map[egl.EGLSurface]*SurfaceRecord
	SwapIntervals []egl.EGLint
	// ThreadReleases counts eglReleaseThread calls.
	ThreadReleases int
}

var _ egl.Lib = (*Lib)(nil)

// New returns a fake library serving the displays.
func New(displays ...*Display) *Lib {
	return &Lib{
		Displays:    displays,
		api:         egl.OpenGLESAPI,
		initialized: make(map[egl.EGLDisplay]bool),
		Terminated:  make(map[egl.EGLDisplay]int),
		Contexts:    make(map[egl.EGLContext]*ContextRecord),
		Surfaces:    make(map[egl.EGLSurface]*SurfaceRecord),
		Procs:       make(map[string]uintptr),
	}
}

func (l *Lib) display(d egl.EGLDisplay) *Display {
	i := int(d) - 1
	if i < 0 || i >= len(l.Displays) {
		return nil
	}
	return l.Displays[i]
}

func (l *Lib) config(d egl.EGLDisplay, c egl.EGLConfig) Config {
	disp := l.display(d)
	if disp == nil || uintptr(c)>>16 != uintptr(d) {
		return nil
	}
	i := int(c&0xffff) - 1
	if i < 0 || i >= len(disp.Configs) {
		return nil
	}
	return disp.Configs[i]
}

func (l *Lib) handle() uintptr {
	l.next++
	return 0x1000 + l.next
}

func (l *Lib) fail(code egl.EGLint) {
	l.err = code
}

func (l *Lib) GetDisplay(native uintptr) egl.EGLDisplay {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, d := range l.Displays {
		if d.Native == native {
			return egl.EGLDisplay(i + 1)
		}
	}
	return 0
}

func (l *Lib) Initialize(d egl.EGLDisplay) (egl.EGLint, egl.EGLint, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	disp := l.display(d)
	if disp == nil || l.FailInitialize {
		l.fail(egl.CodeBadDisplay)
		return 0, 0, false
	}
	l.initialized[d] = true
	return disp.Major, disp.Minor, true
}

func (l *Lib) Terminate(d egl.EGLDisplay) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.initialized, d)
	l.Terminated[d]++
	return true
}

func (l *Lib) QueryString(d egl.EGLDisplay, name egl.EGLint) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	disp := l.display(d)
	if disp == nil || name != egl.Extensions {
		return ""
	}
	return disp.Extensions
}

func (l *Lib) BindAPI(api egl.EGLint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if api == egl.OpenGLAPI && l.NoOpenGL || api == egl.OpenGLESAPI && l.NoOpenGLES {
		l.fail(_EGL_BAD_PARAMETER)
		return false
	}
	l.api = api
	return true
}

func (l *Lib) GetConfigs(d egl.EGLDisplay) ([]egl.EGLConfig, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	disp := l.display(d)
	if disp == nil || !l.initialized[d] {
		l.fail(_EGL_NOT_INITIALIZED)
		return nil, false
	}
	configs := make([]egl.EGLConfig, len(disp.Configs))
	for i := range disp.Configs {
		configs[i] = egl.EGLConfig(uintptr(d)<<16 | uintptr(i+1))
	}
	return configs, true
}

func (l *Lib) GetConfigAttrib(d egl.EGLDisplay, c egl.EGLConfig, attr egl.EGLint) (egl.EGLint, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cfg := l.config(d, c)
	if cfg == nil {
		l.fail(_EGL_BAD_CONFIG)
		return 0, false
	}
	return cfg[attr], true
}

func (l *Lib) CreateContext(d egl.EGLDisplay, c egl.EGLConfig, share egl.EGLContext, attribs []egl.EGLint) egl.EGLContext {
	l.mu.Lock()
	defer l.mu.Unlock()
	disp := l.display(d)
	if disp == nil || l.config(d, c) == nil {
		l.fail(_EGL_BAD_CONFIG)
		return 0
	}
	if share != 0 {
		s, ok := l.Contexts[share]
		if !ok || s.Destroyed || s.Display != d {
			l.fail(_EGL_BAD_MATCH)
			return 0
		}
	}
	max := disp.MaxGLES
	if l.api == egl.OpenGLAPI {
		max = disp.MaxGL
	}
	if major, ok := attrib(attribs, egl.MajorVersion); ok {
		minor, _ := attrib(attribs, egl.MinorVersion)
		if int(major) > max.Major || int(major) == max.Major && int(minor) > max.Minor {
			l.fail(_EGL_BAD_MATCH)
			return 0
		}
		// ES 3 contexts need configs advertising ES 3 rendering.
		if l.api == egl.OpenGLESAPI && major >= 3 && l.config(d, c)[egl.RenderableType]&egl.OpenGLES3Bit == 0 {
			l.fail(_EGL_BAD_MATCH)
			return 0
		}
	}
	ctx := egl.EGLContext(l.handle())
	l.lastCtx = ctx
	l.Contexts[ctx] = &ContextRecord{
		Display: d,
		Config:  c,
		Share:   share,
		API:     l.api,
		Attribs: append([]egl.EGLint(nil), attribs...),
	}
	return ctx
}

func (l *Lib) DestroyContext(d egl.EGLDisplay, ctx egl.EGLContext) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.Contexts[ctx]
	if !ok {
		l.fail(_EGL_BAD_CONTEXT)
		return false
	}
	r.Destroyed = true
	return true
}

func (l *Lib) CreateWindowSurface(d egl.EGLDisplay, c egl.EGLConfig, win uintptr, attribs []egl.EGLint) egl.EGLSurface {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.config(d, c) == nil {
		l.fail(_EGL_BAD_CONFIG)
		return 0
	}
	if l.FailWindowSurface || win == 0 {
		l.fail(_EGL_BAD_NATIVE_WINDOW)
		return 0
	}
	surf := egl.EGLSurface(l.handle())
	l.lastSurf = surf
	l.Surfaces[surf] = &SurfaceRecord{
		Display: d,
		Config:  c,
		Window:  win,
		Attribs: append([]egl.EGLint(nil), attribs...),
	}
	return surf
}

func (l *Lib) CreatePbufferSurface(d egl.EGLDisplay, c egl.EGLConfig, attribs []egl.EGLint) egl.EGLSurface {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.config(d, c) == nil {
		l.fail(_EGL_BAD_CONFIG)
		return 0
	}
	w, _ := attrib(attribs, egl.Width)
	h, _ := attrib(attribs, egl.Height)
	surf := egl.EGLSurface(l.handle())
	l.lastSurf = surf
	l.Surfaces[surf] = &SurfaceRecord{
		Display: d,
		Config:  c,
		Pbuffer: true,
		Width:   int(w),
		Height:  int(h),
		Attribs: append([]egl.EGLint(nil), attribs...),
	}
	return surf
}

func (l *Lib) DestroySurface(d egl.EGLDisplay, surf egl.EGLSurface) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.Surfaces[surf]
	if !ok {
		l.fail(_EGL_BAD_SURFACE)
		return false
	}
	r.Destroyed = true
	return true
}

func (l *Lib) MakeCurrent(d egl.EGLDisplay, draw, read egl.EGLSurface, ctx egl.EGLContext) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ctx == 0 {
		l.current = 0
		return true
	}
	if l.MakeCurrentError != 0 {
		l.fail(l.MakeCurrentError)
		return false
	}
	r, ok := l.Contexts[ctx]
	if !ok || r.Destroyed {
		l.fail(_EGL_BAD_CONTEXT)
		return false
	}
	l.current = ctx
	return true
}

func (l *Lib) SwapBuffers(d egl.EGLDisplay, surf egl.EGLSurface) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SwapError != 0 {
		l.fail(l.SwapError)
		return false
	}
	r, ok := l.Surfaces[surf]
	if !ok || r.Destroyed {
		l.fail(_EGL_BAD_SURFACE)
		return false
	}
	r.Swaps++
	return true
}

func (l *Lib) SwapInterval(d egl.EGLDisplay, interval egl.EGLint) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.SwapIntervals = append(l.SwapIntervals, interval)
	return true
}

func (l *Lib) GetCurrentContext() egl.EGLContext {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Lib) GetProcAddress(name string) uintptr {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Procs[name]
}

func (l *Lib) GetError() egl.EGLint {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.err
	l.err = 0
	if err == 0 {
		return egl.CodeSuccess
	}
	return err
}

// ReleaseThread unbinds the current context, like eglReleaseThread.
func (l *Lib) ReleaseThread() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = 0
	l.ThreadReleases++
	return true
}

// Live returns the number of contexts that have not been destroyed.
func (l *Lib) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.Contexts {
		if !r.Destroyed {
			n++
		}
	}
	return n
}

// LastContext returns the record of the most recently created
// context.
func (l *Lib) LastContext() *ContextRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Contexts[l.lastCtx]
}

// LastSurface returns the record of the most recently created
// surface.
func (l *Lib) LastSurface() *SurfaceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Surfaces[l.lastSurf]
}

const (
	_EGL_NOT_INITIALIZED   = 0x3001
	_EGL_BAD_CONFIG        = 0x3005
	_EGL_BAD_CONTEXT       = 0x3006
	_EGL_BAD_MATCH         = 0x3009
	_EGL_BAD_NATIVE_WINDOW = 0x300b
	_EGL_BAD_PARAMETER     = 0x300c
	_EGL_BAD_SURFACE       = 0x300d
)

func attrib(attribs []egl.EGLint, attr egl.EGLint) (egl.EGLint, bool) {
	for i := 0; i+1 < len(attribs); i += 2 {
		if attribs[i] == egl.None {
			break
		}
		if attribs[i] == attr {
			return attribs[i+1], true
		}
	}
	return 0, false
}

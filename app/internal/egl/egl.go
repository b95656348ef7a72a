// SPDX-License-Identifier: Unlicense OR MIT

// Package egl negotiates EGL rendering contexts: display
// initialization, config selection, context creation and
// surface binding.
package egl

import (
	"fmt"
	"sync"

	"glwin.dev/app/internal/log"
)

type (
	EGLint     int32
	EGLDisplay uintptr
	EGLConfig  uintptr
	EGLContext uintptr
	EGLSurface uintptr
)

const (
	nilEGLDisplay EGLDisplay = 0
	nilEGLConfig  EGLConfig  = 0
	nilEGLContext EGLContext = 0
	nilEGLSurface EGLSurface = 0
)

const (
	_EGL_SUCCESS                = 0x3000
	_EGL_BAD_DISPLAY            = 0x3008
	_EGL_CONTEXT_LOST           = 0x300e
	_EGL_ALPHA_SIZE             = 0x3021
	_EGL_BLUE_SIZE              = 0x3022
	_EGL_GREEN_SIZE             = 0x3023
	_EGL_RED_SIZE               = 0x3024
	_EGL_DEPTH_SIZE             = 0x3025
	_EGL_STENCIL_SIZE           = 0x3026
	_EGL_CONFIG_CAVEAT          = 0x3027
	_EGL_NATIVE_VISUAL_ID       = 0x302e
	_EGL_SAMPLES                = 0x3031
	_EGL_SURFACE_TYPE           = 0x3033
	_EGL_NONE                   = 0x3038
	_EGL_RENDERABLE_TYPE        = 0x3040
	_EGL_SLOW_CONFIG            = 0x3050
	_EGL_EXTENSIONS             = 0x3055
	_EGL_HEIGHT                 = 0x3056
	_EGL_WIDTH                  = 0x3057
	_EGL_CONTEXT_CLIENT_VERSION = 0x3098
	_EGL_CONTEXT_MAJOR_VERSION  = 0x3098
	_EGL_OPENGL_ES_API          = 0x30a0
	_EGL_OPENGL_API             = 0x30a2
	_EGL_CONTEXT_MINOR_VERSION  = 0x30fb
	_EGL_CONTEXT_FLAGS_KHR      = 0x30fc
	_EGL_CONTEXT_OPENGL_PROFILE = 0x30fd
	_EGL_GL_COLORSPACE_KHR      = 0x309d
	_EGL_GL_COLORSPACE_SRGB_KHR = 0x3089
	_EGL_COLOR_COMPONENT_TYPE   = 0x3339
	_EGL_COLOR_COMPONENT_FLOAT  = 0x333b
	_EGL_CONTEXT_OPENGL_DEBUG   = 0x31b0
	_EGL_CONTEXT_ROBUST_ACCESS  = 0x31b2
	_EGL_CONTEXT_NO_ERROR_KHR   = 0x31b3
	_EGL_CONTEXT_RESET_STRATEGY = 0x31bd
	_EGL_NO_RESET_NOTIFICATION  = 0x31be
	_EGL_LOSE_CONTEXT_ON_RESET  = 0x31bf
	_EGL_ROBUST_ACCESS_EXT      = 0x30bf
	_EGL_RESET_STRATEGY_EXT     = 0x3138
	_EGL_CONTEXT_DEBUG_BIT_KHR  = 0x1
	_EGL_CONTEXT_CORE_BIT       = 0x1
	_EGL_CONTEXT_COMPAT_BIT     = 0x2
	_EGL_PBUFFER_BIT            = 0x1
	_EGL_WINDOW_BIT             = 0x4
	_EGL_OPENGL_ES2_BIT         = 0x4
	_EGL_OPENGL_BIT             = 0x8
	_EGL_OPENGL_ES3_BIT         = 0x40
	_EGL_TRUE                   = 1
)

// Attribute names and values for Lib implementations outside
// this package.
const (
	ConfigCaveat        = _EGL_CONFIG_CAVEAT
	RenderableType      = _EGL_RENDERABLE_TYPE
	SurfaceType         = _EGL_SURFACE_TYPE
	RedSize             = _EGL_RED_SIZE
	GreenSize           = _EGL_GREEN_SIZE
	BlueSize            = _EGL_BLUE_SIZE
	AlphaSize           = _EGL_ALPHA_SIZE
	DepthSize           = _EGL_DEPTH_SIZE
	StencilSize         = _EGL_STENCIL_SIZE
	Samples             = _EGL_SAMPLES
	NativeVisualID      = _EGL_NATIVE_VISUAL_ID
	ColorComponentType  = _EGL_COLOR_COMPONENT_TYPE
	ColorComponentFloat = _EGL_COLOR_COMPONENT_FLOAT
	SlowConfig          = _EGL_SLOW_CONFIG
	WindowBit           = _EGL_WINDOW_BIT
	PbufferBit          = _EGL_PBUFFER_BIT
	OpenGLBit           = _EGL_OPENGL_BIT
	OpenGLES2Bit        = _EGL_OPENGL_ES2_BIT
	OpenGLES3Bit        = _EGL_OPENGL_ES3_BIT
	OpenGLAPI           = _EGL_OPENGL_API
	OpenGLESAPI         = _EGL_OPENGL_ES_API
	Extensions          = _EGL_EXTENSIONS
	Width               = _EGL_WIDTH
	Height              = _EGL_HEIGHT
	MajorVersion        = _EGL_CONTEXT_MAJOR_VERSION
	MinorVersion        = _EGL_CONTEXT_MINOR_VERSION
	CodeContextLost     = _EGL_CONTEXT_LOST
	CodeBadDisplay      = _EGL_BAD_DISPLAY
	CodeSuccess         = _EGL_SUCCESS
	None                = _EGL_NONE
)

// Lib is the set of EGL entry points used by the negotiator.
// Attribute lists are terminated by EGL_NONE.
type Lib interface {
	GetDisplay(native uintptr) EGLDisplay
	Initialize(disp EGLDisplay) (major, minor EGLint, ok bool)
	Terminate(disp EGLDisplay) bool
	QueryString(disp EGLDisplay, name EGLint) string
	BindAPI(api EGLint) bool
	GetConfigs(disp EGLDisplay) ([]EGLConfig, bool)
	GetConfigAttrib(disp EGLDisplay, cfg EGLConfig, attr EGLint) (EGLint, bool)
	CreateContext(disp EGLDisplay, cfg EGLConfig, share EGLContext, attribs []EGLint) EGLContext
	DestroyContext(disp EGLDisplay, ctx EGLContext) bool
	CreateWindowSurface(disp EGLDisplay, cfg EGLConfig, win uintptr, attribs []EGLint) EGLSurface
	CreatePbufferSurface(disp EGLDisplay, cfg EGLConfig, attribs []EGLint) EGLSurface
	DestroySurface(disp EGLDisplay, surf EGLSurface) bool
	MakeCurrent(disp EGLDisplay, draw, read EGLSurface, ctx EGLContext) bool
	SwapBuffers(disp EGLDisplay, surf EGLSurface) bool
	SwapInterval(disp EGLDisplay, interval EGLint) bool
	GetCurrentContext() EGLContext
	GetProcAddress(name string) uintptr
	GetError() EGLint
	ReleaseThread() bool
}

// Platform identifies the windowing system a native display
// belongs to.
type Platform uint8

const (
	PlatformDefault Platform = iota
	PlatformX11
	PlatformWayland
	PlatformAndroid
)

func (p Platform) String() string {
	switch p {
	case PlatformX11:
		return "x11"
	case PlatformWayland:
		return "wayland"
	case PlatformAndroid:
		return "android"
	default:
		return "default"
	}
}

// NativeDisplay is a native display handle. A zero Ptr selects
// EGL_DEFAULT_DISPLAY.
type NativeDisplay struct {
	Platform Platform
	Ptr      uintptr
}

// SurfaceKind distinguishes on-screen from off-screen surfaces.
type SurfaceKind uint8

const (
	WindowSurface SurfaceKind = iota
	PbufferSurface
)

func (k SurfaceKind) String() string {
	if k == PbufferSurface {
		return "pbuffer"
	}
	return "window"
}

// Surface is the render target of a Context. Window surfaces live
// as long as their native window; pbuffer surfaces as long as the
// Context.
type Surface struct {
	kind   SurfaceKind
	handle EGLSurface
	native uintptr

	mu            sync.Mutex
	width, height int
}

// Kind reports whether the surface is window-backed or a pbuffer.
func (s *Surface) Kind() SurfaceKind {
	return s.kind
}

// Native returns the native window the surface wraps, or 0 for
// pbuffers.
func (s *Surface) Native() uintptr {
	return s.native
}

// Size returns the last known size of the surface.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize records a new size for the surface. The native window
// must already have been resized by its backend.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Context is an EGL context bound to a Surface.
//
// Making a Context current binds it to the calling OS thread;
// callers must serialize MakeCurrent per thread and keep the
// goroutine locked to its thread while the context is current.
type Context struct {
	config *Config
	ctx    EGLContext
	surf   *Surface

	swapIntervalSet bool
}

// Surface returns the surface the context presents into.
func (c *Context) Surface() *Surface {
	return c.surf
}

// Config returns the config the context was created from.
func (c *Context) Config() *Config {
	return c.config
}

// API returns the API the context was created for.
func (c *Context) API() API {
	return c.config.api
}

// PixelFormat returns the pixel format of the context's config.
func (c *Context) PixelFormat() PixelFormat {
	return c.config.format
}

// MakeCurrent binds the context and its surface to the calling
// thread. It returns ErrContextLost once the context is released.
func (c *Context) MakeCurrent() error {
	if c.ctx == nilEGLContext {
		return ErrContextLost
	}
	lib, disp := c.config.lib, c.config.disp.handle
	if !lib.MakeCurrent(disp, c.surf.handle, c.surf.handle, c.ctx) {
		return c.callError("eglMakeCurrent")
	}
	if !c.swapIntervalSet {
		c.swapIntervalSet = true
		interval := EGLint(0)
		if c.config.attrs.VSync {
			interval = 1
		}
		if !lib.SwapInterval(disp, interval) {
			log.L().Warn("eglSwapInterval failed", "interval", interval, "error", fmt.Sprintf("0x%x", lib.GetError()))
		}
	}
	return nil
}

// IsCurrent reports whether the context is current on the calling
// thread.
func (c *Context) IsCurrent() bool {
	return c.ctx != nilEGLContext && c.config.lib.GetCurrentContext() == c.ctx
}

// ProcAddress returns the address of the named GL function, or 0
// if it cannot be resolved.
func (c *Context) ProcAddress(name string) uintptr {
	return c.config.lib.GetProcAddress(name)
}

// SwapBuffers presents the back buffer of the context's surface.
func (c *Context) SwapBuffers() error {
	if c.ctx == nilEGLContext {
		return ErrContextLost
	}
	if !c.config.lib.SwapBuffers(c.config.disp.handle, c.surf.handle) {
		return c.callError("eglSwapBuffers")
	}
	return nil
}

// Release destroys the surface and the context and releases the
// display.
func (c *Context) Release() {
	if c.ctx == nilEGLContext {
		return
	}
	lib, disp := c.config.lib, c.config.disp.handle
	current := c.IsCurrent()
	if current {
		c.ReleaseCurrent()
	}
	if c.surf.handle != nilEGLSurface {
		lib.DestroySurface(disp, c.surf.handle)
		c.surf.handle = nilEGLSurface
	}
	lib.DestroyContext(disp, c.ctx)
	c.ctx = nilEGLContext
	// Other contexts may be current on this thread.
	if current {
		lib.ReleaseThread()
	}
	c.config.Release()
}

// ReleaseCurrent unbinds any context from the calling thread.
func (c *Context) ReleaseCurrent() {
	c.config.lib.MakeCurrent(c.config.disp.handle, nilEGLSurface, nilEGLSurface, nilEGLContext)
}

func (c *Context) callError(op string) error {
	code := c.config.lib.GetError()
	if code == _EGL_CONTEXT_LOST {
		return ErrContextLost
	}
	return &IOError{Op: op, Code: int(code)}
}

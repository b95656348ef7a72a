// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"glwin.dev/app/internal/log"
)

const (
	_EGL_BAD_ATTRIBUTE = 0x3004
	_EGL_BAD_MATCH     = 0x3009
)

// display is an initialized EGL display shared by every config
// created on it.
type display struct {
	lib          Lib
	handle       EGLDisplay
	native       NativeDisplay
	major, minor EGLint
	exts         []string
	refs         int
}

type displayKey struct {
	lib    Lib
	handle EGLDisplay
}

var displays struct {
	mu sync.Mutex
	m  map[displayKey]*display
}

func openDisplay(lib Lib, native NativeDisplay) (*display, error) {
	h := lib.GetDisplay(native.Ptr)
	if h == nilEGLDisplay {
		return nil, osErrorf("eglGetDisplay", "no display for %s native display 0x%x (0x%x)", native.Platform, native.Ptr, lib.GetError())
	}
	displays.mu.Lock()
	defer displays.mu.Unlock()
	key := displayKey{lib, h}
	if d, ok := displays.m[key]; ok {
		d.refs++
		return d, nil
	}
	major, minor, ok := lib.Initialize(h)
	if !ok {
		return nil, osErrorf("eglInitialize", "0x%x", lib.GetError())
	}
	d := &display{
		lib:    lib,
		handle: h,
		native: native,
		major:  major,
		minor:  minor,
		exts:   strings.Fields(lib.QueryString(h, _EGL_EXTENSIONS)),
		refs:   1,
	}
	if displays.m == nil {
		displays.m = make(map[displayKey]*display)
	}
	displays.m[key] = d
	return d, nil
}

func (d *display) release() {
	displays.mu.Lock()
	defer displays.mu.Unlock()
	d.refs--
	if d.refs > 0 {
		return
	}
	d.lib.Terminate(d.handle)
	delete(displays.m, displayKey{d.lib, d.handle})
}

func (d *display) atLeast(major, minor EGLint) bool {
	return d.major > major || d.major == major && d.minor >= minor
}

func (d *display) hasExtension(ext string) bool {
	return slices.Contains(d.exts, ext)
}

// sRGB framebuffer support on EGL 1.5 or if EGL_KHR_gl_colorspace is supported.
func (d *display) srgb() bool {
	return d.atLeast(1, 5) || d.hasExtension("EGL_KHR_gl_colorspace")
}

func (d *display) contextAttribs() bool {
	return d.atLeast(1, 5) || d.hasExtension("EGL_KHR_create_context")
}

func (d *display) robustness() bool {
	return d.atLeast(1, 5) || d.hasExtension("EGL_EXT_create_context_robustness")
}

func (d *display) floatConfigs() bool {
	return d.hasExtension("EGL_EXT_pixel_format_float")
}

var (
	latestGL = []Version{
		{4, 6}, {4, 5}, {4, 3}, {4, 1}, {4, 0},
		{3, 3}, {3, 2}, {3, 0},
		{},
	}
	latestGLES = []Version{{3, 0}, {2, 0}}
)

// Config is the native config selected for a context. It is fixed
// for the lifetime of the contexts created from it.
type Config struct {
	lib      Lib
	disp     *display
	handle   EGLConfig
	desc     ConfigDesc
	format   PixelFormat
	api      API
	versions []Version
	attrs    GLAttributes
	srgb     bool
	kind     SurfaceKind
	released bool
}

// NewConfig initializes the native display, binds the API requested
// by attrs and selects the first config that satisfies reqs for
// surfaces of the given kind.
//
// The returned Config holds a reference to the display until it is
// released, either directly or through the Context finished from it.
func NewConfig(lib Lib, native NativeDisplay, reqs PixelFormatRequirements, attrs GLAttributes, kind SurfaceKind) (*Config, error) {
	disp, err := openDisplay(lib, native)
	if err != nil {
		return nil, err
	}
	c, err := newConfig(disp, reqs, attrs, kind)
	if err != nil {
		disp.release()
		return nil, err
	}
	return c, nil
}

func newConfig(disp *display, reqs PixelFormatRequirements, attrs GLAttributes, kind SurfaceKind) (*Config, error) {
	lib := disp.lib
	api, versions, err := bindAPI(disp, attrs.Version)
	if err != nil {
		return nil, err
	}
	handles, ok := lib.GetConfigs(disp.handle)
	if !ok {
		return nil, osErrorf("eglGetConfigs", "0x%x", lib.GetError())
	}
	descs := make([]ConfigDesc, 0, len(handles))
	for _, h := range handles {
		d, err := readConfig(disp, h)
		if err != nil {
			return nil, err
		}
		descs = append(descs, d)
	}
	// Versions are ordered from the highest.
	lowest := versions[len(versions)-1]
	i, err := ChooseConfig(descs, reqs, api, lowest, kind)
	if err != nil {
		return nil, err
	}
	desc := descs[i]
	format := desc.PixelFormat()
	// Surfaces only use the sRGB colorspace on request.
	format.SRGB = reqs.SRGB
	log.L().Debug("egl config selected",
		"platform", disp.native.Platform,
		"api", api,
		"config", i,
		"candidates", len(descs),
		"visual", desc.VisualID,
	)
	return &Config{
		lib:      lib,
		disp:     disp,
		handle:   desc.Handle,
		desc:     desc,
		format:   format,
		api:      api,
		versions: versions,
		attrs:    attrs,
		srgb:     reqs.SRGB,
		kind:     kind,
	}, nil
}

func bindAPI(disp *display, req GLRequest) (API, []Version, error) {
	lib := disp.lib
	switch req.kind {
	case requestLatest:
		if disp.atLeast(1, 4) && lib.BindAPI(_EGL_OPENGL_API) {
			return OpenGL, latestGL, nil
		}
		if lib.BindAPI(_EGL_OPENGL_ES_API) {
			return OpenGLES, latestGLES, nil
		}
		return 0, nil, ErrOpenGLVersionNotSupported
	case requestSpecific:
		switch req.api {
		case OpenGLES:
			if !disp.atLeast(1, 2) || !lib.BindAPI(_EGL_OPENGL_ES_API) {
				return 0, nil, ErrOpenGLVersionNotSupported
			}
		case OpenGL:
			if !disp.atLeast(1, 4) || !lib.BindAPI(_EGL_OPENGL_API) {
				return 0, nil, ErrOpenGLVersionNotSupported
			}
		}
		return req.api, []Version{req.version}, nil
	case requestGLThenGLES:
		if disp.atLeast(1, 4) && lib.BindAPI(_EGL_OPENGL_API) {
			return OpenGL, []Version{req.version}, nil
		}
		if lib.BindAPI(_EGL_OPENGL_ES_API) {
			return OpenGLES, []Version{req.gles}, nil
		}
		return 0, nil, ErrOpenGLVersionNotSupported
	}
	panic("unreachable")
}

func readConfig(disp *display, h EGLConfig) (ConfigDesc, error) {
	d := ConfigDesc{Handle: h, SRGB: disp.srgb()}
	attribs := []struct {
		attr EGLint
		dst  *EGLint
	}{
		{_EGL_CONFIG_CAVEAT, &d.Caveat},
		{_EGL_RENDERABLE_TYPE, &d.RenderableType},
		{_EGL_SURFACE_TYPE, &d.SurfaceType},
		{_EGL_RED_SIZE, &d.Red},
		{_EGL_GREEN_SIZE, &d.Green},
		{_EGL_BLUE_SIZE, &d.Blue},
		{_EGL_ALPHA_SIZE, &d.Alpha},
		{_EGL_DEPTH_SIZE, &d.Depth},
		{_EGL_STENCIL_SIZE, &d.Stencil},
		{_EGL_SAMPLES, &d.Samples},
		{_EGL_NATIVE_VISUAL_ID, &d.VisualID},
	}
	for _, a := range attribs {
		v, ok := disp.lib.GetConfigAttrib(disp.handle, h, a.attr)
		if !ok {
			return ConfigDesc{}, osErrorf("eglGetConfigAttrib", "attribute 0x%x: 0x%x", a.attr, disp.lib.GetError())
		}
		*a.dst = v
	}
	if disp.floatConfigs() {
		if v, ok := disp.lib.GetConfigAttrib(disp.handle, h, _EGL_COLOR_COMPONENT_TYPE); ok {
			d.Float = v == _EGL_COLOR_COMPONENT_FLOAT
		}
	}
	return d, nil
}

// API returns the API the config was bound for.
func (c *Config) API() API {
	return c.api
}

// PixelFormat returns the pixel format of the config.
func (c *Config) PixelFormat() PixelFormat {
	return c.format
}

// VisualID returns the native visual of the config.
func (c *Config) VisualID() int {
	return int(c.desc.VisualID)
}

// Release drops the config's reference to its display. Configs
// finished into a Context are released with the Context.
func (c *Config) Release() {
	if c.released {
		return
	}
	c.released = true
	c.disp.release()
}

// FinishWindow creates a context for the config and binds it to a
// window surface wrapping the native window.
func (c *Config) FinishWindow(native uintptr) (*Context, error) {
	if c.kind != WindowSurface {
		return nil, ErrNotSupported
	}
	if native == 0 {
		return nil, osErrorf("eglCreateWindowSurface", "invalid native window handle")
	}
	ctx, err := c.createContext()
	if err != nil {
		return nil, err
	}
	surf, err := c.createWindowSurface(native)
	if err != nil {
		c.lib.DestroyContext(c.disp.handle, ctx)
		return nil, err
	}
	return &Context{
		config: c,
		ctx:    ctx,
		surf:   &Surface{kind: WindowSurface, handle: surf, native: native},
	}, nil
}

// FinishPbuffer creates a context for the config and binds it to an
// off-screen pixel buffer of exactly width by height pixels.
func (c *Config) FinishPbuffer(width, height int) (*Context, error) {
	if c.kind != PbufferSurface {
		return nil, ErrNotSupported
	}
	if width <= 0 || height <= 0 {
		return nil, osErrorf("eglCreatePbufferSurface", "invalid size %dx%d", width, height)
	}
	ctx, err := c.createContext()
	if err != nil {
		return nil, err
	}
	attribs := []EGLint{
		_EGL_WIDTH, EGLint(width),
		_EGL_HEIGHT, EGLint(height),
		_EGL_NONE,
	}
	surf := c.lib.CreatePbufferSurface(c.disp.handle, c.handle, attribs)
	if surf == nilEGLSurface {
		code := c.lib.GetError()
		c.lib.DestroyContext(c.disp.handle, ctx)
		return nil, osErrorf("eglCreatePbufferSurface", "0x%x", code)
	}
	return &Context{
		config: c,
		ctx:    ctx,
		surf:   &Surface{kind: PbufferSurface, handle: surf, width: width, height: height},
	}, nil
}

func (c *Config) createWindowSurface(win uintptr) (EGLSurface, error) {
	var surfAttribs []EGLint
	if c.srgb {
		surfAttribs = append(surfAttribs, _EGL_GL_COLORSPACE_KHR, _EGL_GL_COLORSPACE_SRGB_KHR)
	}
	surfAttribs = append(surfAttribs, _EGL_NONE)
	surf := c.lib.CreateWindowSurface(c.disp.handle, c.handle, win, surfAttribs)
	if surf == nilEGLSurface {
		return nilEGLSurface, osErrorf("eglCreateWindowSurface", "0x%x (sRGB=%v)", c.lib.GetError(), c.srgb)
	}
	return surf, nil
}

func (c *Config) createContext() (EGLContext, error) {
	share := nilEGLContext
	if s := c.attrs.Sharing; s != nil {
		if s.config.disp != c.disp || s.ctx == nilEGLContext {
			return nilEGLContext, ErrNotSupported
		}
		share = s.ctx
	}
	robustness := c.attrs.Robustness
	switch {
	case robustness == NoError && !c.disp.hasExtension("EGL_KHR_create_context_no_error"):
		return nilEGLContext, ErrRobustnessNotSupported
	case robustness.robust() && !c.disp.robustness():
		if !robustness.optional() {
			return nilEGLContext, ErrRobustnessNotSupported
		}
		robustness = NotRobust
	}
	api := EGLint(_EGL_OPENGL_ES_API)
	if c.api == OpenGL {
		api = _EGL_OPENGL_API
	}
	// The bound API is per thread.
	c.lib.BindAPI(api)
	var code EGLint
	for _, v := range c.versions {
		ctx := c.lib.CreateContext(c.disp.handle, c.handle, share, c.contextAttribs(v, robustness))
		if ctx != nilEGLContext {
			return ctx, nil
		}
		code = c.lib.GetError()
	}
	switch code {
	case _EGL_BAD_MATCH, _EGL_BAD_ATTRIBUTE:
		return nilEGLContext, ErrOpenGLVersionNotSupported
	}
	return nilEGLContext, osErrorf("eglCreateContext", "0x%x", code)
}

func (c *Config) contextAttribs(v Version, robustness Robustness) []EGLint {
	var attribs []EGLint
	if !c.disp.contextAttribs() {
		if c.api == OpenGLES && v.Major > 0 {
			attribs = append(attribs, _EGL_CONTEXT_CLIENT_VERSION, EGLint(v.Major))
		}
		return append(attribs, _EGL_NONE)
	}
	egl15 := c.disp.atLeast(1, 5)
	if v != (Version{}) {
		attribs = append(attribs,
			_EGL_CONTEXT_MAJOR_VERSION, EGLint(v.Major),
			_EGL_CONTEXT_MINOR_VERSION, EGLint(v.Minor),
		)
	}
	if c.api == OpenGL {
		switch c.attrs.Profile {
		case ProfileCore:
			attribs = append(attribs, _EGL_CONTEXT_OPENGL_PROFILE, _EGL_CONTEXT_CORE_BIT)
		case ProfileCompatibility:
			attribs = append(attribs, _EGL_CONTEXT_OPENGL_PROFILE, _EGL_CONTEXT_COMPAT_BIT)
		}
	}
	var flags EGLint
	if c.attrs.Debug {
		if egl15 {
			attribs = append(attribs, _EGL_CONTEXT_OPENGL_DEBUG, _EGL_TRUE)
		} else {
			flags |= _EGL_CONTEXT_DEBUG_BIT_KHR
		}
	}
	if robustness.robust() {
		strategy := EGLint(_EGL_NO_RESET_NOTIFICATION)
		if robustness.loseOnReset() {
			strategy = _EGL_LOSE_CONTEXT_ON_RESET
		}
		if egl15 {
			attribs = append(attribs,
				_EGL_CONTEXT_ROBUST_ACCESS, _EGL_TRUE,
				_EGL_CONTEXT_RESET_STRATEGY, strategy,
			)
		} else {
			attribs = append(attribs,
				_EGL_ROBUST_ACCESS_EXT, _EGL_TRUE,
				_EGL_RESET_STRATEGY_EXT, strategy,
			)
		}
	}
	if robustness == NoError {
		attribs = append(attribs, _EGL_CONTEXT_NO_ERROR_KHR, _EGL_TRUE)
	}
	if flags != 0 {
		attribs = append(attribs, _EGL_CONTEXT_FLAGS_KHR, flags)
	}
	return append(attribs, _EGL_NONE)
}

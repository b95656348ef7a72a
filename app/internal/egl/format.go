// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"golang.org/x/exp/slices"
)

// API is a rendering API.
type API uint8

const (
	OpenGL API = iota
	OpenGLES
)

func (a API) String() string {
	if a == OpenGLES {
		return "OpenGL ES"
	}
	return "OpenGL"
}

// Version is an API version.
type Version struct {
	Major, Minor int
}

// GLRequest describes the API and version a context is requested
// for. The zero value is Latest.
type GLRequest struct {
	kind    requestKind
	api     API
	version Version
	gles    Version
}

type requestKind uint8

const (
	requestLatest requestKind = iota
	requestSpecific
	requestGLThenGLES
)

// Latest requests the most recent version of the preferred API.
var Latest = GLRequest{}

// Specific requests exactly the given API and version.
func Specific(api API, major, minor int) GLRequest {
	return GLRequest{kind: requestSpecific, api: api, version: Version{major, minor}}
}

// GLThenGLES requests desktop OpenGL, falling back to OpenGL ES.
func GLThenGLES(gl, gles Version) GLRequest {
	return GLRequest{kind: requestGLThenGLES, api: OpenGL, version: gl, gles: gles}
}

// Profile is the desktop OpenGL profile.
type Profile uint8

const (
	ProfileDefault Profile = iota
	ProfileCore
	ProfileCompatibility
)

// Robustness is the robustness behavior of a context.
type Robustness uint8

const (
	NotRobust Robustness = iota
	// NoError disables error reporting; requires EGL_KHR_create_context_no_error.
	NoError
	RobustNoResetNotification
	TryRobustNoResetNotification
	RobustLoseContextOnReset
	TryRobustLoseContextOnReset
)

func (r Robustness) robust() bool {
	return r >= RobustNoResetNotification
}

func (r Robustness) optional() bool {
	return r == TryRobustNoResetNotification || r == TryRobustLoseContextOnReset
}

func (r Robustness) loseOnReset() bool {
	return r == RobustLoseContextOnReset || r == TryRobustLoseContextOnReset
}

// GLAttributes are the context attributes.
type GLAttributes struct {
	// Sharing, if set, is a context whose object namespace the new
	// context shares. It must outlive the new context and belong to
	// the same display.
	Sharing    *Context
	Version    GLRequest
	Profile    Profile
	Debug      bool
	Robustness Robustness
	VSync      bool
}

// PixelFormatRequirements constrains config selection. Nil
// fields mean "don't care"; numeric constraints are minimums.
type PixelFormatRequirements struct {
	HardwareAccelerated *bool
	ColorBits           *uint8
	FloatColorBuffer    bool
	AlphaBits           *uint8
	DepthBits           *uint8
	StencilBits         *uint8
	DoubleBuffer        *bool
	Multisampling       *uint16
	Stereoscopy         bool
	SRGB                bool
}

// DefaultPixelFormatRequirements returns hardware accelerated
// requirements with 24 color bits, 8 alpha bits, 24 depth bits and
// 8 stencil bits.
func DefaultPixelFormatRequirements() PixelFormatRequirements {
	accel := true
	color, alpha, depth, stencil := uint8(24), uint8(8), uint8(24), uint8(8)
	return PixelFormatRequirements{
		HardwareAccelerated: &accel,
		ColorBits:           &color,
		AlphaBits:           &alpha,
		DepthBits:           &depth,
		StencilBits:         &stencil,
	}
}

// PixelFormat describes the capabilities of a selected config.
type PixelFormat struct {
	HardwareAccelerated bool
	ColorBits           uint8
	AlphaBits           uint8
	DepthBits           uint8
	StencilBits         uint8
	Stereoscopy         bool
	DoubleBuffer        bool
	Multisampling       uint16
	SRGB                bool
	FloatColorBuffer    bool
}

// ConfigDesc is what a display reports about one of its configs.
type ConfigDesc struct {
	Handle         EGLConfig
	Caveat         EGLint
	RenderableType EGLint
	SurfaceType    EGLint
	Red, Green     EGLint
	Blue, Alpha    EGLint
	Depth, Stencil EGLint
	Samples        EGLint
	VisualID       EGLint
	Float          bool
	// SRGB reports whether surfaces of the display can use an sRGB
	// colorspace.
	SRGB bool
}

// DoubleBuffer reports whether window surfaces of the config are
// back buffered. EGL window surfaces always are; configs without
// window support only render into single buffered pbuffers.
func (d ConfigDesc) DoubleBuffer() bool {
	return d.SurfaceType&_EGL_WINDOW_BIT != 0
}

// PixelFormat returns the pixel format the config provides.
func (d ConfigDesc) PixelFormat() PixelFormat {
	return PixelFormat{
		HardwareAccelerated: d.Caveat != _EGL_SLOW_CONFIG,
		ColorBits:           uint8(d.Red + d.Green + d.Blue),
		AlphaBits:           uint8(d.Alpha),
		DepthBits:           uint8(d.Depth),
		StencilBits:         uint8(d.Stencil),
		DoubleBuffer:        d.DoubleBuffer(),
		Multisampling:       uint16(d.Samples),
		SRGB:                d.SRGB,
		FloatColorBuffer:    d.Float,
	}
}

// Satisfies reports whether the config meets reqs for rendering
// api contexts of at least version lowest into a surface of the given
// kind.
func (d ConfigDesc) Satisfies(reqs PixelFormatRequirements, api API, lowest Version, kind SurfaceKind) bool {
	var renderable EGLint
	switch {
	case api == OpenGL:
		renderable = _EGL_OPENGL_BIT
	case lowest.Major >= 3:
		renderable = _EGL_OPENGL_ES3_BIT
	default:
		renderable = _EGL_OPENGL_ES2_BIT
	}
	if d.RenderableType&renderable == 0 {
		return false
	}
	surface := EGLint(_EGL_WINDOW_BIT)
	if kind == PbufferSurface {
		surface = _EGL_PBUFFER_BIT
	}
	if d.SurfaceType&surface == 0 {
		return false
	}
	f := d.PixelFormat()
	if r := reqs.HardwareAccelerated; r != nil && *r != f.HardwareAccelerated {
		return false
	}
	if r := reqs.ColorBits; r != nil && f.ColorBits < *r {
		return false
	}
	if reqs.FloatColorBuffer && !f.FloatColorBuffer {
		return false
	}
	if r := reqs.AlphaBits; r != nil && f.AlphaBits < *r {
		return false
	}
	if r := reqs.DepthBits; r != nil && f.DepthBits < *r {
		return false
	}
	if r := reqs.StencilBits; r != nil && f.StencilBits < *r {
		return false
	}
	if r := reqs.DoubleBuffer; r != nil && *r != f.DoubleBuffer {
		return false
	}
	if r := reqs.Multisampling; r != nil && *r > 0 && f.Multisampling < *r {
		return false
	}
	// EGL has no stereo configs.
	if reqs.Stereoscopy {
		return false
	}
	if reqs.SRGB && !f.SRGB {
		return false
	}
	return true
}

// ChooseConfig returns the index of the first config in display
// enumeration order that satisfies reqs.
func ChooseConfig(configs []ConfigDesc, reqs PixelFormatRequirements, api API, lowest Version, kind SurfaceKind) (int, error) {
	i := slices.IndexFunc(configs, func(d ConfigDesc) bool {
		return d.Satisfies(reqs, api, lowest, kind)
	})
	if i == -1 {
		return -1, ErrNoAvailablePixelFormat
	}
	return i, nil
}

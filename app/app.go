// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"fmt"
	"log/slog"

	"glwin.dev/app/internal/egl"
	"glwin.dev/app/internal/log"
	"glwin.dev/app/internal/wm"
)

type (
	// PixelFormatRequirements constrains the pixel format of a
	// context. Nil fields are not constrained.
	PixelFormatRequirements = egl.PixelFormatRequirements
	// PixelFormat describes the pixel format of a context.
	PixelFormat = egl.PixelFormat
	// API is a client API.
	API = egl.API
	// Version is a client API version.
	Version = egl.Version
	// GLRequest selects the client API and versions to try.
	GLRequest = egl.GLRequest
	// Profile is a desktop OpenGL profile. It is ignored for
	// OpenGL ES.
	Profile    = egl.Profile
	Robustness = egl.Robustness

	// OSError reports a failed native call during context creation.
	OSError = egl.OSError
	// IOError reports a failed native call during MakeCurrent or
	// SwapBuffers.
	IOError = egl.IOError
	// ConnectionLostError is the panic value of a blocking event
	// wait when the display server connection fails.
	ConnectionLostError = wm.ConnectionLostError
)

const (
	OpenGL   = egl.OpenGL
	OpenGLES = egl.OpenGLES

	ProfileDefault       = egl.ProfileDefault
	ProfileCore          = egl.ProfileCore
	ProfileCompatibility = egl.ProfileCompatibility

	NotRobust                    = egl.NotRobust
	NoError                      = egl.NoError
	RobustNoResetNotification    = egl.RobustNoResetNotification
	TryRobustNoResetNotification = egl.TryRobustNoResetNotification
	RobustLoseContextOnReset     = egl.RobustLoseContextOnReset
	TryRobustLoseContextOnReset  = egl.TryRobustLoseContextOnReset
)

var (
	// Latest requests the latest version of desktop OpenGL, or of
	// OpenGL ES if desktop OpenGL is unavailable.
	Latest = egl.Latest

	ErrNoAvailablePixelFormat    = egl.ErrNoAvailablePixelFormat
	ErrNotSupported              = egl.ErrNotSupported
	ErrOpenGLVersionNotSupported = egl.ErrOpenGLVersionNotSupported
	ErrRobustnessNotSupported    = egl.ErrRobustnessNotSupported
	ErrContextLost               = egl.ErrContextLost
)

// Specific requests exactly the given version of api.
func Specific(api API, major, minor int) GLRequest {
	return egl.Specific(api, major, minor)
}

// GLThenGLES requests desktop OpenGL at version gl, and OpenGL ES at
// version gles if desktop OpenGL is unavailable.
func GLThenGLES(gl, gles Version) GLRequest {
	return egl.GLThenGLES(gl, gles)
}

// DefaultPixelFormatRequirements returns hardware accelerated
// requirements with 24 bits of color, 8 bits of alpha, 24 bits of
// depth and 8 bits of stencil.
func DefaultPixelFormatRequirements() PixelFormatRequirements {
	return egl.DefaultPixelFormatRequirements()
}

// GLAttributes describes the context to create.
type GLAttributes struct {
	Version    GLRequest
	Profile    Profile
	Debug      bool
	Robustness Robustness
	// VSync synchronizes SwapBuffers with the display refresh.
	VSync bool
}

// InvariantViolationError is returned when a Window is used that was
// not created by NewWindow.
type InvariantViolationError struct {
	Op string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("app: %s called on a window without backend", e.Op)
}

// SetLogger sets the logger of the package. Logging is disabled by
// default; a nil logger disables it again.
func SetLogger(l *slog.Logger) {
	log.SetLogger(l)
}

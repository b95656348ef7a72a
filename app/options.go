// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"log/slog"
	"os"

	"glwin.dev/app/internal/egl"
	"glwin.dev/app/internal/wm"
	"glwin.dev/wsi"
)

// Config is the configuration of a new Window or HeadlessContext.
type Config struct {
	PixelFormat PixelFormatRequirements
	GL          GLAttributes
	// Share is the context whose objects the new context shares, or
	// nil.
	Share Sharer
	// EGLLibrary is the EGL library to load. The empty string selects
	// the system library.
	EGLLibrary string
	// Insets computes decoration insets, overriding the backend's.
	Insets wsi.InsetFunc

	// lib and wlegl override the loaded libraries.
	lib   egl.Lib
	wlegl wm.WaylandEGL
}

// Option configures a window or headless context.
type Option func(*Config)

// Sharer is implemented by Window and HeadlessContext.
type Sharer interface {
	eglContext() *egl.Context
}

// EnvEGLLibrary is the environment variable that overrides the EGL
// library when no EGLLibrary option is given.
const EnvEGLLibrary = "GLWIN_EGL_LIBRARY"

// RequirePixelFormat sets the pixel format requirements.
func RequirePixelFormat(reqs PixelFormatRequirements) Option {
	return func(cnf *Config) {
		cnf.PixelFormat = reqs
	}
}

// GL sets the context attributes.
func GL(attrs GLAttributes) Option {
	return func(cnf *Config) {
		cnf.GL = attrs
	}
}

// ShareWith makes the new context share its objects with the context
// of s. The context of s must outlive the new context and live on the
// same display; otherwise creation fails with ErrNotSupported.
func ShareWith(s Sharer) Option {
	return func(cnf *Config) {
		cnf.Share = s
	}
}

// Logger sets the logger of the package, like SetLogger.
func Logger(l *slog.Logger) Option {
	return func(_ *Config) {
		SetLogger(l)
	}
}

// EGLLibrary sets the name or path of the EGL library to load.
func EGLLibrary(name string) Option {
	return func(cnf *Config) {
		cnf.EGLLibrary = name
	}
}

// Insets overrides how decoration insets are computed for windows
// whose backend draws its own decorations.
func Insets(fn wsi.InsetFunc) Option {
	return func(cnf *Config) {
		cnf.Insets = fn
	}
}

func newConfig(options []Option) Config {
	cnf := Config{
		PixelFormat: DefaultPixelFormatRequirements(),
		GL:          GLAttributes{Version: Latest},
	}
	for _, o := range options {
		o(&cnf)
	}
	return cnf
}

func (cnf *Config) loadLib() (egl.Lib, error) {
	if cnf.lib != nil {
		return cnf.lib, nil
	}
	name := cnf.EGLLibrary
	if name == "" {
		name = os.Getenv(EnvEGLLibrary)
	}
	return egl.Load(name)
}

func (cnf *Config) glAttributes() egl.GLAttributes {
	attrs := egl.GLAttributes{
		Version:    cnf.GL.Version,
		Profile:    cnf.GL.Profile,
		Debug:      cnf.GL.Debug,
		Robustness: cnf.GL.Robustness,
		VSync:      cnf.GL.VSync,
	}
	if cnf.Share != nil {
		attrs.Sharing = cnf.Share.eglContext()
	}
	return attrs
}

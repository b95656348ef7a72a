// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAvailablePixelFormat is returned when no config of the
	// display satisfies the pixel format requirements.
	ErrNoAvailablePixelFormat = errors.New("egl: no available pixel format")
	// ErrNotSupported is returned when the display or backend cannot
	// perform the requested operation.
	ErrNotSupported = errors.New("egl: not supported")
	// ErrOpenGLVersionNotSupported is returned when the requested API
	// or version cannot be provided.
	ErrOpenGLVersionNotSupported = errors.New("egl: OpenGL version not supported")
	// ErrRobustnessNotSupported is returned when robust contexts were
	// required but are unavailable.
	ErrRobustnessNotSupported = errors.New("egl: robustness not supported")
	// ErrContextLost is returned by per-frame operations when the
	// native context has been invalidated. The context must be
	// recreated.
	ErrContextLost = errors.New("egl: context lost")
)

// OSError is a failed native call during context creation.
type OSError struct {
	Op  string
	Msg string
}

func (e *OSError) Error() string {
	if e.Op == "" {
		return "egl: " + e.Msg
	}
	return fmt.Sprintf("egl: %s: %s", e.Op, e.Msg)
}

// IOError is a failed native call during a per-frame operation.
type IOError struct {
	Op   string
	Code int
}

func (e *IOError) Error() string {
	return fmt.Sprintf("egl: %s failed (0x%x)", e.Op, e.Code)
}

func osErrorf(op, format string, args ...interface{}) error {
	return &OSError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

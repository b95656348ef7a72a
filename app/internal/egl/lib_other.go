// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !freebsd

package egl

// Load reports ErrNotSupported; EGL is only loaded on Linux,
// Android and FreeBSD.
func Load(name string) (Lib, error) {
	return nil, ErrNotSupported
}

// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(surfaceType EGLint, bits EGLint) ConfigDesc {
	return ConfigDesc{
		Caveat:         _EGL_NONE,
		RenderableType: _EGL_OPENGL_BIT | _EGL_OPENGL_ES2_BIT,
		SurfaceType:    surfaceType,
		Red:            bits,
		Green:          bits,
		Blue:           bits,
		Alpha:          bits,
		Depth:          24,
		Stencil:        8,
	}
}

func TestChooseConfigDoubleBuffer(t *testing.T) {
	single := desc(_EGL_PBUFFER_BIT, 8)
	double := desc(_EGL_WINDOW_BIT|_EGL_PBUFFER_BIT, 8)
	yes := true
	reqs := PixelFormatRequirements{DoubleBuffer: &yes}

	i, err := ChooseConfig([]ConfigDesc{single, double}, reqs, OpenGL, Version{}, PbufferSurface)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = ChooseConfig([]ConfigDesc{single}, reqs, OpenGL, Version{}, PbufferSurface)
	assert.ErrorIs(t, err, ErrNoAvailablePixelFormat)
}

func TestChooseConfigFirstMatch(t *testing.T) {
	configs := []ConfigDesc{
		desc(_EGL_WINDOW_BIT, 5),
		desc(_EGL_WINDOW_BIT, 8),
		desc(_EGL_WINDOW_BIT, 10),
	}
	reqs := DefaultPixelFormatRequirements()
	i, err := ChooseConfig(configs, reqs, OpenGLES, Version{Major: 2}, WindowSurface)
	require.NoError(t, err)
	assert.Equal(t, 1, i, "first config in enumeration order wins ties")
}

func TestChooseConfigSatisfiesEveryConstraint(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }
	u16 := func(v uint16) *uint16 { return &v }
	no := false
	slow := desc(_EGL_WINDOW_BIT, 8)
	slow.Caveat = _EGL_SLOW_CONFIG
	msaa := desc(_EGL_WINDOW_BIT, 8)
	msaa.Samples = 4
	float := desc(_EGL_WINDOW_BIT, 16)
	float.Float = true
	srgb := desc(_EGL_WINDOW_BIT, 8)
	srgb.SRGB = true
	esOnly := desc(_EGL_WINDOW_BIT, 8)
	esOnly.RenderableType = _EGL_OPENGL_ES2_BIT
	configs := []ConfigDesc{esOnly, slow, msaa, float, srgb, desc(_EGL_WINDOW_BIT, 8)}

	tests := []struct {
		name string
		reqs PixelFormatRequirements
		api  API
		want int
	}{
		{"software", PixelFormatRequirements{HardwareAccelerated: &no}, OpenGL, 1},
		{"multisampling", PixelFormatRequirements{Multisampling: u16(4)}, OpenGL, 2},
		{"float", PixelFormatRequirements{FloatColorBuffer: true}, OpenGL, 3},
		{"color bits", PixelFormatRequirements{ColorBits: u8(30)}, OpenGL, 3},
		{"srgb", PixelFormatRequirements{SRGB: true}, OpenGL, 4},
		{"es", PixelFormatRequirements{}, OpenGLES, 0},
		{"gl", PixelFormatRequirements{}, OpenGL, 1},
		{"depth", PixelFormatRequirements{DepthBits: u8(24), StencilBits: u8(8)}, OpenGL, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, err := ChooseConfig(configs, tt.reqs, tt.api, Version{}, WindowSurface)
			require.NoError(t, err)
			assert.Equal(t, tt.want, i)
			assert.True(t, configs[i].Satisfies(tt.reqs, tt.api, Version{}, WindowSurface))
		})
	}
}

func TestChooseConfigUnsatisfiable(t *testing.T) {
	u8 := func(v uint8) *uint8 { return &v }
	configs := []ConfigDesc{desc(_EGL_WINDOW_BIT, 8)}
	for _, reqs := range []PixelFormatRequirements{
		{Stereoscopy: true},
		{DepthBits: u8(32)},
		{AlphaBits: u8(16)},
		{SRGB: true},
	} {
		_, err := ChooseConfig(configs, reqs, OpenGL, Version{}, WindowSurface)
		assert.ErrorIs(t, err, ErrNoAvailablePixelFormat, "%+v", reqs)
	}
	_, err := ChooseConfig(configs, PixelFormatRequirements{}, OpenGL, Version{}, PbufferSurface)
	assert.ErrorIs(t, err, ErrNoAvailablePixelFormat)
	_, err = ChooseConfig(nil, PixelFormatRequirements{}, OpenGL, Version{}, WindowSurface)
	assert.ErrorIs(t, err, ErrNoAvailablePixelFormat)
}

func TestChooseConfigES3(t *testing.T) {
	es2 := desc(_EGL_WINDOW_BIT, 8)
	es2.RenderableType = _EGL_OPENGL_ES2_BIT
	es3 := desc(_EGL_WINDOW_BIT, 8)
	es3.RenderableType = _EGL_OPENGL_ES2_BIT | _EGL_OPENGL_ES3_BIT
	configs := []ConfigDesc{es2, es3}

	i, err := ChooseConfig(configs, PixelFormatRequirements{}, OpenGLES, Version{Major: 3}, WindowSurface)
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = ChooseConfig(configs, PixelFormatRequirements{}, OpenGLES, Version{Major: 2}, WindowSurface)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	_, err = ChooseConfig(configs[:1], PixelFormatRequirements{}, OpenGLES, Version{Major: 3, Minor: 1}, WindowSurface)
	assert.ErrorIs(t, err, ErrNoAvailablePixelFormat)
}

func TestPixelFormat(t *testing.T) {
	d := desc(_EGL_WINDOW_BIT, 8)
	d.Samples = 2
	f := d.PixelFormat()
	assert.Equal(t, PixelFormat{
		HardwareAccelerated: true,
		ColorBits:           24,
		AlphaBits:           8,
		DepthBits:           24,
		StencilBits:         8,
		DoubleBuffer:        true,
		Multisampling:       2,
	}, f)
}

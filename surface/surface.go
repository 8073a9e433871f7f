// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gputypes"
)

var (
	// ErrSize is returned for non-positive target dimensions.
	ErrSize = errors.New("surface: invalid size")

	// ErrDepthFormat is returned for a format that is not a depth format.
	ErrDepthFormat = errors.New("surface: unsupported depth format")
)

// ColorPixelBytes is the size of one RGBA8 pixel.
const ColorPixelBytes = 4

// Target is a color, depth and stencil render target.
type Target struct {
	width, height int
	format        gputypes.TextureFormat
	depthWidth    int

	// Color holds RGBA8 pixels, ColorStride bytes per row.
	Color       []byte
	ColorStride int

	// Depth holds DepthWidth()-byte little-endian depth values. It is nil
	// when the target has no depth plane.
	Depth       []byte
	DepthStride int

	// Stencil holds one byte per pixel, or is nil.
	Stencil       []byte
	StencilStride int
}

// New allocates a target. Pass gputypes.TextureFormatUndefined for a target
// without depth and stencil planes.
func New(width, height int, depth gputypes.TextureFormat) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, width, height)
	}
	t := &Target{
		width:       width,
		height:      height,
		format:      depth,
		Color:       make([]byte, width*height*ColorPixelBytes),
		ColorStride: width * ColorPixelBytes,
	}
	if depth == gputypes.TextureFormatUndefined {
		return t, nil
	}
	w, ok := DepthWidth(depth)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrDepthFormat, depth)
	}
	t.depthWidth = w
	t.Depth = make([]byte, width*height*w)
	t.DepthStride = width * w
	if HasStencil(depth) {
		t.Stencil = make([]byte, width*height)
		t.StencilStride = width
	}
	return t, nil
}

// DepthWidth returns the byte width used to store a depth format. Depth32Float
// is stored as a 32-bit unsigned integer; the rasterizer produces integer
// depth only.
func DepthWidth(f gputypes.TextureFormat) (int, bool) {
	switch f {
	case gputypes.TextureFormatDepth16Unorm:
		return 2, true
	case gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth24PlusStencil8:
		return 3, true
	case gputypes.TextureFormatDepth32Float:
		return 4, true
	}
	return 0, false
}

// HasStencil reports whether f carries a stencil plane.
func HasStencil(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatDepth24PlusStencil8
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Bounds returns the pixel rectangle of the target.
func (t *Target) Bounds() image.Rectangle { return image.Rect(0, 0, t.width, t.height) }

// Format returns the depth format, or TextureFormatUndefined.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// DepthWidth returns the depth entry size in bytes, or 0 without depth.
func (t *Target) DepthWidth() int { return t.depthWidth }

// MaxDepth returns the largest storable depth value, or 0 without depth.
func (t *Target) MaxDepth() uint32 {
	switch t.depthWidth {
	case 2:
		return 0xFFFF
	case 3:
		return 0xFFFFFF
	case 4:
		return 0xFFFFFFFF
	}
	return 0
}

// ColorOffset returns the byte offset of pixel (x, y) in Color.
func (t *Target) ColorOffset(x, y int) int { return y*t.ColorStride + x*ColorPixelBytes }

// DepthOffset returns the byte offset of pixel (x, y) in Depth.
func (t *Target) DepthOffset(x, y int) int { return y*t.DepthStride + x*t.depthWidth }

// StencilOffset returns the byte offset of pixel (x, y) in Stencil.
func (t *Target) StencilOffset(x, y int) int { return y*t.StencilStride + x }

// Image returns an *image.RGBA view sharing the color plane.
func (t *Target) Image() *image.RGBA {
	return &image.RGBA{Pix: t.Color, Stride: t.ColorStride, Rect: t.Bounds()}
}

// Snapshot returns a copy of the color plane.
func (t *Target) Snapshot() *image.RGBA {
	img := image.NewRGBA(t.Bounds())
	copy(img.Pix, t.Color)
	return img
}

// Clear fills the color plane with c.
func (t *Target) Clear(c color.Color) {
	draw.Draw(t.Image(), t.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// SetRGBA stores c at color byte offset off.
func (t *Target) SetRGBA(off int, c color.RGBA) {
	p := t.Color[off : off+ColorPixelBytes : off+ColorPixelBytes]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// RGBAAt returns the color of pixel (x, y).
func (t *Target) RGBAAt(x, y int) color.RGBA {
	off := t.ColorOffset(x, y)
	p := t.Color[off : off+ColorPixelBytes : off+ColorPixelBytes]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// StencilAt returns the stencil value of pixel (x, y), or 0 without stencil.
func (t *Target) StencilAt(x, y int) uint8 {
	if t.Stencil == nil {
		return 0
	}
	return t.Stencil[t.StencilOffset(x, y)]
}

// ClearStencil fills the stencil plane with v.
func (t *Target) ClearStencil(v uint8) {
	for i := range t.Stencil {
		t.Stencil[i] = v
	}
}

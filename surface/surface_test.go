// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		format     gputypes.TextureFormat
		depthWidth int
		stencil    bool
		maxDepth   uint32
	}{
		{"no depth", gputypes.TextureFormatUndefined, 0, false, 0},
		{"depth16", gputypes.TextureFormatDepth16Unorm, 2, false, 0xFFFF},
		{"depth24", gputypes.TextureFormatDepth24Plus, 3, false, 0xFFFFFF},
		{"depth24 stencil8", gputypes.TextureFormatDepth24PlusStencil8, 3, true, 0xFFFFFF},
		{"depth32", gputypes.TextureFormatDepth32Float, 4, false, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(7, 5, tt.format)
			if err != nil {
				t.Fatalf("New() err = %v", err)
			}
			if s.Width() != 7 || s.Height() != 5 {
				t.Errorf("size = %dx%d, want 7x5", s.Width(), s.Height())
			}
			if s.DepthWidth() != tt.depthWidth || s.MaxDepth() != tt.maxDepth {
				t.Errorf("DepthWidth() = %d, MaxDepth() = %d, want %d, %d", s.DepthWidth(), s.MaxDepth(), tt.depthWidth, tt.maxDepth)
			}
			if len(s.Depth) != 7*5*tt.depthWidth || s.DepthStride != 7*tt.depthWidth {
				t.Errorf("depth plane %d bytes stride %d", len(s.Depth), s.DepthStride)
			}
			if (s.Stencil != nil) != tt.stencil {
				t.Errorf("stencil plane present = %v, want %v", s.Stencil != nil, tt.stencil)
			}
			if len(s.Color) != 7*5*4 || s.ColorStride != 28 {
				t.Errorf("color plane %d bytes stride %d", len(s.Color), s.ColorStride)
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(0, 4, gputypes.TextureFormatUndefined); !errors.Is(err, ErrSize) {
		t.Errorf("New(0, 4) err = %v, want ErrSize", err)
	}
	if _, err := New(4, 4, gputypes.TextureFormatRGBA8Unorm); !errors.Is(err, ErrDepthFormat) {
		t.Errorf("New(RGBA8Unorm depth) err = %v, want ErrDepthFormat", err)
	}
}

func TestDepthReadWrite(t *testing.T) {
	for _, width := range []int{2, 3, 4} {
		buf := make([]byte, 3*width)
		values := []uint32{0, 0x1234, 0xFFFFFFFF}
		for i, z := range values {
			WriteDepth(buf, i*width, width, z)
		}
		for i, z := range values {
			want := z & (1<<(8*width) - 1)
			if got := ReadDepth(buf, i*width, width); got != want {
				t.Errorf("width %d: ReadDepth(%d) = %#x, want %#x", width, i, got, want)
			}
		}
	}
	// Little-endian layout.
	buf := make([]byte, 3)
	WriteDepth(buf, 0, 3, 0xABCDEF)
	if buf[0] != 0xEF || buf[1] != 0xCD || buf[2] != 0xAB {
		t.Errorf("WriteDepth layout = % x, want ef cd ab", buf)
	}
}

func TestClearDepth(t *testing.T) {
	for _, format := range []gputypes.TextureFormat{
		gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth24Plus,
		gputypes.TextureFormatDepth32Float,
	} {
		s, err := New(13, 3, format)
		if err != nil {
			t.Fatal(err)
		}
		s.ClearDepth(0xFFFFFFFF)
		s.SetDepth(4, 1, 77)
		for y := range 3 {
			for x := range 13 {
				want := s.MaxDepth()
				if x == 4 && y == 1 {
					want = 77
				}
				if got := s.DepthAt(x, y); got != want {
					t.Fatalf("%v: DepthAt(%d, %d) = %d, want %d", format, x, y, got, want)
				}
			}
		}
	}
}

func TestColorPlane(t *testing.T) {
	s, err := New(4, 3, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatal(err)
	}
	s.Clear(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	s.SetRGBA(s.ColorOffset(2, 1), color.RGBA{R: 255, A: 128})

	if got := s.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("RGBAAt(0, 0) = %v", got)
	}
	if got := s.Image().RGBAAt(2, 1); got != (color.RGBA{R: 255, A: 128}) {
		t.Errorf("Image().RGBAAt(2, 1) = %v", got)
	}

	snap := s.Snapshot()
	s.SetRGBA(0, color.RGBA{})
	if snap.RGBAAt(0, 0).A != 255 {
		t.Error("Snapshot shares memory with the target")
	}
}

func TestStencilPlane(t *testing.T) {
	s, err := New(3, 3, gputypes.TextureFormatDepth24PlusStencil8)
	if err != nil {
		t.Fatal(err)
	}
	s.ClearStencil(9)
	if got := s.StencilAt(2, 2); got != 9 {
		t.Errorf("StencilAt(2, 2) = %d, want 9", got)
	}
	plain, _ := New(3, 3, gputypes.TextureFormatDepth24Plus)
	plain.ClearStencil(9)
	if got := plain.StencilAt(1, 1); got != 0 {
		t.Errorf("StencilAt without stencil = %d, want 0", got)
	}
}

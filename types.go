// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import "github.com/gogpu/softraster/internal/raster"

// Rect is a half-open pixel rectangle [X0, X1) x [Y0, Y1).
type Rect = raster.Rect

// Orientation is a screen-space triangle winding.
type Orientation = raster.Orientation

// Windings on the y-down screen.
const (
	CCW = raster.CCW
	CW  = raster.CW
)

// ScreenVertex is a fixed-point screen position with quantized depth.
type ScreenVertex = raster.Vertex

// SubpixelOne is one pixel in screen vertex units.
const SubpixelOne = raster.SubpixelOne

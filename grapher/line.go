// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"fmt"
	"image"
)

// LineMode selects how DrawLine terminates.
type LineMode int

const (
	// LineTruncated stops as soon as either x or y reaches the end point.
	// The end point itself is never drawn and a perfectly vertical or
	// horizontal line draws nothing.
	LineTruncated LineMode = iota
	// LineComplete is the textbook Bresenham loop, drawing both end points.
	LineComplete
)

func (m LineMode) String() string {
	switch m {
	case LineTruncated:
		return "truncated"
	case LineComplete:
		return "complete"
	default:
		return "LineMode(?)"
	}
}

// DrawLine draws a line from p0 towards p1 using integer Bresenham and returns
// the number of pixels plotted.
//
// It stops at the first pixel outside the raster and returns ErrOutOfBounds.
func (r *Raster) DrawLine(p0, p1 image.Point, mode LineMode) (int, error) {
	if !mode.valid() {
		return 0, fmt.Errorf("grapher: unknown line mode %d", int(mode))
	}
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	n := 0
	for {
		if mode == LineTruncated && (x0 == x1 || y0 == y1) {
			return n, nil
		}
		if e := r.SetPixel(x0, y0); e != nil {
			return n, e
		}
		n++
		if mode == LineComplete && x0 == x1 && y0 == y1 {
			return n, nil
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (m LineMode) valid() bool {
	return m == LineTruncated || m == LineComplete
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

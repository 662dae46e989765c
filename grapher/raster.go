// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Dimensions of the strip rendered by a Grapher.
const (
	Height      = 16
	WidthPixels = 384
	WidthBytes  = WidthPixels / 8
)

// Raster is a 1 bit per pixel bitmap packed 8 pixels per byte, most
// significant bit first, with rows stored one after the other.
//
// A set bit is a printed dot and reads as image1bit.On.
type Raster struct {
	pix    []byte
	width  int
	height int
	stride int
}

// NewRaster returns a width x height raster.
//
// width must be a multiple of 8. When buf is nil the storage is allocated,
// otherwise buf is used in place and must hold at least height*width/8 bytes.
func NewRaster(width, height int, buf []byte) (*Raster, error) {
	if width <= 0 || width&7 != 0 || height <= 0 {
		return nil, fmt.Errorf("grapher: invalid raster size %dx%d", width, height)
	}
	stride := width / 8
	size := stride * height
	if buf == nil {
		buf = make([]byte, size)
	} else if len(buf) < size {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrAllocation, size, len(buf))
	} else {
		buf = buf[:size]
		clear(buf)
	}
	return &Raster{pix: buf, width: width, height: height, stride: stride}, nil
}

// Width returns the width in pixels.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the height in pixels.
func (r *Raster) Height() int {
	return r.height
}

// Stride returns the number of bytes per row.
func (r *Raster) Stride() int {
	return r.stride
}

// Pix returns the packed pixels. The slice aliases the raster.
func (r *Raster) Pix() []byte {
	return r.pix
}

// Row returns the packed pixels of row y. The slice aliases the raster.
func (r *Raster) Row(y int) []byte {
	return r.pix[y*r.stride : (y+1)*r.stride]
}

// Clear turns every pixel off.
func (r *Raster) Clear() {
	clear(r.pix)
}

// SetPixel turns on the pixel at (x, y).
//
// Coordinates outside the raster return ErrOutOfBounds and leave the raster
// untouched.
func (r *Raster) SetPixel(x, y int) error {
	if !r.contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, x, y, r.width, r.height)
	}
	r.pix[y*r.stride+x/8] |= 0x80 >> (x % 8)
	return nil
}

// ClearPixel turns off the pixel at (x, y).
func (r *Raster) ClearPixel(x, y int) error {
	if !r.contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d", ErrOutOfBounds, x, y, r.width, r.height)
	}
	r.pix[y*r.stride+x/8] &^= 0x80 >> (x % 8)
	return nil
}

// Pixel reports whether the pixel at (x, y) is on. Out of bounds pixels are
// off.
func (r *Raster) Pixel(x, y int) bool {
	if !r.contains(x, y) {
		return false
	}
	return r.pix[y*r.stride+x/8]&(0x80>>(x%8)) != 0
}

// FillColumns turns on columns [x0, x1) on every row.
func (r *Raster) FillColumns(x0, x1 int) error {
	for y := range r.height {
		for x := x0; x < x1; x++ {
			if err := r.SetPixel(x, y); err != nil {
				return err
			}
		}
	}
	return nil
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image. Min is always {0, 0}.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	return image1bit.Bit(r.Pixel(x, y))
}

// Set implements draw.Image. Pixels outside the raster are ignored, as
// image/draw expects.
func (r *Raster) Set(x, y int, c color.Color) {
	if !r.contains(x, y) {
		return
	}
	if image1bit.BitModel.Convert(c).(image1bit.Bit) {
		_ = r.SetPixel(x, y)
	} else {
		_ = r.ClearPixel(x, y)
	}
}

func (r *Raster) String() string {
	return fmt.Sprintf("Raster(%d,%d)", r.width, r.height)
}

func (r *Raster) contains(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

var _ draw.Image = &Raster{}

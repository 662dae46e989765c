// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Label layout inside a strip. TomThumb glyphs are 6 pixels high with the
// baseline on the 5th row.
const (
	labelX        = border + 4
	labelBaseline = 10
)

var ink = color.RGBA{A: 0xff}

// PrintLabel prints text on a bordered strip of its own, typically the range
// of the graph before the first sample. It does not change the graph state.
//
// Text that does not fit runs into the right border and is cut there.
func (g *Grapher) PrintLabel(text string) error {
	if err := g.drawBorder(); err != nil {
		return err
	}
	tinyfont.WriteLine(g.r.Displayer(), &tinyfont.TomThumb, labelX, labelBaseline, text, ink)
	if err := writeFrame(g.w, g.r, &g.hdr); err != nil {
		return fmt.Errorf("grapher: sink: %w", err)
	}
	return nil
}

// Displayer returns a drivers.Displayer drawing into r, so tinyfont and the
// other TinyGo drawing packages can render on a strip.
//
// A fully transparent color clears the pixel, any other color sets it.
// Pixels outside the raster are dropped.
func (r *Raster) Displayer() drivers.Displayer {
	return rasterDisplay{r: r}
}

type rasterDisplay struct {
	r *Raster
}

func (d rasterDisplay) Size() (x, y int16) {
	return int16(d.r.width), int16(d.r.height)
}

func (d rasterDisplay) SetPixel(x, y int16, c color.RGBA) {
	if c.A == 0 {
		_ = d.r.ClearPixel(int(x), int(y))
		return
	}
	_ = d.r.SetPixel(int(x), int(y))
}

// Display is a no-op, the raster is sent with WriteFrame.
func (d rasterDisplay) Display() error {
	return nil
}

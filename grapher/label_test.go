// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"bytes"
	"image/color"
	"testing"
)

func TestPrintLabel(t *testing.T) {
	var sink bytes.Buffer
	g := newTestGrapher(t, &sink, Opts{Min: 0, Max: 100})
	_ = g.RecordValue(30)
	if err := g.PrintLabel("0 .. 100"); err != nil {
		t.Fatal(err)
	}
	if sink.Len() != FrameSize {
		t.Fatalf("wrote %d bytes, want %d", sink.Len(), FrameSize)
	}
	r := g.Raster()
	text := 0
	for y := range Height {
		for _, x := range []int{0, 1, WidthPixels - 2, WidthPixels - 1} {
			if !r.Pixel(x, y) {
				t.Errorf("border pixel (%d, %d) not set", x, y)
			}
		}
		for x := border; x < WidthPixels-border; x++ {
			if r.Pixel(x, y) {
				text++
				if x < labelX {
					t.Errorf("text pixel (%d, %d) left of the label origin", x, y)
				}
			}
		}
	}
	if text == 0 {
		t.Error("label drew no text")
	}
	if col, ok := g.Last(); !ok || col != g.Scale(30) {
		t.Errorf("Last() = %d, %v after PrintLabel", col, ok)
	}
}

func TestDisplayer(t *testing.T) {
	r, err := NewRaster(WidthPixels, Height, nil)
	if err != nil {
		t.Fatal(err)
	}
	d := r.Displayer()
	if x, y := d.Size(); x != WidthPixels || y != Height {
		t.Errorf("Size() = %d, %d", x, y)
	}
	d.SetPixel(9, 4, color.RGBA{R: 0xff, A: 0xff})
	d.SetPixel(-1, 4, color.RGBA{A: 0xff})
	d.SetPixel(9, 16, color.RGBA{A: 0xff})
	if !r.Pixel(9, 4) || countPixels(r) != 1 {
		t.Errorf("SetPixel() did not set exactly (9, 4)")
	}
	d.SetPixel(9, 4, color.RGBA{})
	if r.Pixel(9, 4) {
		t.Error("transparent SetPixel() did not clear the pixel")
	}
	if err := d.Display(); err != nil {
		t.Error(err)
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pngstrip

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
)

func record(t *testing.T, opts *Opts, values ...int) *Recorder {
	t.Helper()
	rec, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	g, err := grapher.New(rec, &grapher.Opts{Min: 0, Max: 100})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range values {
		if err := g.RecordValue(v); err != nil {
			t.Fatal(err)
		}
	}
	return rec
}

func gray(img image.Image, x, y int) uint32 {
	r, _, _, _ := img.At(x, y).RGBA()
	return r >> 8
}

func TestImage(t *testing.T) {
	rec := record(t, &Opts{Scale: 2}, 0, 100, 50)
	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rec.Len())
	}
	img, err := rec.Image()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 2*grapher.WidthPixels, 2*2*grapher.Height); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	for _, tc := range []struct {
		dot  image.Point
		want uint32
	}{
		{image.Pt(0, 0), 0},
		{image.Pt(383, 31), 0},
		{image.Pt(2, 0), 0},
		{image.Pt(100, 15), 0xff},
		{image.Pt(200, 3), 0xff},
	} {
		if got := gray(img, 2*tc.dot.X+1, 2*tc.dot.Y+1); got != tc.want {
			t.Errorf("dot %v = %#x, want %#x", tc.dot, got, tc.want)
		}
	}
}

func TestTitle(t *testing.T) {
	rec := record(t, &Opts{Title: "0 .. 100", FontSize: 12, Scale: 1}, 0, 100)
	img, err := rec.Image()
	if err != nil {
		t.Fatal(err)
	}
	th := rec.titleHeight()
	if th <= 0 {
		t.Fatalf("titleHeight() = %d", th)
	}
	if got := img.Bounds().Dy(); got != th+grapher.Height {
		t.Errorf("height = %d, want %d", got, th+grapher.Height)
	}
	dark := 0
	for y := range th {
		for x := range img.Bounds().Dx() {
			if gray(img, x, y) < 0x80 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("title not drawn")
	}
}

func TestMaxStrips(t *testing.T) {
	rec := record(t, &Opts{MaxStrips: 3}, 0, 10, 20, 30, 40, 50)
	if rec.Len() != 3 {
		t.Errorf("Len() = %d, want 3", rec.Len())
	}
}

func TestEncodePNG(t *testing.T) {
	rec := record(t, &Opts{}, 10, 90)
	var b bytes.Buffer
	if err := rec.EncodePNG(&b); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, grapher.WidthPixels, grapher.Height); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	path := filepath.Join(t.TempDir(), "roll.png")
	if err := rec.SavePNG(path); err != nil {
		t.Fatal(err)
	}
}

func TestEmpty(t *testing.T) {
	rec, err := New(&DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Image(); err == nil {
		t.Error("Image() succeeded without strips")
	}
	if _, err := New(&Opts{Scale: -1}); err == nil {
		t.Error("New() accepted a negative scale")
	}
}

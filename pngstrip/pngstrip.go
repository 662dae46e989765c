// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pngstrip records the bitmap strips sent to a thermal printer and
// renders them as a paper roll, black dots on white, in a PNG image.
//
// It is a drop-in replacement for the printer when developing on a
// workstation or for archiving what was printed.
package pngstrip

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	FontSize: 14,
	Scale:    2,
}

// Opts defines the options for a Recorder.
type Opts struct {
	// Title is printed above the first strip when not empty.
	Title string
	// FontSize is the title size in points.
	FontSize float64
	// Scale is the size in image pixels of one printer dot.
	Scale int
	// MaxStrips bounds memory use: older strips are dropped once the limit
	// is reached. Zero keeps everything.
	MaxStrips int
}

// Recorder is an io.Writer accepting the printer byte stream.
type Recorder struct {
	opts   Opts
	face   font.Face
	dec    grapher.FrameDecoder
	strips []*grapher.Raster
}

// New returns a Recorder.
func New(opts *Opts) (*Recorder, error) {
	if opts.Scale < 0 || opts.MaxStrips < 0 {
		return nil, fmt.Errorf("pngstrip: invalid options %+v", *opts)
	}
	r := &Recorder{opts: *opts}
	if r.opts.Scale == 0 {
		r.opts.Scale = 1
	}
	if r.opts.Title != "" {
		size := r.opts.FontSize
		if size <= 0 {
			size = DefaultOpts.FontSize
		}
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("pngstrip: %w", err)
		}
		r.face = truetype.NewFace(f, &truetype.Options{Size: size})
	}
	r.dec.Handle = r.add
	return r, nil
}

func (r *Recorder) String() string {
	return fmt.Sprintf("pngstrip.Recorder{%d strips}", len(r.strips))
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	n, err := r.dec.Write(p)
	if err != nil {
		return n, fmt.Errorf("pngstrip: %w", err)
	}
	return n, nil
}

// Len returns the number of strips recorded.
func (r *Recorder) Len() int {
	return len(r.strips)
}

func (r *Recorder) add(s *grapher.Raster) error {
	if r.opts.MaxStrips > 0 && len(r.strips) == r.opts.MaxStrips {
		copy(r.strips, r.strips[1:])
		r.strips = r.strips[:len(r.strips)-1]
	}
	r.strips = append(r.strips, s)
	return nil
}

// Image renders the paper roll.
func (r *Recorder) Image() (image.Image, error) {
	dc, err := r.render()
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG writes the paper roll to w.
func (r *Recorder) EncodePNG(w io.Writer) error {
	dc, err := r.render()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG writes the paper roll to the file path.
func (r *Recorder) SavePNG(path string) error {
	dc, err := r.render()
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func (r *Recorder) titleHeight() int {
	if r.face == nil {
		return 0
	}
	return r.face.Metrics().Height.Ceil() * 2
}

func (r *Recorder) render() (*gg.Context, error) {
	if len(r.strips) == 0 {
		return nil, errors.New("pngstrip: no strips recorded")
	}
	s := r.opts.Scale
	w, h := 0, r.titleHeight()
	for _, st := range r.strips {
		w = max(w, st.Width()*s)
		h += st.Height() * s
	}
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	if r.face != nil {
		dc.SetFontFace(r.face)
		dc.DrawStringAnchored(r.opts.Title, float64(w)/2, float64(r.titleHeight())/2, 0.5, 0.5)
	}
	top := r.titleHeight()
	for _, st := range r.strips {
		for y := range st.Height() {
			for x := range st.Width() {
				if st.Pixel(x, y) {
					dc.DrawRectangle(float64(x*s), float64(top+y*s), float64(s), float64(s))
				}
			}
		}
		top += st.Height() * s
	}
	dc.Fill()
	return dc, nil
}

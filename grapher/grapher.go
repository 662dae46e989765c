// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// border is the width in pixels of the vertical border drawn on each edge.
const border = 2

// Opts defines the options for a Grapher.
type Opts struct {
	// Min and Max are the expected range of the samples. Max must be greater
	// than Min.
	Min int
	Max int
	// Strict rejects samples outside [Min, Max] with ErrOutOfRange. Otherwise
	// they are scaled without clamping and only rejected once they land
	// outside the raster.
	Strict bool
	// Line selects the line drawing variant. The zero value is LineTruncated.
	Line LineMode
	// Buffer optionally provides the raster storage. It must be at least
	// Height*WidthBytes long.
	Buffer []byte
}

// Grapher turns a stream of samples into printed graph strips.
type Grapher struct {
	w      io.Writer
	min    int
	max    int
	strict bool
	mode   LineMode
	r      *Raster
	hdr    [HeaderSize]byte

	last   int
	primed bool
}

// New returns a Grapher that sends its strips to w, usually a thermal.Dev.
func New(w io.Writer, opts *Opts) (*Grapher, error) {
	if w == nil {
		return nil, errors.New("grapher: nil sink")
	}
	if opts.Max <= opts.Min {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, opts.Min, opts.Max)
	}
	if !opts.Line.valid() {
		return nil, fmt.Errorf("grapher: unknown line mode %d", int(opts.Line))
	}
	r, err := NewRaster(WidthPixels, Height, opts.Buffer)
	if err != nil {
		return nil, err
	}
	return &Grapher{
		w:      w,
		min:    opts.Min,
		max:    opts.Max,
		strict: opts.Strict,
		mode:   opts.Line,
		r:      r,
	}, nil
}

func (g *Grapher) String() string {
	return fmt.Sprintf("Grapher{[%d, %d], %s}", g.min, g.max, g.mode)
}

// Scale maps v from [Min, Max] to a column in [2, WidthPixels-2].
//
// Values outside [Min, Max] are not clamped and may map outside the raster.
//
// The arithmetic is done in float32 so columns match strips printed by 8 bit
// firmware, where float is 32 bit.
func (g *Grapher) Scale(v int) int {
	frac := float32(float32(v-g.min) / float32(g.max-g.min))
	return int(float32(frac*float32(WidthPixels-2*border))) + border
}

// Last returns the column of the previous sample. ok is false until the first
// sample has been recorded.
func (g *Grapher) Last() (col int, ok bool) {
	return g.last, g.primed
}

// Raster returns the strip most recently drawn. It is overwritten by the next
// call to RecordValue or PrintLabel.
func (g *Grapher) Raster() *Raster {
	return g.r
}

// RecordValue adds a sample to the graph.
//
// The first sample is only remembered. Each following sample draws the
// segment joining it to the previous one and prints it as one strip.
//
// When the sink fails, the error is returned and the previous sample is kept
// so the next strip starts where the paper left off.
func (g *Grapher) RecordValue(v int) error {
	if g.strict && (v < g.min || v > g.max) {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, g.min, g.max)
	}
	col := g.Scale(v)
	if col < 0 || col >= WidthPixels {
		return fmt.Errorf("%w: value %d maps to column %d", ErrOutOfBounds, v, col)
	}
	if !g.primed {
		g.last = col
		g.primed = true
		return nil
	}
	if err := g.drawBorder(); err != nil {
		return err
	}
	if _, err := g.r.DrawLine(image.Pt(g.last, 0), image.Pt(col, Height-1), g.mode); err != nil {
		return err
	}
	if err := writeFrame(g.w, g.r, &g.hdr); err != nil {
		return fmt.Errorf("grapher: sink: %w", err)
	}
	g.last = col
	return nil
}

// drawBorder clears the raster and draws the left and right borders.
func (g *Grapher) drawBorder() error {
	g.r.Clear()
	if err := g.r.FillColumns(0, border); err != nil {
		return err
	}
	return g.r.FillColumns(WidthPixels-border, WidthPixels)
}

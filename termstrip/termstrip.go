// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termstrip implements a printer emulator that draws the bitmap
// strips sent to a thermal printer on the terminal (stdout) using ANSI color
// codes.
//
// Useful while you are waiting for your thermal printer and paper rolls to
// come by mail.
package termstrip

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this emulator.
type Opts struct {
	// W is where the strips are drawn. Defaults to stdout.
	W io.Writer
	// Scale is the number of dots per character cell. A cell is inked when
	// any of its dots is set. Defaults to 4, which fits 384 dots in 96
	// columns.
	Scale   int
	Palette *ansi256.Palette

	_ struct{}
}

var (
	paper = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	ink   = color.NRGBA{0x00, 0x00, 0x00, 0xff}
)

// Dev is a thermal printer emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette
	dec     grapher.FrameDecoder

	paper string
	ink   string
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 4
	}
	d := &Dev{
		w:       w,
		scale:   scale,
		palette: *p,
	}
	d.paper = d.palette.Block(paper)
	d.ink = d.palette.Block(ink)
	d.dec.Handle = d.refresh
	return d
}

func (d *Dev) String() string {
	return "TermStrip"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Write accepts the byte stream sent to a printer and draws every complete
// bitmap strip.
func (d *Dev) Write(p []byte) (int, error) {
	n, err := d.dec.Write(p)
	if err != nil {
		return n, fmt.Errorf("termstrip: %w", err)
	}
	return n, nil
}

func (d *Dev) refresh(r *grapher.Raster) error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	for y := range r.Height() {
		_, _ = d.buf.WriteString("\033[0m")
		for x := 0; x < r.Width(); x += d.scale {
			cell := d.paper
			for i := x; i < x+d.scale; i++ {
				if r.Pixel(i, y) {
					cell = d.ink
					break
				}
			}
			_, _ = d.buf.WriteString(cell)
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ io.Writer = &Dev{}
var _ fmt.Stringer = &Dev{}

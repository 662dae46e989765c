// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import (
	"fmt"
	"io"
)

// Printer command bytes.
const (
	cmdDC2    = 0x12 // 18
	cmdBitmap = 0x2A // 42, '*'
)

// HeaderSize is the number of bytes sent before the raster data of a frame.
const HeaderSize = 4

// FrameSize is the number of bytes sent for each strip drawn by a Grapher.
const FrameSize = HeaderSize + Height*WidthBytes

// WriteFrame sends r to w as a "DC2 * r n" bitmap print command.
//
// The raster must have at most 255 rows and 255 bytes per row.
func WriteFrame(w io.Writer, r *Raster) error {
	var hdr [HeaderSize]byte
	return writeFrame(w, r, &hdr)
}

// writeFrame uses hdr as scratch space so callers can avoid allocating it.
func writeFrame(w io.Writer, r *Raster, hdr *[HeaderSize]byte) error {
	if r.height > 255 || r.stride > 255 {
		return fmt.Errorf("grapher: raster %dx%d too large for a bitmap command", r.width, r.height)
	}
	*hdr = [HeaderSize]byte{cmdDC2, cmdBitmap, byte(r.height), byte(r.stride)}
	if err := writeFull(w, hdr[:]); err != nil {
		return err
	}
	return writeFull(w, r.pix)
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// FrameDecoder splits a byte stream produced by WriteFrame back into rasters.
//
// It accepts the stream in chunks of any size, one byte at a time included.
// Handle is called once per complete frame with a freshly allocated raster
// that it may keep.
type FrameDecoder struct {
	Handle func(r *Raster) error

	hdr  [HeaderSize]byte
	nhdr int
	buf  []byte
	need int
}

// Write implements io.Writer.
func (d *FrameDecoder) Write(p []byte) (int, error) {
	for i := 0; i < len(p); {
		if d.nhdr < HeaderSize {
			b := p[i]
			i++
			switch d.nhdr {
			case 0:
				if b != cmdDC2 {
					return i - 1, fmt.Errorf("%w: 0x%02x", ErrBadCommand, b)
				}
			case 1:
				if b != cmdBitmap {
					d.nhdr = 0
					return i - 1, fmt.Errorf("%w: DC2 0x%02x", ErrBadCommand, b)
				}
			}
			d.hdr[d.nhdr] = b
			d.nhdr++
			if d.nhdr == HeaderSize {
				if d.hdr[2] == 0 || d.hdr[3] == 0 {
					d.nhdr = 0
					continue
				}
				d.need = int(d.hdr[2]) * int(d.hdr[3])
				if cap(d.buf) < d.need {
					d.buf = make([]byte, 0, d.need)
				}
				d.buf = d.buf[:0]
			}
			continue
		}
		n := min(d.need-len(d.buf), len(p)-i)
		d.buf = append(d.buf, p[i:i+n]...)
		i += n
		if len(d.buf) == d.need {
			d.nhdr = 0
			if err := d.emit(); err != nil {
				return i, err
			}
		}
	}
	return len(p), nil
}

func (d *FrameDecoder) emit() error {
	if d.Handle == nil {
		return nil
	}
	r, err := NewRaster(int(d.hdr[3])*8, int(d.hdr[2]), nil)
	if err != nil {
		return err
	}
	copy(r.pix, d.buf)
	return d.Handle(r)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thermal

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	esc = 0x1b
	dc2 = 0x12

	cmdInit    = 0x40 // ESC @
	cmdFeed    = 0x64 // ESC d n
	cmdHeat    = 0x37 // ESC 7 n1 n2 n3
	cmdDensity = 0x23 // DC2 # n
)

// bitsPerByte is the serial frame of one byte (start, 8 data, 2 stop) as
// counted by the printer timing.
const bitsPerByte = 11

// DefaultOpts is the recommended default options, matching the factory
// settings of the Adafruit printer.
var DefaultOpts = Opts{
	Baud:         19200 * physic.Hertz,
	ChunkSize:    64,
	BusyTimeout:  5 * time.Second,
	HeatDots:     11,
	HeatTime:     120,
	HeatInterval: 40,
	Density:      10,
	BreakTime:    2,
}

// Opts defines the options for the device.
type Opts struct {
	// Baud is the serial speed. When non zero, writes are paced so the
	// printer input buffer does not overflow. Leave it at zero when Busy is
	// wired or the transport already paces the data.
	Baud physic.Frequency
	// ChunkSize is the maximum number of bytes sent in one transaction.
	// Zero means unlimited.
	ChunkSize int
	// Busy is the printer DTR pin. When set, each chunk waits for it to be
	// Low.
	Busy gpio.PinIn
	// BusyTimeout bounds how long a chunk waits for Busy. Zero waits forever.
	BusyTimeout time.Duration
	// HeatDots is the number of heating dots, in units of 8 dots minus one.
	// More dots print faster but draw more current.
	HeatDots byte
	// HeatTime is the heating time in 10µs units. Longer is darker.
	HeatTime byte
	// HeatInterval is the heating interval in 10µs units.
	HeatInterval byte
	// Density is the print density, 0 to 31, 50% + 5% * Density.
	Density byte
	// BreakTime is the print break time, 0 to 7, in 250µs units.
	BreakTime byte
}

// Dev is a handle to a thermal printer.
type Dev struct {
	c    conn.Conn
	w    io.Writer
	opts Opts
}

// NewWriter returns a Dev that sends its commands to w, usually an open serial
// port.
func NewWriter(w io.Writer, opts *Opts) (*Dev, error) {
	if w == nil {
		return nil, errors.New("thermal: nil writer")
	}
	return newDev(nil, w, opts)
}

// NewConn returns a Dev that sends its commands over c with Tx().
func NewConn(c conn.Conn, opts *Opts) (*Dev, error) {
	if c == nil {
		return nil, errors.New("thermal: nil conn")
	}
	return newDev(c, nil, opts)
}

func newDev(c conn.Conn, w io.Writer, opts *Opts) (*Dev, error) {
	if opts.ChunkSize < 0 {
		return nil, fmt.Errorf("thermal: invalid chunk size %d", opts.ChunkSize)
	}
	if opts.Density > 31 || opts.BreakTime > 7 {
		return nil, fmt.Errorf("thermal: invalid density %d/%d", opts.Density, opts.BreakTime)
	}
	if opts.Busy != nil {
		if err := opts.Busy.In(gpio.PullNoChange, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("thermal: busy pin: %w", err)
		}
	}
	return &Dev{c: c, w: w, opts: *opts}, nil
}

func (d *Dev) String() string {
	if d.c != nil {
		return fmt.Sprintf("thermal.Dev{%s}", d.c)
	}
	return fmt.Sprintf("thermal.Dev{%T}", d.w)
}

// Init resets the printer and loads the heating and density settings.
func (d *Dev) Init() error {
	cmds := []byte{
		esc, cmdInit,
		esc, cmdHeat, d.opts.HeatDots, d.opts.HeatTime, d.opts.HeatInterval,
		dc2, cmdDensity, d.opts.BreakTime<<5 | d.opts.Density,
	}
	_, err := d.Write(cmds)
	return err
}

// Feed advances the paper by lines text lines.
func (d *Dev) Feed(lines int) error {
	if lines < 0 || lines > 255 {
		return fmt.Errorf("thermal: invalid feed %d", lines)
	}
	_, err := d.Write([]byte{esc, cmdFeed, byte(lines)})
	return err
}

// Write sends raw bytes to the printer, such as the strips produced by a
// grapher.Grapher.
func (d *Dev) Write(p []byte) (n int, err error) {
	for n < len(p) {
		end := len(p)
		if d.opts.ChunkSize > 0 && end-n > d.opts.ChunkSize {
			end = n + d.opts.ChunkSize
		}
		if err = d.waitReady(); err != nil {
			return n, err
		}
		chunk := p[n:end]
		if d.c != nil {
			if err = d.c.Tx(chunk, nil); err != nil {
				return n, fmt.Errorf("thermal: %w", err)
			}
			n = end
		} else {
			var w int
			w, err = d.w.Write(chunk)
			n += w
			if err != nil {
				return n, fmt.Errorf("thermal: %w", err)
			}
			if w != len(chunk) {
				return n, io.ErrShortWrite
			}
		}
		if d.opts.Baud != 0 {
			time.Sleep(d.byteTime() * time.Duration(len(chunk)))
		}
	}
	return n, nil
}

// Halt implements conn.Resource.
//
// It feeds the paper so the last strip clears the tear bar, then closes the
// writer when it implements io.Closer. The writer is closed even if the feed
// fails; the feed error is returned first.
func (d *Dev) Halt() error {
	err := d.Feed(3)
	if cl, ok := d.w.(io.Closer); ok {
		if err2 := cl.Close(); err == nil {
			err = err2
		}
	}
	return err
}

func (d *Dev) byteTime() time.Duration {
	return bitsPerByte * d.opts.Baud.Period()
}

// waitReady blocks while the printer reports busy.
func (d *Dev) waitReady() error {
	if d.opts.Busy == nil {
		return nil
	}
	deadline := time.Now().Add(d.opts.BusyTimeout)
	for d.opts.Busy.Read() == gpio.High {
		timeout := time.Duration(-1)
		if d.opts.BusyTimeout > 0 {
			if timeout = time.Until(deadline); timeout <= 0 {
				return errors.New("thermal: printer busy")
			}
		}
		d.opts.Busy.WaitForEdge(timeout)
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ io.Writer = &Dev{}

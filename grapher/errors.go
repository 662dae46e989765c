// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher

import "errors"

var (
	// ErrInvalidRange is returned by New when Opts.Max is not greater than
	// Opts.Min.
	ErrInvalidRange = errors.New("grapher: max must be greater than min")
	// ErrAllocation is returned when the raster storage cannot be satisfied.
	ErrAllocation = errors.New("grapher: raster buffer too small")
	// ErrOutOfBounds is returned when a pixel falls outside the raster.
	ErrOutOfBounds = errors.New("grapher: pixel out of bounds")
	// ErrOutOfRange is returned in strict mode for samples outside [Min, Max].
	ErrOutOfRange = errors.New("grapher: value out of range")
	// ErrBadCommand is returned by FrameDecoder on a byte stream that is not a
	// sequence of bitmap commands.
	ErrBadCommand = errors.New("grapher: unexpected printer command")
)

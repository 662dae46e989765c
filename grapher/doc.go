// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package grapher draws a scrolling line graph of integer samples as a series
// of 384x16 dot bitmap strips for a thermal printer.
//
// Each sample after the first produces one strip: the raster is cleared, a
// two dot border is drawn on both edges, a line is drawn from the previous
// sample (top row) to the current one (bottom row) and the strip is sent to
// the sink as a "DC2 *" bitmap command. Printed one after the other, the
// strips form a continuous graph running down the paper.
//
// # Wire format
//
//	0x12 0x2A <rows> <bytes per row> <rows*bytes per row raw bytes>
//
// Bits are packed most significant bit first, left to right, row major.
//
// # Line drawing
//
// The default LineTruncated mode uses a Bresenham loop that stops as soon as
// either coordinate reaches its target. Perfectly vertical segments are
// therefore not drawn at all and the last row of a strip is usually left
// empty. LineComplete draws the full segment instead.
//
// Together with the float32 arithmetic in Grapher.Scale, the default mode
// reproduces existing printouts bit for bit.
//
// # Memory
//
// The raster is allocated once and reused for every sample; RecordValue does
// not allocate. Opts.Buffer can supply the storage up front on boards where
// heap allocation is undesirable.
//
// A Grapher is not safe for concurrent use.
package grapher

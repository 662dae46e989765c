// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermal drives the common 58mm TTL serial thermal receipt printers
// (Adafruit mini thermal printer, CSN-A2, QR204 and clones) that understand
// the "DC2 *" bitmap command.
//
// The printer has a small input buffer and no flow control on most boards.
// Data is either paced by the time it takes to print at the configured baud
// rate, or throttled with the DTR (busy) pin when it is wired.
//
// # Wiring
//
// Connect the printer RX to the host TX. Optionally connect the printer DTR
// pin to a GPIO and pass it as Opts.Busy. The printer needs its own 5-9V
// supply able to source 1.5A while printing.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/CSN-A2%20User%20Manual.pdf
package thermal

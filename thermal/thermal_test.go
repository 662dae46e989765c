// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thermal

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func TestInit(t *testing.T) {
	var b bytes.Buffer
	opts := DefaultOpts
	opts.Baud = 0
	dev, err := NewWriter(&b, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x1b, 0x40,
		0x1b, 0x37, 11, 120, 40,
		0x12, 0x23, 2<<5 | 10,
	}
	if diff := cmp.Diff(b.Bytes(), want); diff != "" {
		t.Errorf("Init() (-got +want):\n%s", diff)
	}
}

func TestFeed(t *testing.T) {
	var b bytes.Buffer
	dev, err := NewWriter(&b, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Feed(4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b.Bytes(), []byte{0x1b, 0x64, 4}); diff != "" {
		t.Errorf("Feed() (-got +want):\n%s", diff)
	}
	if err := dev.Feed(256); err == nil {
		t.Error("Feed(256) succeeded")
	}
}

func TestNewInvalid(t *testing.T) {
	for _, opts := range []Opts{{ChunkSize: -1}, {Density: 32}, {BreakTime: 8}} {
		if _, err := NewWriter(&bytes.Buffer{}, &opts); err == nil {
			t.Errorf("NewWriter(%+v) succeeded", opts)
		}
	}
	if _, err := NewWriter(nil, &Opts{}); err == nil {
		t.Error("NewWriter(nil) succeeded")
	}
	if _, err := NewConn(nil, &Opts{}); err == nil {
		t.Error("NewConn(nil) succeeded")
	}
}

func TestWriteConnChunks(t *testing.T) {
	record := &conntest.Record{}
	dev, err := NewConn(record, &Opts{ChunkSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	n, err := dev.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	if err != nil || n != 10 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	expected := []conntest.IO{
		{W: []byte{1, 2, 3, 4}},
		{W: []byte{5, 6, 7, 8}},
		{W: []byte{9, 10}},
	}
	if diff := cmp.Diff(record.Ops, expected, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Tx() (-got +want):\n%s", diff)
	}
}

func TestWriteConnError(t *testing.T) {
	pb := &conntest.Playback{DontPanic: true}
	dev, err := NewConn(pb, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if n, err := dev.Write([]byte{1}); err == nil || n != 0 {
		t.Errorf("Write() = %d, %v, want error", n, err)
	}
}

func TestWritePacing(t *testing.T) {
	var b bytes.Buffer
	dev, err := NewWriter(&b, &Opts{Baud: 115200 * physic.Hertz})
	if err != nil {
		t.Fatal(err)
	}
	if got := dev.byteTime(); got < 95*time.Microsecond || got > 96*time.Microsecond {
		t.Errorf("byteTime() = %s, want ~95.5µs", got)
	}
	start := time.Now()
	if _, err := dev.Write(make([]byte, 100)); err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d < 9*time.Millisecond {
		t.Errorf("Write() of 100 bytes took %s, want at least 9.5ms", d)
	}
}

func TestWriteBusy(t *testing.T) {
	var b bytes.Buffer
	busy := &gpiotest.Pin{N: "DTR", L: gpio.Low, EdgesChan: make(chan gpio.Level)}
	dev, err := NewWriter(&b, &Opts{Busy: busy, BusyTimeout: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Write([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	busy.L = gpio.High
	if n, err := dev.Write([]byte{3}); err == nil || n != 0 {
		t.Errorf("Write() with printer busy = %d, %v, want timeout", n, err)
	}
	if diff := cmp.Diff(b.Bytes(), []byte{1, 2}); diff != "" {
		t.Errorf("written (-got +want):\n%s", diff)
	}
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestHalt(t *testing.T) {
	w := &closeRecorder{}
	dev, err := NewWriter(w, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if !w.closed {
		t.Error("Halt() did not close the writer")
	}
	if diff := cmp.Diff(w.Bytes(), []byte{0x1b, 0x64, 3}); diff != "" {
		t.Errorf("Halt() (-got +want):\n%s", diff)
	}
}

type failCloser struct {
	closed bool
}

func (f *failCloser) Write(p []byte) (int, error) {
	return 0, errors.New("unplugged")
}

func (f *failCloser) Close() error {
	f.closed = true
	return nil
}

func TestHaltFeedError(t *testing.T) {
	w := &failCloser{}
	dev, err := NewWriter(w, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Halt(); err == nil {
		t.Error("Halt() succeeded on a failing writer")
	}
	if !w.closed {
		t.Error("Halt() did not close the writer after a failed feed")
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestWriteShort(t *testing.T) {
	dev, err := NewWriter(shortWriter{}, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Write([]byte{1, 2, 3, 4}); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Write() = %v, want io.ErrShortWrite", err)
	}
}

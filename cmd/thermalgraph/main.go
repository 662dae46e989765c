// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// thermalgraph prints a scrolling line graph of the samples read from stdin,
// one integer per line, or from an MQTT topic.
//
// Examples:
//
//	sensor | thermalgraph -min 0 -max 50 -out /dev/serial0 -busy GPIO24
//	seq 0 5 100 | thermalgraph -out -
//	thermalgraph -mqtt broker:1883 -topic home/temp -field celsius -out roll.png
//	thermalgraph -bmx280 0x76 -quantity temperature -interval 1m -min 150 -max 300
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
	"github.com/GermanBionicSystems/thermalgrapher/mqttfeed"
	"github.com/GermanBionicSystems/thermalgrapher/pngstrip"
	"github.com/GermanBionicSystems/thermalgrapher/sensorfeed"
	"github.com/GermanBionicSystems/thermalgrapher/termstrip"
	"github.com/GermanBionicSystems/thermalgrapher/thermal"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// sink is where the strips go; Halt flushes it.
type sink interface {
	io.Writer
	Halt() error
}

// rawSink passes the printer stream through, e.g. to a pipe.
type rawSink struct {
	io.Writer
}

func (rawSink) Halt() error { return nil }

// pngSink saves the recorded roll on Halt.
type pngSink struct {
	*pngstrip.Recorder
	path string
}

func (p *pngSink) Halt() error {
	if p.Len() == 0 {
		return nil
	}
	return p.SavePNG(p.path)
}

func openSink(out, title string, baud int, busy string, logger *slog.Logger) (sink, error) {
	switch {
	case out == "-":
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return termstrip.New(&termstrip.Opts{}), nil
		}
		return rawSink{os.Stdout}, nil
	case strings.HasSuffix(out, ".png"):
		opts := pngstrip.DefaultOpts
		opts.Title = title
		rec, err := pngstrip.New(&opts)
		if err != nil {
			return nil, err
		}
		return &pngSink{Recorder: rec, path: out}, nil
	}
	opts := thermal.DefaultOpts
	opts.Baud = physic.Frequency(baud) * physic.Hertz
	if busy != "" {
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		p := gpioreg.ByName(busy)
		if p == nil {
			return nil, fmt.Errorf("unknown pin %q", busy)
		}
		opts.Busy = p
		opts.Baud = 0
	}
	f, err := os.OpenFile(out, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	dev, err := thermal.NewWriter(f, &opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := dev.Init(); err != nil {
		if err2 := dev.Halt(); err2 != nil {
			logger.Error("printer:halt-failed", slog.String("err", err2.Error()))
		}
		return nil, err
	}
	logger.Info("printer:ready", slog.String("dev", dev.String()))
	return dev, nil
}

// readValues records one sample per line of r. Blank lines are skipped, bad
// lines are logged.
func readValues(r io.Reader, field string, g *grapher.Grapher, logger *slog.Logger) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		v, err := mqttfeed.ParseValue([]byte(line), field)
		if err != nil {
			logger.Warn("input:bad-sample", slog.String("line", line), slog.String("err", err.Error()))
			continue
		}
		if err := g.RecordValue(v); err != nil {
			if errors.Is(err, grapher.ErrOutOfBounds) || errors.Is(err, grapher.ErrOutOfRange) {
				logger.Warn("grapher:rejected", slog.Int("value", v), slog.String("err", err.Error()))
				continue
			}
			return err
		}
	}
	return s.Err()
}

func senseValues(ctx context.Context, bus string, addr uint16, q sensorfeed.Quantity, interval time.Duration, g *grapher.Grapher, logger *slog.Logger) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return err
	}
	defer b.Close()
	dev, err := bmxx80.NewI2C(b, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return err
	}
	defer dev.Halt()
	logger.Info("sensor:ready", slog.String("dev", dev.String()), slog.String("quantity", q.String()))
	err = sensorfeed.Run(ctx, dev, g, &sensorfeed.Opts{Quantity: q, Interval: interval, Logger: logger})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func mainImpl() error {
	lo := flag.Int("min", 0, "lowest expected sample")
	hi := flag.Int("max", 100, "highest expected sample")
	out := flag.String("out", "-", "printer serial device, '-' for stdout or a .png file")
	baud := flag.Int("baud", 19200, "printer baud rate, used to pace the writes")
	busy := flag.String("busy", "", "GPIO connected to the printer DTR pin")
	label := flag.String("label", "", "text printed before the graph")
	strict := flag.Bool("strict", false, "reject samples outside [min, max]")
	complete := flag.Bool("complete", false, "draw complete line segments")
	field := flag.String("field", "", "JSON field holding the sample")
	broker := flag.String("mqtt", "", "MQTT broker host:port; reads stdin when empty")
	topic := flag.String("topic", "", "MQTT topic to subscribe to")
	bmx280 := flag.Uint("bmx280", 0, "I²C address of a BME280/BMP280 to sample, e.g. 0x76")
	i2cID := flag.String("i2c", "", "I²C bus to use")
	quantity := flag.String("quantity", "temperature", "measurement to graph: temperature (0.1°C), humidity (0.1%rH) or pressure (Pa)")
	interval := flag.Duration("interval", time.Minute, "sampling interval")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := openSink(*out, *label, *baud, *busy, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Halt(); err != nil {
			logger.Error("sink:halt-failed", slog.String("err", err.Error()))
		}
	}()

	opts := grapher.Opts{Min: *lo, Max: *hi, Strict: *strict}
	if *complete {
		opts.Line = grapher.LineComplete
	}
	g, err := grapher.New(s, &opts)
	if err != nil {
		return err
	}
	logger.Debug("grapher:ready", slog.String("grapher", g.String()))
	if *label != "" {
		if err := g.PrintLabel(*label); err != nil {
			return err
		}
	}

	if *broker == "" && *bmx280 == 0 {
		return readValues(os.Stdin, *field, g, logger)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *bmx280 != 0 {
		q, err := sensorfeed.ParseQuantity(*quantity)
		if err != nil {
			return err
		}
		return senseValues(ctx, *i2cID, uint16(*bmx280), q, *interval, g, logger)
	}
	hostname, _ := os.Hostname()
	feed := &mqttfeed.Feed{
		ID:         "thermalgraph-" + hostname,
		Addr:       *broker,
		Topic:      *topic,
		Field:      *field,
		Timeout:    10 * time.Second,
		RetryDelay: 2 * time.Second,
		Logger:     logger,
	}
	if err := feed.Run(ctx, g); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "thermalgraph: %s.\n", err)
		os.Exit(1)
	}
}

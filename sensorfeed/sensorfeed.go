// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensorfeed samples an environmental sensor at a fixed interval and
// graphs one of its measurements.
//
// Any periph device implementing physic.SenseEnv works, e.g. bmxx80, aht20 or
// sht4x.
package sensorfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
	"periph.io/x/conn/v3/physic"
)

// Recorder receives the samples, usually a *grapher.Grapher.
type Recorder interface {
	RecordValue(v int) error
}

// Sensor is the subset of physic.SenseEnv used here.
type Sensor interface {
	Sense(e *physic.Env) error
}

// Quantity selects the measurement graphed and its integer unit.
type Quantity int

const (
	// Temperature in tenths of °C.
	Temperature Quantity = iota
	// Humidity in tenths of %rH.
	Humidity
	// Pressure in Pa.
	Pressure
)

func (q Quantity) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	default:
		return fmt.Sprintf("Quantity(%d)", int(q))
	}
}

// ParseQuantity returns the Quantity named s.
func ParseQuantity(s string) (Quantity, error) {
	for q := Temperature; q <= Pressure; q++ {
		if q.String() == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("sensorfeed: unknown quantity %q", s)
}

// Value converts the selected measurement of e.
func (q Quantity) Value(e *physic.Env) int {
	switch q {
	case Humidity:
		return int(e.Humidity / (physic.PercentRH / 10))
	case Pressure:
		return int(e.Pressure / physic.Pascal)
	default:
		return int((e.Temperature - physic.ZeroCelsius) / (physic.Celsius / 10))
	}
}

// Opts defines the options for Run.
type Opts struct {
	Quantity Quantity
	// Interval between two samples. It is also the time one printed strip
	// represents.
	Interval time.Duration
	// Samples stops after that many samples. Zero runs until ctx is canceled.
	Samples int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Run samples s every opts.Interval and records the measurement.
//
// Samples the recorder rejects with grapher.ErrOutOfBounds or
// grapher.ErrOutOfRange are logged and skipped. It returns the first sensor
// error or any other recorder error.
func Run(ctx context.Context, s Sensor, rec Recorder, opts *Opts) error {
	if opts.Interval <= 0 {
		return errors.New("sensorfeed: invalid interval")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	t := time.NewTicker(opts.Interval)
	defer t.Stop()
	var e physic.Env
	for n := 0; opts.Samples == 0 || n < opts.Samples; n++ {
		if n != 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
		if err := s.Sense(&e); err != nil {
			return fmt.Errorf("sensorfeed: %w", err)
		}
		v := opts.Quantity.Value(&e)
		if err := rec.RecordValue(v); err != nil {
			if errors.Is(err, grapher.ErrOutOfBounds) || errors.Is(err, grapher.ErrOutOfRange) {
				log.Warn("grapher:rejected", slog.Int("value", v), slog.String("err", err.Error()))
				continue
			}
			return err
		}
	}
	return nil
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mqttfeed graphs the samples published on an MQTT topic, typically
// by a battery powered sensor that cannot drive the printer itself.
package mqttfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"strconv"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"
)

// Recorder receives the samples, usually a *grapher.Grapher.
type Recorder interface {
	RecordValue(v int) error
}

// Feed subscribes to a topic and records every sample published on it.
type Feed struct {
	ID    string
	Addr  string // broker host:port
	Topic string
	// Field is the JSON object field holding the sample. When empty the
	// payload is the sample itself, as text.
	Field    string
	Username string // optional
	Password string // optional, requires Username
	// Timeout bounds the dial, connect and subscribe steps.
	Timeout    time.Duration
	RetryDelay time.Duration
	Logger     *slog.Logger
	// Dial opens the broker connection. Defaults to a TCP net.Dialer.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Run connects to the broker and records samples until ctx is canceled. The
// connection is reestablished after RetryDelay when lost.
func (f *Feed) Run(ctx context.Context, rec Recorder) error {
	if f.Topic == "" {
		return errors.New("mqttfeed: empty topic")
	}
	for {
		err := f.runOnce(ctx, rec)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			err = errors.New("connection closed")
		}
		f.logger().Error("mqtt:disconnected", slog.String("err", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.RetryDelay):
		}
	}
}

func (f *Feed) runOnce(ctx context.Context, rec Recorder) error {
	log := f.logger()
	log.Info("socket:dialing", slog.String("addr", f.Addr))
	dial := f.Dial
	if dial == nil {
		d := net.Dialer{Timeout: f.Timeout}
		dial = d.DialContext
	}
	conn, err := dial(ctx, "tcp", f.Addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", f.Addr, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 1024)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, r io.Reader) error {
			payload, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			f.handle(rec, string(varPub.TopicName), payload)
			return nil
		},
	})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(f.ID))
	// No keepalive: HandleNext blocks in this goroutine so nothing could
	// send the pings.
	varconn.KeepAlive = 0
	if f.Username != "" {
		varconn.Username = []byte(f.Username)
		if f.Password != "" {
			varconn.Password = []byte(f.Password)
		}
	}

	cctx, cancel := f.withTimeout(ctx)
	err = client.Connect(cctx, conn, &varconn)
	cancel()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	log.Info("mqtt:connected")

	sctx, cancel := f.withTimeout(ctx)
	err = client.Subscribe(sctx, mqtt.VariablesSubscribe{
		PacketIdentifier: 1,
		TopicFilters: []mqtt.SubscribeRequest{
			{TopicFilter: []byte(f.Topic), QoS: mqtt.QoS0},
		},
	})
	cancel()
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", f.Topic, err)
	}
	log.Info("mqtt:subscribed", slog.String("topic", f.Topic))

	for client.IsConnected() {
		if err := client.HandleNext(); err != nil {
			return err
		}
	}
	return client.Err()
}

// handle records one publish. Bad samples are logged and skipped so a single
// garbled message does not stop the graph.
func (f *Feed) handle(rec Recorder, topic string, payload []byte) {
	log := f.logger()
	v, err := ParseValue(payload, f.Field)
	if err != nil {
		log.Warn("mqtt:bad-sample", slog.String("topic", topic), slog.String("err", err.Error()))
		return
	}
	if err := rec.RecordValue(v); err != nil {
		log.Error("grapher:record-failed", slog.Int("value", v), slog.String("err", err.Error()))
		return
	}
	log.Debug("grapher:recorded", slog.Int("value", v))
}

func (f *Feed) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.Timeout)
}

func (f *Feed) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// ParseValue extracts an integer sample from a payload.
//
// With an empty field the payload is a decimal number. Otherwise it is a JSON
// object and the number is read from that field. Fractional numbers are
// truncated toward zero.
func ParseValue(payload []byte, field string) (int, error) {
	text := string(bytes.TrimSpace(payload))
	if field != "" {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(payload, &obj); err != nil {
			return 0, fmt.Errorf("mqttfeed: %w", err)
		}
		raw, ok := obj[field]
		if !ok {
			return 0, fmt.Errorf("mqttfeed: no field %q", field)
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, fmt.Errorf("mqttfeed: field %q: %w", field, err)
		}
		text = n.String()
	}
	if v, err := strconv.Atoi(text); err == nil {
		return v, nil
	}
	fv, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(fv) || math.IsInf(fv, 0) || math.Abs(fv) > math.MaxInt32 {
		return 0, fmt.Errorf("mqttfeed: invalid sample %q", text)
	}
	return int(fv), nil
}

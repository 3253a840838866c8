// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// haigu-dht22 polls a Haigu DHT22 sensor and logs the readings. Readings
// can additionally be rendered as a live ANSI strip on the terminal and
// collected into a PNG trend chart on exit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/pajenicko/devices/haigudht22"
	"github.com/pajenicko/devices/termgauge"
	"github.com/pajenicko/devices/trendchart"
)

func main() {
	bus := flag.String("bus", "", "name of the I²C bus, empty for the first available")
	interval := flag.Duration("interval", 2*time.Second, "polling interval")
	count := flag.Int("n", 0, "number of readings to take, 0 for unlimited")
	gauge := flag.Bool("gauge", false, "render readings as a colored strip on the terminal")
	chart := flag.String("chart", "", "write a PNG trend chart to this path on exit")
	verbose := flag.Bool("v", false, "log every bus transaction")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if _, err := host.Init(); err != nil {
		fatal(log, "host init failed", err)
	}

	b, err := i2creg.Open(*bus)
	if err != nil {
		fatal(log, "failed to open I²C", err)
	}
	defer b.Close()

	opts := haigudht22.DefaultOpts
	if *verbose {
		opts.Logger = log
	}
	dev, err := haigudht22.NewI2C(b, &opts)
	if err != nil {
		fatal(log, "sensor initialization failed", err)
	}
	log.Info("sensor ready", "dev", dev.String())

	var strip *termgauge.Gauge
	if *gauge {
		strip = termgauge.New(&termgauge.Opts{})
		defer func() {
			if err := strip.Halt(); err != nil {
				log.Warn("gauge teardown failed", "err", err)
			}
		}()
	}
	var samples []trendchart.Sample

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

loop:
	for taken := 0; *count == 0 || taken < *count; taken++ {
		e := physic.Env{}
		if err := dev.Sense(&e); err != nil {
			// A discarded reading is not fatal; the next poll gets a
			// fresh conversion.
			var cksum *haigudht22.ChecksumError
			var timeout *haigudht22.ReadTimeoutError
			if errors.As(err, &cksum) || errors.As(err, &timeout) {
				log.Warn("reading discarded", "err", err)
			} else {
				fatal(log, "sensor failure", err)
			}
		} else {
			log.Info("reading",
				"temperature", fmt.Sprintf("%.1f°C", e.Temperature.Celsius()),
				"humidity", e.Humidity.String(),
			)
			if strip != nil {
				if err := strip.Push(e); err != nil {
					log.Warn("gauge render failed", "err", err)
				}
			}
			if *chart != "" {
				samples = append(samples, trendchart.Sample{Time: time.Now(), Env: e})
			}
		}

		select {
		case <-stop:
			break loop
		case <-ticker.C:
		}
	}

	if *chart != "" {
		if len(samples) < 2 {
			log.Warn("not enough samples for a chart", "samples", len(samples))
			return
		}
		c, err := trendchart.New(samples, &trendchart.Opts{Title: dev.String()})
		if err != nil {
			fatal(log, "chart rendering failed", err)
		}
		if err := c.SavePNG(*chart); err != nil {
			fatal(log, "chart write failed", err)
		}
		log.Info("chart written", "path", *chart, "samples", len(samples))
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termgauge renders a rolling window of temperature/humidity
// readings as a single row of colored blocks on the terminal (stdout)
// using ANSI color codes.
//
// Useful while watching a sensor settle without attaching a real display.
package termgauge

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of readings kept on screen. Leave 0 for 32.
	Width int
	// Palette used to quantize colors. Leave nil for ansi256.Default.
	Palette *ansi256.Palette
	// Writer receives the escape sequences. Leave nil for a colorable
	// stdout.
	Writer io.Writer
}

// Gauge displays readings at the console, newest on the right.
type Gauge struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	readings []physic.Env
	buf      bytes.Buffer
}

// New returns a Gauge that displays at the console.
func New(opts *Opts) *Gauge {
	width := opts.Width
	if width <= 0 {
		width = 32
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Gauge{
		w:        w,
		width:    width,
		palette:  *p,
		readings: make([]physic.Env, 0, width),
	}
}

func (g *Gauge) String() string {
	return "TermGauge"
}

// Halt resets the terminal colors so the prompt is not corrupted.
func (g *Gauge) Halt() error {
	_, err := g.w.Write([]byte("\n\033[0m"))
	return err
}

// Push appends a reading, evicting the oldest once the window is full, and
// redraws the strip.
func (g *Gauge) Push(e physic.Env) error {
	if len(g.readings) == g.width {
		copy(g.readings, g.readings[1:])
		g.readings = g.readings[:g.width-1]
	}
	g.readings = append(g.readings, e)
	return g.refresh()
}

// readingColor maps a reading onto a color: cold reads blue, hot reads red,
// with humidity driving the green channel.
func readingColor(e physic.Env) color.NRGBA {
	t := e.Temperature.Celsius()
	// -20°C..60°C mapped over the full channel range.
	warm := (t + 20.0) / 80.0
	if warm < 0 {
		warm = 0
	} else if warm > 1 {
		warm = 1
	}
	rh := float64(e.Humidity) / float64(physic.PercentRH) / 100.0
	if rh < 0 {
		rh = 0
	} else if rh > 1 {
		rh = 1
	}
	return color.NRGBA{
		R: byte(warm * 255),
		G: byte(rh * 255),
		B: byte((1 - warm) * 255),
		A: 255,
	}
}

func (g *Gauge) refresh() error {
	// Rewrite the row in place; buffered to keep allocation per call low.
	g.buf.Reset()
	_, _ = g.buf.WriteString("\r\033[0m")
	for _, e := range g.readings {
		_, _ = io.WriteString(&g.buf, g.palette.Block(readingColor(e)))
	}
	_, _ = g.buf.WriteString("\033[0m ")
	_, err := g.buf.WriteTo(g.w)
	return err
}

var _ fmt.Stringer = &Gauge{}

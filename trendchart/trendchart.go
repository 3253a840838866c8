// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trendchart renders collected temperature/humidity readings as a
// PNG line chart. Temperature is drawn in red against an auto-scaled axis,
// relative humidity in blue against a fixed 0–100% axis.
package trendchart

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/physic"
)

// Sample is a single timestamped reading.
type Sample struct {
	Time time.Time
	Env  physic.Env
}

// Opts represents the options available for the chart.
type Opts struct {
	// Width and Height of the rendered image in pixels. Leave 0 for
	// 800x400.
	Width  int
	Height int
	// Title drawn at the top of the chart.
	Title string
}

const margin = 40.0

var errTooFewSamples = errors.New("trendchart: need at least 2 samples")

// Chart renders samples to an in-memory drawing context.
type Chart struct {
	dc *gg.Context
}

// New renders the samples into a chart. At least two samples are required
// to span a time axis.
func New(samples []Sample, opts *Opts) (*Chart, error) {
	if len(samples) < 2 {
		return nil, errTooFewSamples
	}
	if opts == nil {
		opts = &Opts{}
	}
	w := opts.Width
	if w <= 0 {
		w = 800
	}
	h := opts.Height
	if h <= 0 {
		h = 400
	}

	face, err := fontFace(12)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)

	c := &Chart{dc: dc}
	c.drawFrame(opts.Title)
	c.drawSeries(samples)
	return c, nil
}

// SavePNG writes the rendered chart to path.
func (c *Chart) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}

// Image returns the rendered chart.
func (c *Chart) Image() image.Image {
	return c.dc.Image()
}

// Bounds helpers against the plot area inside the margins.
func (c *Chart) plotArea() (x0, y0, x1, y1 float64) {
	return margin, margin, float64(c.dc.Width()) - margin, float64(c.dc.Height()) - margin
}

func (c *Chart) drawFrame(title string) {
	x0, y0, x1, y1 := c.plotArea()
	c.dc.SetRGB(0.2, 0.2, 0.2)
	c.dc.SetLineWidth(1)
	c.dc.DrawLine(x0, y0, x0, y1)
	c.dc.DrawLine(x0, y1, x1, y1)
	c.dc.DrawLine(x1, y0, x1, y1)
	c.dc.Stroke()
	if title != "" {
		c.dc.DrawStringAnchored(title, float64(c.dc.Width())/2, margin/2, 0.5, 0.5)
	}
	// Right axis is the fixed humidity scale.
	for _, pct := range []int{0, 50, 100} {
		y := y1 - float64(pct)/100.0*(y1-y0)
		c.dc.DrawStringAnchored(fmt.Sprintf("%d%%", pct), x1+4, y, 0, 0.5)
	}
}

func (c *Chart) drawSeries(samples []Sample) {
	x0, y0, x1, y1 := c.plotArea()

	tMin, tMax := temperatureRange(samples)
	start := samples[0].Time
	span := samples[len(samples)-1].Time.Sub(start)
	if span <= 0 {
		span = time.Second
	}
	xAt := func(s Sample) float64 {
		return x0 + float64(s.Time.Sub(start))/float64(span)*(x1-x0)
	}

	// Temperature, auto-scaled left axis.
	c.dc.SetRGB(0.8, 0.1, 0.1)
	c.dc.SetLineWidth(1.5)
	for i, s := range samples {
		y := y1 - (s.Env.Temperature.Celsius()-tMin)/(tMax-tMin)*(y1-y0)
		if i == 0 {
			c.dc.MoveTo(xAt(s), y)
		} else {
			c.dc.LineTo(xAt(s), y)
		}
	}
	c.dc.Stroke()
	c.dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", tMax), x0-4, y0, 1, 0.5)
	c.dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", tMin), x0-4, y1, 1, 0.5)

	// Humidity, fixed 0-100% right axis.
	c.dc.SetRGB(0.1, 0.1, 0.8)
	for i, s := range samples {
		rh := float64(s.Env.Humidity) / float64(physic.PercentRH)
		y := y1 - rh/100.0*(y1-y0)
		if i == 0 {
			c.dc.MoveTo(xAt(s), y)
		} else {
			c.dc.LineTo(xAt(s), y)
		}
	}
	c.dc.Stroke()
}

// temperatureRange returns the sample extremes padded by a degree so a flat
// series still renders inside the frame.
func temperatureRange(samples []Sample) (min, max float64) {
	min = samples[0].Env.Temperature.Celsius()
	max = min
	for _, s := range samples[1:] {
		t := s.Env.Temperature.Celsius()
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	return min - 1, max + 1
}

func fontFace(size float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("trendchart: parsing font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

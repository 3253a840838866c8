// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termgauge

import (
	"bytes"
	"strings"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func reading(celsius, percent int) physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(celsius)*physic.Celsius,
		Humidity:    physic.RelativeHumidity(percent) * physic.PercentRH,
	}
}

func TestPush(t *testing.T) {
	buf := &bytes.Buffer{}
	g := New(&Opts{Width: 4, Writer: buf})
	for i := 0; i < 6; i++ {
		if err := g.Push(reading(20+i, 50)); err != nil {
			t.Fatal(err)
		}
	}
	if len(g.readings) != 4 {
		t.Errorf("window should cap at 4 readings, holds %d", len(g.readings))
	}
	if g.readings[3] != reading(25, 50) {
		t.Error("newest reading must be rightmost")
	}
	out := buf.String()
	if !strings.Contains(out, "\033[0m") {
		t.Error("output carries no ANSI reset sequence")
	}
	if !strings.Contains(out, "\r") {
		t.Error("each refresh must rewrite the row in place")
	}
}

func TestReadingColor(t *testing.T) {
	cold := readingColor(reading(-40, 0))
	hot := readingColor(reading(80, 0))
	if cold.B != 255 || cold.R != 0 {
		t.Errorf("cold readings should saturate blue, got %+v", cold)
	}
	if hot.R != 255 || hot.B != 0 {
		t.Errorf("hot readings should saturate red, got %+v", hot)
	}
	dry := readingColor(reading(25, 0))
	humid := readingColor(reading(25, 100))
	if dry.G >= humid.G {
		t.Error("humidity should drive the green channel up")
	}
}

func TestHalt(t *testing.T) {
	buf := &bytes.Buffer{}
	g := New(&Opts{Writer: buf})
	if err := g.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\033[0m") {
		t.Error("Halt must reset terminal colors")
	}
	if len(g.String()) == 0 {
		t.Error("invalid value for String()")
	}
}

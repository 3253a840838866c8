// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package haigudht22

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestCountToTemperature(t *testing.T) {
	var tests = []struct {
		raw      uint16
		expected physic.Temperature
	}{
		{raw: 0x0000, expected: physic.ZeroCelsius + 40*physic.Celsius},
		{raw: 0x0100, expected: physic.ZeroCelsius + 41*physic.Celsius},
		// Two's-complement words read below the 40°C pivot.
		{raw: 0xf000, expected: physic.ZeroCelsius + 24*physic.Celsius},
		{raw: 0xf100, expected: physic.ZeroCelsius + 25*physic.Celsius},
	}
	for _, test := range tests {
		if got := countToTemperature(test.raw); got != test.expected {
			t.Errorf("countToTemperature(%#04x): expected %s, got %s", test.raw, test.expected, got)
		}
	}
}

func TestTemperatureAffine(t *testing.T) {
	// One full step of the high byte is exactly one degree.
	for raw := -32768; raw <= 32511-256; raw += 97 {
		v := uint16(int16(raw))
		lo := countToTemperature(v)
		hi := countToTemperature(uint16(int16(raw + 256)))
		if hi-lo != physic.Celsius {
			t.Fatalf("T(%#04x+256)-T(%#04x) = %s, expected 1°C", v, v, hi-lo)
		}
	}
}

func calibratedDev(humA, humB int16, temp physic.Temperature) *Dev {
	return &Dev{
		humA:       humA,
		humB:       humB,
		calibrated: true,
		lastTemp:   temp,
		hasTemp:    true,
	}
}

func TestConvertHumidity(t *testing.T) {
	var tests = []struct {
		name       string
		humA, humB int16
		temp       physic.Temperature
		raw        uint16
		expected   physic.RelativeHumidity
	}{
		// 30 + (5000-1000)*60/8000 = 60, no compensation at 25°C.
		{name: "reference point", humA: 9000, humB: 1000, temp: physic.ZeroCelsius + 25*physic.Celsius, raw: 5000, expected: 60 * physic.PercentRH},
		// Same raw word, warmer compensation term: 60 + 0.25*16 = 64.
		{name: "compensated", humA: 9000, humB: 1000, temp: physic.ZeroCelsius + 41*physic.Celsius, raw: 5000, expected: 64 * physic.PercentRH},
		// 30 + (9000-1000)*60/8000 = 90.
		{name: "upper span", humA: 9000, humB: 1000, temp: physic.ZeroCelsius + 25*physic.Celsius, raw: 9000, expected: 90 * physic.PercentRH},
		// Far below humB, clamped at the floor.
		{name: "clamped low", humA: 9000, humB: 8000, temp: physic.ZeroCelsius + 25*physic.Celsius, raw: 0, expected: 0},
		// Far above humA, clamped at the ceiling.
		{name: "clamped high", humA: 2000, humB: 1000, temp: physic.ZeroCelsius + 25*physic.Celsius, raw: 65000, expected: 100 * physic.PercentRH},
	}
	for _, test := range tests {
		d := calibratedDev(test.humA, test.humB, test.temp)
		got, err := d.convertHumidity(test.raw)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if got != test.expected {
			t.Errorf("%s: expected %s, got %s", test.name, test.expected, got)
		}
	}
}

func TestConvertHumidityAlwaysClamped(t *testing.T) {
	coeffs := []struct{ humA, humB int16 }{
		{9000, 1000}, {1000, 9000}, {-2000, 3000}, {32767, -32768}, {100, 99},
	}
	temps := []physic.Temperature{
		physic.ZeroCelsius - 40*physic.Celsius,
		physic.ZeroCelsius + 25*physic.Celsius,
		physic.ZeroCelsius + 80*physic.Celsius,
	}
	for _, c := range coeffs {
		for _, temp := range temps {
			d := calibratedDev(c.humA, c.humB, temp)
			for raw := 0; raw <= 0xffff; raw += 251 {
				rh, err := d.convertHumidity(uint16(raw))
				if err != nil {
					t.Fatal(err)
				}
				if rh < 0 || rh > 100*physic.PercentRH {
					t.Fatalf("humA=%d humB=%d raw=%d: %s outside [0%%, 100%%]", c.humA, c.humB, raw, rh)
				}
			}
		}
	}
}

func TestConvertHumidityDegenerate(t *testing.T) {
	// Equal coefficients would divide by zero; the reading must come back
	// absent instead.
	d := calibratedDev(1000, 1000, physic.ZeroCelsius+25*physic.Celsius)
	_, err := d.convertHumidity(5000)
	var calErr *CalibrationError
	if !errors.As(err, &calErr) {
		t.Fatalf("expected CalibrationError, got %v", err)
	}

	// Without a compensation term the conversion cannot run at all.
	d = &Dev{humA: 9000, humB: 1000, calibrated: true}
	_, err = d.convertHumidity(5000)
	var compErr *CompensationError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompensationError, got %v", err)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	for _, c := range commands {
		encoded := c.encode()
		if len(encoded) != 2 {
			t.Fatalf("command %#04x encodes to %d bytes", uint16(c), len(encoded))
		}
		if decoded := decodeCommand(encoded); decoded != c {
			t.Errorf("round trip of %#04x yielded %#04x", uint16(c), uint16(decoded))
		}
	}
}

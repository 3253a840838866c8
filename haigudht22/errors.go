// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package haigudht22

import "fmt"

// ChecksumError reports a response word whose trailing CRC byte did not
// match. The affected reading is discarded, never replaced with a stale or
// zero value.
type ChecksumError struct {
	// Reading names the value that was discarded: "temperature",
	// "humidity", "coefficient" or "status".
	Reading string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("haigudht22: %s checksum mismatch, reading discarded", e.Reading)
}

// CalibrationError reports that the humidity calibration coefficients are
// unavailable or degenerate (equal, which would make the transfer function
// divide by zero). Humidity conversion is skipped.
type CalibrationError struct{}

func (e *CalibrationError) Error() string {
	return "haigudht22: humidity calibration coefficients unavailable"
}

// CompensationError reports that no temperature was available for the
// humidity compensation term and one could not be measured.
type CompensationError struct{}

func (e *CompensationError) Error() string {
	return "haigudht22: no temperature available for humidity compensation"
}

// ReadTimeoutError reports that the sensor kept answering with the busy
// sentinel, or the bus kept failing, until Opts.ReadTimeout expired.
type ReadTimeoutError struct{}

func (e *ReadTimeoutError) Error() string {
	return "haigudht22: sensor stayed busy past the read timeout"
}

// InitError reports that the driver could not be brought up: the soft reset
// failed or the calibration coefficients could not be obtained within
// Opts.CalibrationAttempts. A Dev is never returned alongside it.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("haigudht22: initialization failed: %v", e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package haigudht22

// command is a 16-bit sensor opcode, transmitted as exactly 2 bytes,
// big-endian, with no payload.
type command uint16

const (
	// Trigger a combined temperature+humidity conversion.
	cmdMeasureBoth command = 0x2c10
	// Trigger a single conversion.
	cmdMeasureTemperature command = 0xcc44
	cmdMeasureHumidity    command = 0xcc66

	cmdReadStatus  command = 0xf32d
	cmdClearStatus command = 0x3041
	cmdSoftReset   command = 0x30a2

	// Humidity calibration coefficient registers. Each coefficient is split
	// over two opcodes, high 8 bits first, low 8 bits at the next opcode.
	cmdCoefAHigh command = 0xd208
	cmdCoefALow  command = 0xd209
	cmdCoefBHigh command = 0xd20a
	cmdCoefBLow  command = 0xd20b
)

// commands is the closed set of opcodes the sensor understands.
var commands = []command{
	cmdMeasureBoth,
	cmdMeasureTemperature,
	cmdMeasureHumidity,
	cmdReadStatus,
	cmdClearStatus,
	cmdSoftReset,
	cmdCoefAHigh,
	cmdCoefALow,
	cmdCoefBHigh,
	cmdCoefBLow,
}

func (c command) encode() []byte {
	return []byte{byte(c >> 8), byte(c)}
}

func decodeCommand(b []byte) command {
	return command(uint16(b[0])<<8 | uint16(b[1]))
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. The
// CRC8 used here guards the 16-bit words that sensors from Sensirion, TI
// and Haigu append a check byte to.
package common

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. Polynomial x^8+x^5+x^4+1 (0x31 with the top bit
// implicit), initial value 0xff, no final xor.
func CRC8(bytes []byte) byte {
	var crc byte = 0xff
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (byte)((crc << 1) ^ 0x31)
			}
		}
	}
	return crc
}

// CRC8Word calculates the CRC of a 16-bit word's big-endian encoding, the
// form in which word-oriented sensors transmit and check their data.
func CRC8Word(word uint16) byte {
	return CRC8([]byte{byte(word >> 8), byte(word)})
}

// CheckWord extracts the 16-bit big-endian word from a 3-byte
// (high, low, check) frame and reports whether the trailing check byte
// matches the word's CRC.
func CheckWord(frame []byte) (uint16, bool) {
	word := uint16(frame[0])<<8 | uint16(frame[1])
	return word, CRC8(frame[:2]) == frame[2]
}

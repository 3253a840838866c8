// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC8(t *testing.T) {
	var tests = []struct {
		bytes  []byte
		result byte
	}{
		{bytes: []byte{0xbe, 0xef}, result: 0x92},
		{bytes: []byte{0x01, 0xa4}, result: 0x4d},
		{bytes: []byte{0xab, 0xcd}, result: 0x6f},
		{bytes: []byte{0x00, 0x00}, result: 0x81},
		{bytes: []byte{0x01, 0x00}, result: 0x75},
	}
	for _, test := range tests {
		res := CRC8(test.bytes)
		if res != test.result {
			t.Errorf("CRC8(%#v)!=0x%x received 0x%x", test.bytes, test.result, res)
		}
	}
}

func TestCRC8Word(t *testing.T) {
	if CRC8Word(0xbeef) != 0x92 {
		t.Error("word crc must match the crc of its big-endian encoding")
	}
	// A deterministic function: same word, same check value.
	for word := uint16(0); word < 0x200; word++ {
		if CRC8Word(word) != CRC8Word(word) {
			t.Fatalf("crc of 0x%04x is not stable", word)
		}
	}
}

func TestCheckWord(t *testing.T) {
	word, ok := CheckWord([]byte{0xbe, 0xef, 0x92})
	if !ok || word != 0xbeef {
		t.Errorf("expected valid frame for 0xbeef, got word=0x%04x ok=%v", word, ok)
	}
	// Flip a single bit of the payload; the check byte must no longer match.
	if _, ok := CheckWord([]byte{0xbe, 0xee, 0x92}); ok {
		t.Error("corrupted payload accepted")
	}
	if _, ok := CheckWord([]byte{0xbe, 0xef, 0x93}); ok {
		t.Error("corrupted check byte accepted")
	}
}

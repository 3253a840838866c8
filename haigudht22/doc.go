// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package haigudht22 controls a Haigu DHT22 temperature/humidity sensor over
// I²C. Unlike the one-wire sensor of the same name, this part sits on a
// two-wire bus at a fixed address and speaks a 16-bit command protocol with
// CRC-8 guarded responses, similar to the Sensirion SHT family.
//
// Humidity readings are produced from a pair of per-device calibration
// coefficients stored on the sensor, and carry a temperature compensation
// term, so the driver keeps the most recent temperature on hand. The
// haigudht22.Dev type implements the physic.SenseEnv interface; the
// physic.Env results contain a temperature and humidity value, the pressure
// is never set.
//
// # Datasheet
//
// https://pajenicko.cz/index.php?route=product/product/get_file&file=2202181630_HAIGU-DHT22_C2880291%20en-GB.pdf
package haigudht22

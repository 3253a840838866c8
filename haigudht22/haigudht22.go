// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package haigudht22

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/pajenicko/devices/common"
)

const (
	// The address of this device is fixed.
	SensorAddress uint16 = 0x44

	// While a conversion is running the sensor answers reads with 0xff in
	// the first byte.
	busySentinel byte = 0xff
)

// StatusWord is the raw content of the sensor's status register as returned
// by ReadStatus. The vendor does not document the individual bits.
type StatusWord uint16

// Opts holds the configuration options for the device.
type Opts struct {
	// MeasurementWaitTime is the settle interval between sending a
	// measurement command and the result being ready to read. Leave 0 to
	// use the default of 50ms.
	MeasurementWaitTime time.Duration
	// BusyPollInterval is the pause between read attempts while the sensor
	// reports busy. Leave 0 to use the default of 1ms.
	BusyPollInterval time.Duration
	// ReadTimeout bounds the busy/error retry loop of a single read. 0
	// means no timeout: the driver keeps retrying for as long as the
	// sensor stays busy, which is the sensor's documented behavior but can
	// block forever on a wedged bus.
	ReadTimeout time.Duration
	// CalibrationAttempts is the number of times NewI2C retries fetching
	// the humidity calibration coefficients before giving up. Leave 0 to
	// use the default of 5.
	CalibrationAttempts int
	// Logger, when non-nil, receives a debug event per bus transaction
	// with the command word and raw frame as typed fields.
	Logger *slog.Logger
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	MeasurementWaitTime: 50 * time.Millisecond,
	BusyPollInterval:    time.Millisecond,
	ReadTimeout:         250 * time.Millisecond,
	CalibrationAttempts: 5,
}

// Dev represents a Haigu DHT22 sensor. It owns exclusive access to the
// device for the duration of each command/wait/read sequence; concurrent
// calls are serialized on an internal mutex.
type Dev struct {
	d        *i2c.Dev
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}

	// Humidity calibration coefficients, fetched at construction and
	// cached for the life of the instance.
	humA, humB int16
	calibrated bool

	// Most recent successfully converted temperature, kept because the
	// humidity transfer function needs it as a compensation term.
	lastTemp physic.Temperature
	hasTemp  bool
}

// NewI2C returns a driver for the Haigu DHT22 on the given bus. The sensor
// is soft-reset and its humidity calibration coefficients are read before
// the device is considered usable; if they cannot be obtained within
// Opts.CalibrationAttempts an InitError is returned and no Dev. The Opts
// can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.MeasurementWaitTime <= 0 {
		o.MeasurementWaitTime = DefaultOpts.MeasurementWaitTime
	}
	if o.BusyPollInterval <= 0 {
		o.BusyPollInterval = DefaultOpts.BusyPollInterval
	}
	if o.CalibrationAttempts <= 0 {
		o.CalibrationAttempts = DefaultOpts.CalibrationAttempts
	}

	d := &Dev{d: &i2c.Dev{Bus: b, Addr: SensorAddress}, opts: o}
	if err := d.Reset(); err != nil {
		return nil, &InitError{Err: err}
	}
	if err := d.acquireCoefficients(); err != nil {
		return nil, &InitError{Err: err}
	}
	return d, nil
}

// Sense triggers a combined measurement and fills in the temperature and
// humidity of e. The pressure is always 0, this device does not measure it.
// Implements physic.SenseEnv.
//
// The two readings fail independently: when only the humidity word is
// corrupt, e.Temperature is still valid and the returned ChecksumError
// names "humidity". A corrupt temperature word discards both readings,
// since the humidity conversion needs the temperature as its compensation
// term.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeCommand(cmdMeasureBoth); err != nil {
		return err
	}
	time.Sleep(d.opts.MeasurementWaitTime)
	frame, err := d.readFrame(6)
	if err != nil {
		return err
	}
	tWord, tOK := common.CheckWord(frame[:3])
	hWord, hOK := common.CheckWord(frame[3:])
	if !tOK {
		return &ChecksumError{Reading: "temperature"}
	}
	e.Temperature = d.cacheTemperature(tWord)
	if !hOK {
		return &ChecksumError{Reading: "humidity"}
	}
	rh, err := d.convertHumidity(hWord)
	if err != nil {
		return err
	}
	e.Humidity = rh
	return nil
}

// SenseTemperature triggers a temperature-only measurement and returns the
// result. The value is also cached as the compensation term for subsequent
// humidity conversions.
func (d *Dev) SenseTemperature() (physic.Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.senseTemperature()
}

func (d *Dev) senseTemperature() (physic.Temperature, error) {
	if err := d.writeCommand(cmdMeasureTemperature); err != nil {
		return 0, err
	}
	time.Sleep(d.opts.MeasurementWaitTime)
	word, err := d.readWord("temperature")
	if err != nil {
		return 0, err
	}
	return d.cacheTemperature(word), nil
}

// SenseHumidity triggers a humidity-only measurement and returns the result
// rounded to the nearest whole percent. If no temperature has been measured
// yet, a temperature measurement is performed first to obtain the
// compensation term.
func (d *Dev) SenseHumidity() (physic.RelativeHumidity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.writeCommand(cmdMeasureHumidity); err != nil {
		return 0, err
	}
	time.Sleep(d.opts.MeasurementWaitTime)
	word, err := d.readWord("humidity")
	if err != nil {
		return 0, err
	}
	if !d.hasTemp {
		if _, err := d.senseTemperature(); err != nil {
			return 0, &CompensationError{}
		}
	}
	return d.convertHumidity(word)
}

// SenseContinuous returns a channel that will receive a combined
// measurement every interval. The interval must be at least the settle
// interval. It is the caller's responsibility to call Halt() when done.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < d.opts.MeasurementWaitTime {
		return nil, errors.New("haigudht22: interval is shorter than the measurement settle time")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("haigudht22: SenseContinuous already running")
	}

	d.shutdown = make(chan struct{})
	stop := d.shutdown
	ch := make(chan physic.Env, 16)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}()
	return ch, nil
}

// Halt interrupts a running SenseContinuous() operation. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// Reset issues a soft reset and waits out the settle interval so the next
// command lands after the sensor has rebooted. No response is read.
func (d *Dev) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeCommand(cmdSoftReset); err != nil {
		return err
	}
	time.Sleep(d.opts.MeasurementWaitTime)
	return nil
}

// ReadStatus returns the raw status register.
func (d *Dev) ReadStatus() (StatusWord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeCommand(cmdReadStatus); err != nil {
		return 0, err
	}
	word, err := d.readWord("status")
	if err != nil {
		return 0, err
	}
	return StatusWord(word), nil
}

// ClearStatus clears the status register.
func (d *Dev) ClearStatus() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeCommand(cmdClearStatus)
}

// Precision returns the smallest change in readings the device can produce.
// Implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Kelvin / 256
	e.Humidity = physic.PercentRH
	e.Pressure = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("haigudht22: %s", d.d)
}

// writeCommand sends the 2-byte big-endian encoding of c to the sensor.
func (d *Dev) writeCommand(c command) error {
	d.logDebug("write", "cmd", fmt.Sprintf("%#04x", uint16(c)))
	if err := d.d.Tx(c.encode(), nil); err != nil {
		return fmt.Errorf("haigudht22: writing command %#04x: %w", uint16(c), err)
	}
	return nil
}

// readFrame reads n bytes from the sensor, retrying while the first byte is
// the busy sentinel. Bus errors (the sensor does not acknowledge at all
// while converting) are retried the same way. With a zero ReadTimeout the
// loop never gives up.
func (d *Dev) readFrame(n int) ([]byte, error) {
	frame := make([]byte, n)
	end := time.Now().Add(d.opts.ReadTimeout)
	for d.opts.ReadTimeout <= 0 || time.Now().Before(end) {
		if err := d.d.Tx(nil, frame); err != nil {
			d.logDebug("read retry", "err", err.Error())
			time.Sleep(d.opts.BusyPollInterval)
			continue
		}
		if frame[0] != busySentinel {
			d.logDebug("read", "frame", fmt.Sprintf("% x", frame))
			return frame, nil
		}
		time.Sleep(d.opts.BusyPollInterval)
	}
	return nil, &ReadTimeoutError{}
}

// readWord reads a 3-byte (value, value/reserved, crc) frame and returns
// the validated 16-bit word. reading names the value for the error path.
func (d *Dev) readWord(reading string) (uint16, error) {
	frame, err := d.readFrame(3)
	if err != nil {
		return 0, err
	}
	word, ok := common.CheckWord(frame)
	if !ok {
		d.logDebug("checksum mismatch", "reading", reading, "frame", fmt.Sprintf("% x", frame))
		return 0, &ChecksumError{Reading: reading}
	}
	return word, nil
}

// readRegisterByte reads a single calibration register. The value rides in
// the first byte of the frame; the second byte is reserved but still
// covered by the CRC.
func (d *Dev) readRegisterByte(c command) (byte, error) {
	if err := d.writeCommand(c); err != nil {
		return 0, err
	}
	frame, err := d.readFrame(3)
	if err != nil {
		return 0, err
	}
	if _, ok := common.CheckWord(frame); !ok {
		return 0, &ChecksumError{Reading: "coefficient"}
	}
	return frame[0], nil
}

// readCoefficient assembles a signed 16-bit coefficient from its high
// register at c and its low register at c+1.
func (d *Dev) readCoefficient(c command) (int16, error) {
	high, err := d.readRegisterByte(c)
	if err != nil {
		return 0, err
	}
	low, err := d.readRegisterByte(c + 1)
	if err != nil {
		return 0, err
	}
	return int16(uint16(high)<<8 | uint16(low)), nil
}

// acquireCoefficients fetches and caches both humidity coefficients,
// retrying the whole acquisition with a settle pause in between. Equal
// coefficients are rejected: the transfer function divides by their
// difference.
func (d *Dev) acquireCoefficients() error {
	var err error
	for attempt := 0; attempt < d.opts.CalibrationAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(d.opts.MeasurementWaitTime)
		}
		var humA, humB int16
		if humA, err = d.readCoefficient(cmdCoefAHigh); err != nil {
			continue
		}
		if humB, err = d.readCoefficient(cmdCoefBHigh); err != nil {
			continue
		}
		if humA == humB {
			err = &CalibrationError{}
			continue
		}
		d.humA, d.humB = humA, humB
		d.calibrated = true
		d.logDebug("calibrated", "humA", humA, "humB", humB)
		return nil
	}
	return err
}

// cacheTemperature converts a validated raw word and records the result as
// the compensation term for humidity conversions.
func (d *Dev) cacheTemperature(word uint16) physic.Temperature {
	t := countToTemperature(word)
	d.lastTemp = t
	d.hasTemp = true
	return t
}

// countToTemperature converts the raw 16-bit word, a two's-complement
// offset from 40°C in 1/256°C steps.
func countToTemperature(v uint16) physic.Temperature {
	c := 40.0 + float64(int16(v))/256.0
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Celsius))
}

// convertHumidity maps a validated raw word through the calibration
// transfer function
//
//	RH = 30 + (v-humB)*60/(humA-humB) + 0.25*(T-25)
//
// clamped to [0%, 100%] and rounded to the nearest whole percent, halves
// away from zero.
func (d *Dev) convertHumidity(v uint16) (physic.RelativeHumidity, error) {
	if !d.hasTemp {
		return 0, &CompensationError{}
	}
	if !d.calibrated {
		if d.acquireCoefficients() != nil {
			return 0, &CalibrationError{}
		}
	}
	if d.humA == d.humB {
		return 0, &CalibrationError{}
	}
	t := float64(d.lastTemp-physic.ZeroCelsius) / float64(physic.Celsius)
	rh := 30.0 + (float64(v)-float64(d.humB))*60.0/(float64(d.humA)-float64(d.humB))
	rh += 0.25 * (t - 25.0)
	if rh > 100.0 {
		rh = 100.0
	} else if rh < 0.0 {
		rh = 0.0
	}
	return physic.RelativeHumidity(math.Round(rh)) * physic.PercentRH, nil
}

func (d *Dev) logDebug(msg string, args ...any) {
	if d.opts.Logger != nil {
		d.opts.Logger.Debug(msg, args...)
	}
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}

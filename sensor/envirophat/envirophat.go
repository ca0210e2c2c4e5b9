// Package envirophat drives the Pimoroni Enviro pHAT: an LSM303D
// accelerometer, a BMP280 thermometer and a pair of white LEDs on GPIO4.
package envirophat

import (
	"errors"
	"fmt"

	"github.com/mtraver/beerbeat/sensor"
	"github.com/mtraver/beerbeat/sensor/bmp280"
	"github.com/mtraver/beerbeat/sensor/lsm303d"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// LEDPin is the name of the GPIO that switches the board's LEDs.
const LEDPin = "GPIO4"

type Board struct {
	bus   i2c.BusCloser
	accel *lsm303d.Dev
	therm *bmp280.BMP280
	LED
}

// Open is a sensor.Factory for the board on the default I²C bus.
func Open() (sensor.Board, error) {
	b, err := OpenDefault()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// OpenDefault opens the default I²C bus and the LED pin and returns the board on
// them. periph's host must already be initialized.
func OpenDefault() (*Board, error) {
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("envirophat: failed to open I²C bus: %w", err)
	}

	pin := gpioreg.ByName(LEDPin)
	if pin == nil {
		bus.Close()
		return nil, fmt.Errorf("envirophat: no pin named %s", LEDPin)
	}

	b, err := New(bus, pin)
	if err != nil {
		bus.Close()
		return nil, err
	}
	return b, nil
}

// New returns the board on the given bus and LED pin. Shutdown closes the bus.
func New(bus i2c.BusCloser, pin gpio.PinOut) (*Board, error) {
	accel, err := lsm303d.New(bus, lsm303d.DefaultAddr)
	if err != nil {
		return nil, err
	}

	therm, err := bmp280.New(bus, bmp280.DefaultAddr)
	if err != nil {
		return nil, err
	}

	return &Board{
		bus:   bus,
		accel: accel,
		therm: therm,
		LED:   LED{pin: pin},
	}, nil
}

func (b *Board) Init() error {
	return b.accel.Init()
}

func (b *Board) Motion() (sensor.Sample, error) {
	return b.accel.Sense()
}

func (b *Board) Temperature() (physic.Temperature, error) {
	return b.therm.Temperature()
}

// Shutdown halts both sensors and closes the I²C bus.
func (b *Board) Shutdown() error {
	return errors.Join(b.accel.Halt(), b.therm.Halt(), b.bus.Close())
}

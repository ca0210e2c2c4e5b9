// Package lsm303d reads the accelerometer half of an ST LSM303D over I²C.
package lsm303d

import (
	"encoding/binary"
	"fmt"

	"github.com/mtraver/beerbeat/sensor"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddr is the address of the LSM303D on the Enviro pHAT (SA0 high).
const DefaultAddr uint16 = 0x1D

const (
	regWhoAmI = 0x0F
	regCtrl1  = 0x20
	regCtrl2  = 0x21
	regOutXLA = 0x28

	// Setting the MSB of the sub-address makes multi-byte reads auto-increment.
	autoIncrement = 0x80

	whoAmI = 0x49

	// 50 Hz output data rate, X, Y and Z axes enabled.
	ctrl1Enable = 0x57
	// Power-down mode.
	ctrl1Disable = 0x00
	// ±2 g full scale, anti-alias filter at 773 Hz.
	ctrl2Scale2G = 0x00
)

type Dev struct {
	d i2c.Dev
}

// New checks that an LSM303D is present at addr and returns a handle to it.
// Call Init before sensing.
func New(bus i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: i2c.Dev{Bus: bus, Addr: addr}}

	id := make([]byte, 1)
	if err := d.d.Tx([]byte{regWhoAmI}, id); err != nil {
		return nil, fmt.Errorf("lsm303d: failed to read WHO_AM_I: %w", err)
	}
	if id[0] != whoAmI {
		return nil, fmt.Errorf("lsm303d: unexpected WHO_AM_I 0x%02X, want 0x%02X", id[0], whoAmI)
	}

	return d, nil
}

// Init powers up the accelerometer.
func (d *Dev) Init() error {
	if err := d.writeReg(regCtrl1, ctrl1Enable); err != nil {
		return err
	}
	return d.writeReg(regCtrl2, ctrl2Scale2G)
}

// Sense reads the current acceleration on all three axes as raw signed counts.
func (d *Dev) Sense() (sensor.Sample, error) {
	buf := make([]byte, 6)
	if err := d.d.Tx([]byte{regOutXLA | autoIncrement}, buf); err != nil {
		return sensor.Sample{}, fmt.Errorf("lsm303d: failed to read acceleration: %w", err)
	}

	return sensor.Sample{
		X: float64(int16(binary.LittleEndian.Uint16(buf[0:2]))),
		Y: float64(int16(binary.LittleEndian.Uint16(buf[2:4]))),
		Z: float64(int16(binary.LittleEndian.Uint16(buf[4:6]))),
	}, nil
}

// Halt powers down the accelerometer.
func (d *Dev) Halt() error {
	return d.writeReg(regCtrl1, ctrl1Disable)
}

func (d *Dev) String() string {
	return fmt.Sprintf("LSM303D{%s}", &d.d)
}

func (d *Dev) writeReg(reg, value byte) error {
	if err := d.d.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("lsm303d: failed to write register 0x%02X: %w", reg, err)
	}
	return nil
}

// Package bmp280 reads temperature from a Bosch BMP280.
package bmp280

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// DefaultAddr is the address of the BMP280 on the Enviro pHAT.
const DefaultAddr uint16 = 0x77

type BMP280 struct {
	dev *bmxx80.Dev
}

func New(bus i2c.Bus, addr uint16) (*BMP280, error) {
	d, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("bmp280: %w", err)
	}

	return &BMP280{
		dev: d,
	}, nil
}

func (s *BMP280) Temperature() (physic.Temperature, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return 0, fmt.Errorf("bmp280: failed to sense: %w", err)
	}

	return e.Temperature, nil
}

func (s *BMP280) Halt() error {
	return s.dev.Halt()
}

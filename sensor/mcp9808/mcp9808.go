package mcp9808

import (
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/mcp9808"
)

type MCP9808 struct {
	dev *mcp9808.Dev

	samples  int
	interval time.Duration
}

// New returns an MCP9808 whose Temperature is the mean of the given number of
// samples taken interval apart.
func New(bus i2c.Bus, samples int, interval time.Duration) (*MCP9808, error) {
	d, err := mcp9808.New(bus, &mcp9808.DefaultOpts)
	if err != nil {
		return nil, err
	}

	if samples < 1 {
		samples = 1
	}

	return &MCP9808{
		dev:      d,
		samples:  samples,
		interval: interval,
	}, nil
}

func (s *MCP9808) Temperature() (physic.Temperature, error) {
	temps, err := s.readTempMulti(s.samples, s.interval)
	if err != nil {
		return 0, err
	}

	return mean(temps), nil
}

func (s *MCP9808) Halt() error {
	return s.dev.Halt()
}

func (s *MCP9808) readTempMulti(samples int, interval time.Duration) ([]physic.Temperature, error) {
	temps := make([]physic.Temperature, samples)
	for i := 0; i < samples; i++ {
		temp, err := s.dev.SenseTemp()
		if err != nil {
			return temps, err
		}

		temps[i] = temp
		if i < samples-1 {
			time.Sleep(interval)
		}
	}

	return temps, nil
}

func mean(s []physic.Temperature) physic.Temperature {
	if len(s) == 0 {
		return 0
	}

	var sum physic.Temperature
	for _, t := range s {
		sum += t
	}

	return sum / physic.Temperature(len(s))
}

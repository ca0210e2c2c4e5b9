package envirophat

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

type LED struct {
	pin gpio.PinOut
}

func NewLED(pin gpio.PinOut) LED {
	return LED{pin: pin}
}

func (l LED) On() error {
	return l.set(gpio.High)
}

func (l LED) Off() error {
	return l.set(gpio.Low)
}

func (l LED) set(level gpio.Level) error {
	if err := l.pin.Out(level); err != nil {
		return fmt.Errorf("envirophat: failed to set %s to %s: %w", l.pin, level, err)
	}
	return nil
}

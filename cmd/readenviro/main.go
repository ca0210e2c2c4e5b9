// Program readenviro reads the Enviro pHAT once and prints the accelerometer
// sample and temperature as JSON. It's handy for checking the wiring.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mtraver/beerbeat/sensor"
	"github.com/mtraver/beerbeat/sensor/envirophat"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

type reading struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Temp float64 `json:"temp"`
}

func toJSON(s sensor.Sample, temp physic.Temperature) (string, error) {
	b, err := json.Marshal(reading{
		X:    s.X,
		Y:    s.Y,
		Z:    s.Z,
		Temp: temp.Celsius(),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fatal(format string, a ...interface{}) {
	fmt.Printf(format+"\n", a...)
	os.Exit(1)
}

func main() {
	if _, err := host.Init(); err != nil {
		fatal("Failed to initialize periph: %v", err)
	}

	board, err := envirophat.OpenDefault()
	if err != nil {
		fatal("Error connecting to board: %v", err)
	}
	defer board.Shutdown()

	if err := board.Init(); err != nil {
		fatal("Board init failed: %v", err)
	}

	s, err := board.Motion()
	if err != nil {
		fatal("Failed to read accelerometer: %v", err)
	}

	temp, err := board.Temperature()
	if err != nil {
		fatal("Failed to read temp: %v", err)
	}

	str, err := toJSON(s, temp)
	if err != nil {
		fatal("Failed to marshal reading: %v", err)
	}
	fmt.Println(str)
}

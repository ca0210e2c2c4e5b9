package dummy

import (
	"log"

	"github.com/mtraver/beerbeat/sensor"
	"periph.io/x/conn/v3/physic"
)

// At rest with the occasional knock on X from a bubbling airlock.
var defaultSamples = []sensor.Sample{
	{X: 12, Y: -40, Z: 16384},
	{X: 10, Y: -38, Z: 16380},
	{X: 420, Y: -35, Z: 16390},
	{X: 15, Y: 360, Z: 16375},
}

// Dummy is a board that replays a fixed sequence of samples and reports a
// constant temperature.
type Dummy struct {
	Samples []sensor.Sample
	Temp    physic.Temperature

	i int
}

func Open() (sensor.Board, error) {
	return &Dummy{
		Samples: defaultSamples,
		Temp:    20*physic.Celsius + physic.ZeroCelsius,
	}, nil
}

func (d *Dummy) Init() error {
	log.Printf("DUMMY SENSOR INIT")
	return nil
}

func (d *Dummy) Motion() (sensor.Sample, error) {
	if len(d.Samples) == 0 {
		return sensor.Sample{}, nil
	}

	s := d.Samples[d.i%len(d.Samples)]
	d.i++
	return s, nil
}

func (d *Dummy) Temperature() (physic.Temperature, error) {
	return d.Temp, nil
}

func (d *Dummy) On() error {
	log.Printf("DUMMY LIGHT ON")
	return nil
}

func (d *Dummy) Off() error {
	log.Printf("DUMMY LIGHT OFF")
	return nil
}

func (d *Dummy) Shutdown() error {
	log.Printf("DUMMY SENSOR SHUTDOWN")
	return nil
}

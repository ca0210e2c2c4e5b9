package sensor

import (
	"fmt"
	"sort"
	"sync"

	"periph.io/x/conn/v3/physic"
)

var (
	boardsMu sync.Mutex
	boards   map[string]Factory
)

// Sample is a single three-axis accelerometer reading. Units are whatever the
// board's accelerometer reports; the LSM303D reports raw signed counts.
type Sample struct {
	X float64
	Y float64
	Z float64
}

type Board interface {
	// Init performs any board-specific initialization.
	Init() error
	// Motion reads the current three-axis sample.
	Motion() (Sample, error)
	// Shutdown performs any board-specific shutdown or cleanup operations.
	Shutdown() error
}

type Thermometer interface {
	Temperature() (physic.Temperature, error)
}

// Light is an indicator light used to signal that measurement is active.
type Light interface {
	On() error
	Off() error
}

// Factory opens a Board. It's called once, after the host has been initialized.
type Factory func() (Board, error)

// Register adds a Board factory to the set of available boards.
func Register(name string, f Factory) {
	boardsMu.Lock()
	defer boardsMu.Unlock()

	if boards == nil {
		boards = make(map[string]Factory)
	}
	boards[name] = f
}

// Open looks up a board by name and opens it. It returns an error if no board
// with the given name is registered.
func Open(name string) (Board, error) {
	boardsMu.Lock()
	f, ok := boards[name]
	boardsMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown board %q", name)
	}
	return f()
}

// Names returns the sorted names of all registered boards.
func Names() []string {
	boardsMu.Lock()
	defer boardsMu.Unlock()

	names := make([]string, 0, len(boards))
	for name := range boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

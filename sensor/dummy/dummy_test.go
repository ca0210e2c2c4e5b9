package dummy

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mtraver/beerbeat/sensor"
)

func TestMotionCycles(t *testing.T) {
	samples := []sensor.Sample{{X: 1}, {Y: 2}}
	d := &Dummy{Samples: samples}

	var got []sensor.Sample
	for i := 0; i < 5; i++ {
		s, err := d.Motion()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		got = append(got, s)
	}

	want := []sensor.Sample{{X: 1}, {Y: 2}, {X: 1}, {Y: 2}, {X: 1}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}
}

func TestOpen(t *testing.T) {
	b, err := Open()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	therm, ok := b.(sensor.Thermometer)
	if !ok {
		t.Fatal("Dummy board is not a Thermometer")
	}
	temp, err := therm.Temperature()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := temp.Celsius(); got != 20 {
		t.Errorf("Got %v°C, want 20°C", got)
	}

	if _, ok := b.(sensor.Light); !ok {
		t.Error("Dummy board is not a Light")
	}
}

package activity

import (
	"testing"
	"time"

	cron "github.com/robfig/cron/v3"
)

var t0 = time.Date(2018, time.March, 25, 12, 3, 30, 0, time.UTC)

func TestEvery(t *testing.T) {
	cad := Every(60 * time.Second)

	cases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"zero", 0, false},
		{"just_before", 60*time.Second - time.Nanosecond, false},
		{"exact", 60 * time.Second, true},
		{"after", 90 * time.Second, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cad.Due(t0, t0.Add(c.elapsed)); got != c.want {
				t.Errorf("Due after %v = %v, want %v", c.elapsed, got, c.want)
			}
		})
	}
}

func TestCronCadence(t *testing.T) {
	cad, err := ParseCadence("*/5 * * * *")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"same_instant", t0, false},
		{"before_boundary", time.Date(2018, time.March, 25, 12, 4, 59, 0, time.UTC), false},
		{"at_boundary", time.Date(2018, time.March, 25, 12, 5, 0, 0, time.UTC), true},
		{"after_boundary", time.Date(2018, time.March, 25, 12, 7, 0, 0, time.UTC), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cad.Due(t0, c.now); got != c.want {
				t.Errorf("Due at %v = %v, want %v", c.now, got, c.want)
			}
		})
	}

	// Moving the last publish forward moves the next boundary too.
	last := time.Date(2018, time.March, 25, 12, 5, 0, 0, time.UTC)
	if cad.Due(last, time.Date(2018, time.March, 25, 12, 7, 0, 0, time.UTC)) {
		t.Error("Expected no publish due before 12:10 after publishing at 12:05")
	}
	if !cad.Due(last, time.Date(2018, time.March, 25, 12, 10, 0, 0, time.UTC)) {
		t.Error("Expected publish due at 12:10 after publishing at 12:05")
	}
}

func TestParseCadenceInvalid(t *testing.T) {
	// "0 0 30 2 *" parses but there is no February 30th.
	for _, spec := range []string{"", "not a spec", "61 * * * *", "0 0 30 2 *", "0 0 31 4 *"} {
		if _, err := ParseCadence(spec); err == nil {
			t.Errorf("ParseCadence(%q): expected error, got nil", spec)
		}
	}
}

func TestCronCadenceNoActivation(t *testing.T) {
	sched, err := cron.ParseStandard("0 0 30 2 *")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	cad := &CronCadence{spec: "0 0 30 2 *", sched: sched}

	for _, elapsed := range []time.Duration{0, time.Second, 24 * time.Hour, 400 * 24 * time.Hour} {
		if cad.Due(t0, t0.Add(elapsed)) {
			t.Errorf("Due after %v = true, want false for a schedule that never fires", elapsed)
		}
	}
}

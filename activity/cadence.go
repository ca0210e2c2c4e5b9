package activity

import (
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"
)

// Clock tells the loop what time it is.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Cadence decides whether a publish is due given the time of the last publish.
type Cadence interface {
	Due(last, now time.Time) bool
}

type period time.Duration

func (p period) Due(last, now time.Time) bool {
	return now.Sub(last) >= time.Duration(p)
}

func (p period) String() string {
	return fmt.Sprintf("every %v", time.Duration(p))
}

// Every returns a Cadence that is due once d has elapsed since the last publish.
func Every(d time.Duration) Cadence {
	return period(d)
}

// CronCadence is due once the schedule's next activation after the last
// publish has been reached.
type CronCadence struct {
	spec  string
	sched cron.Schedule

	// Next activation after last, cached because Due is called once per sample.
	// A zero next means the schedule has no activation after last.
	cached bool
	last   time.Time
	next   time.Time
}

// ParseCadence parses a standard 5-field cron spec, e.g. "*/5 * * * *", or a
// descriptor such as "@hourly" or "@every 30s".
func ParseCadence(spec string) (*CronCadence, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("activity: bad cron spec %q: %w", spec, err)
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("activity: cron spec %q never fires", spec)
	}

	return &CronCadence{
		spec:  spec,
		sched: sched,
	}, nil
}

func (c *CronCadence) Due(last, now time.Time) bool {
	if !c.cached || !last.Equal(c.last) {
		c.cached = true
		c.last = last
		c.next = c.sched.Next(last)
	}

	if c.next.IsZero() {
		return false
	}
	return !now.Before(c.next)
}

func (c *CronCadence) String() string {
	return fmt.Sprintf("cron %q", c.spec)
}

// Package activity turns a stream of accelerometer samples into one activity
// record per publish window.
package activity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mtraver/beerbeat/measurement"
	"github.com/mtraver/beerbeat/sensor"
)

const (
	// DefaultThreshold is the minimum per-axis sample value counted as activity.
	DefaultThreshold = 350
	// DefaultPeriod is how often a record is published.
	DefaultPeriod = 60 * time.Second
)

type MotionSensor interface {
	Motion() (sensor.Sample, error)
}

// Loop samples motion as fast as it can and publishes an aggregate record
// whenever its Cadence says one is due.
type Loop struct {
	Motion      MotionSensor
	Thermometer sensor.Thermometer
	Light       sensor.Light
	Publisher   Publisher

	// Threshold is compared against each axis of each sample.
	Threshold float64
	// Cadence defaults to Every(DefaultPeriod).
	Cadence Cadence
	// Clock defaults to SystemClock.
	Clock Clock

	acc         Accumulator
	lastPublish time.Time

	closers      []closer
	shutdownOnce sync.Once
	shutdownErr  error
}

type closer struct {
	name string
	f    func() error
}

// OnShutdown registers f to be called by Shutdown. Functions are called in the
// order they were registered, after the light has been turned off.
func (l *Loop) OnShutdown(name string, f func() error) {
	l.closers = append(l.closers, closer{name: name, f: f})
}

// Run turns the light on and loops until ctx is cancelled or a sensor read or
// publish fails. Cancellation is checked once per iteration, before the sample
// is read. Shutdown is always called before Run returns. Activity accumulated
// since the last publish is discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		if serr := l.Shutdown(); serr != nil {
			log.Printf("Errors during shutdown: %v", serr)
		}
	}()

	if err := l.Light.On(); err != nil {
		return fmt.Errorf("activity: failed to turn on light: %w", err)
	}

	l.acc.Reset()
	l.lastPublish = l.clock().Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := l.step(ctx); err != nil {
			return err
		}
	}
}

func (l *Loop) step(ctx context.Context) error {
	s, err := l.Motion.Motion()
	if err != nil {
		return fmt.Errorf("activity: failed to read motion: %w", err)
	}
	l.acc.Add(s, l.Threshold)

	now := l.clock().Now()
	if !l.cadence().Due(l.lastPublish, now) {
		return nil
	}

	l.lastPublish = now
	total := l.acc.Total()

	temp, err := l.Thermometer.Temperature()
	if err != nil {
		return fmt.Errorf("activity: failed to read temperature: %w", err)
	}

	// An interrupt that arrives mid-write must not abort the write.
	r := measurement.NewRecord(now, total, temp.Celsius())
	if err := l.Publisher.Publish(context.WithoutCancel(ctx), r); err != nil {
		return fmt.Errorf("activity: failed to publish: %w", err)
	}

	l.acc.Reset()
	return nil
}

// Shutdown turns off the light, if one is set, and then calls each function
// registered with OnShutdown. Only the first call does anything; later calls return the same
// error. Failures are collected, not fatal.
func (l *Loop) Shutdown() error {
	l.shutdownOnce.Do(func() {
		var errs []error
		if l.Light != nil {
			if err := l.Light.Off(); err != nil {
				errs = append(errs, fmt.Errorf("light: %w", err))
			}
		}

		for _, c := range l.closers {
			if err := c.f(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			}
		}

		l.shutdownErr = errors.Join(errs...)
	})

	return l.shutdownErr
}

func (l *Loop) clock() Clock {
	if l.Clock == nil {
		return SystemClock
	}
	return l.Clock
}

func (l *Loop) cadence() Cadence {
	if l.Cadence == nil {
		l.Cadence = Every(DefaultPeriod)
	}
	return l.Cadence
}

package activity

import (
	"context"
	"io"
	"log"

	"github.com/mtraver/beerbeat/measurement"
)

type Publisher interface {
	Publish(ctx context.Context, r measurement.Record) error
}

// PublisherFunc adapts an ordinary function to a Publisher.
type PublisherFunc func(ctx context.Context, r measurement.Record) error

func (f PublisherFunc) Publish(ctx context.Context, r measurement.Record) error {
	return f(ctx, r)
}

// Publishers publishes to each of its elements in order and stops at the first error.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, r measurement.Record) error {
	for _, p := range ps {
		if err := p.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// NewLogPublisher returns a Publisher that writes one line per record to w.
func NewLogPublisher(w io.Writer) Publisher {
	logger := log.New(w, "", 0)
	return PublisherFunc(func(ctx context.Context, r measurement.Record) error {
		return logger.Output(2, r.String())
	})
}

// BestEffort returns a Publisher that logs p's failures, prefixed with prefix,
// and never returns an error. Use it for mirrors whose failure shouldn't stop
// the loop.
func BestEffort(prefix string, p Publisher) Publisher {
	return PublisherFunc(func(ctx context.Context, r measurement.Record) error {
		if err := p.Publish(ctx, r); err != nil {
			log.Printf("%s Failed to publish record: %v", prefix, err)
		}
		return nil
	})
}

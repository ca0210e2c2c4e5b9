// Package db publishes activity records to InfluxDB.
package db

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/mtraver/beerbeat/measurement"
)

// PointWriter is the subset of api.WriteAPIBlocking used to publish.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

func newInfluxDBPoint(measurementName string, r measurement.Record) *write.Point {
	p := influxdb2.NewPointWithMeasurement(measurementName)

	vm := r.ValueMap()
	for _, name := range r.FieldNames() {
		p = p.AddField(name, vm[name])
	}

	return p.SetTime(r.Timestamp)
}

// InfluxDB is a handle bound to one database (bucket) and measurement.
type InfluxDB struct {
	client      influxdb2.Client
	writer      PointWriter
	measurement string
}

// Publish writes exactly one point for r and waits for the server to accept it.
// There is no retry.
func (db *InfluxDB) Publish(ctx context.Context, r measurement.Record) error {
	if err := db.writer.WritePoint(ctx, newInfluxDBPoint(db.measurement, r)); err != nil {
		return fmt.Errorf("db: failed to write point: %w", err)
	}
	return nil
}

func (db *InfluxDB) Measurement() string {
	return db.measurement
}

func (db *InfluxDB) Close() error {
	if db.client != nil {
		db.client.Close()
	}
	return nil
}

type Config struct {
	ServerURL   string
	Token       string
	Org         string
	Database    string
	Measurement string
}

// ServerURL returns the URL of the InfluxDB HTTP API at host:port. If host already
// has a scheme it's kept, otherwise http is assumed.
func ServerURL(host string, port int) string {
	scheme := "http"
	if i := strings.Index(host, "://"); i >= 0 {
		scheme, host = host[:i], host[i+3:]
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(host, strconv.Itoa(port)))
}

// Bootstrap connects to InfluxDB, creates cfg.Database if it doesn't already
// exist, and returns a handle bound to that database and cfg.Measurement.
func Bootstrap(ctx context.Context, cfg Config) (*InfluxDB, error) {
	opts := influxdb2.DefaultOptions().
		SetPrecision(time.Second).
		SetApplicationName("beerbeat")
	client := influxdb2.NewClientWithOptions(cfg.ServerURL, cfg.Token, opts)

	// Ping reports false only alongside an error.
	if _, err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("db: failed to connect to %s: %w", cfg.ServerURL, err)
	}

	catalog := NewBucketCatalog(client.BucketsAPI(), client.OrganizationsAPI(), cfg.Org)
	created, err := EnsureDatabase(ctx, catalog, cfg.Database)
	if err != nil {
		client.Close()
		return nil, err
	}
	if created {
		log.Printf("Created database %q", cfg.Database)
	} else {
		log.Printf("Using existing database %q", cfg.Database)
	}

	return &InfluxDB{
		client:      client,
		writer:      client.WriteAPIBlocking(cfg.Org, cfg.Database),
		measurement: cfg.Measurement,
	}, nil
}

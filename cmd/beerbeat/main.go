// Program beerbeat samples the accelerometer on an Enviro pHAT as fast as it can,
// sums above-threshold activity, and once a minute publishes the total along with
// the temperature to InfluxDB.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/mtraver/beerbeat/activity"
	"github.com/mtraver/beerbeat/cmd/beerbeat/mqttmirror"
	"github.com/mtraver/beerbeat/db"
	"github.com/mtraver/beerbeat/measurement"
	"github.com/mtraver/beerbeat/sensor"
	"github.com/mtraver/beerbeat/sensor/dummy"
	"github.com/mtraver/beerbeat/sensor/envirophat"
	"github.com/mtraver/beerbeat/sensor/mcp9808"
	"github.com/mtraver/envtools"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	thermometerBoard   = "board"
	thermometerMCP9808 = "mcp9808"
)

// Flags.
var (
	influxHost  string
	port        int
	database    string
	measName    string
	token       string
	org         string
	boardName   string
	thermometer string
	threshold   float64
	period      time.Duration
	schedule    string
	logPath     string
	dryrun      bool
	mqttBroker  string
	mqttTopic   string
)

func init() {
	flag.StringVar(&influxHost, "host", "localhost", "hostname of InfluxDB HTTP API")
	flag.IntVar(&port, "port", 8086, "port of InfluxDB HTTP API")
	flag.StringVar(&database, "database", "BeerBeat", "InfluxDB database (bucket) name; created if it doesn't exist")
	flag.StringVar(&measName, "measurement", time.Now().Format("2006-01-02"), "InfluxDB measurement")
	flag.StringVar(&token, "token", "", "InfluxDB API token. If not given, INFLUXDB_TOKEN must be set.")
	flag.StringVar(&org, "org", "beerbeat", "InfluxDB organization")
	flag.StringVar(&boardName, "board", "envirophat", "sensor board to read")
	flag.StringVar(&thermometer, "thermometer", thermometerBoard, "where to read temperature from: board or mcp9808")
	flag.Float64Var(&threshold, "threshold", activity.DefaultThreshold, "minimum per-axis sample value counted as activity")
	flag.DurationVar(&period, "period", activity.DefaultPeriod, "how often to publish")
	flag.StringVar(&schedule, "schedule", "", "cron spec that specifies when to publish; overrides -period")
	flag.StringVar(&logPath, "logfile", "enviro.log", "file to which each published record is logged; truncated at startup")
	flag.BoolVar(&dryrun, "dryrun", false, "set to true to print rather than publish records")
	flag.StringVar(&mqttBroker, "mqtt-broker", "", "if given, also publish each record to this MQTT broker, e.g. tcp://localhost:1883")
	flag.StringVar(&mqttTopic, "mqtt-topic", "beerbeat/activity", "MQTT topic to publish records to")

	sensor.Register("envirophat", envirophat.Open)
	sensor.Register("dummy", dummy.Open)
}

func parseFlags() error {
	flag.Parse()

	if influxHost == "" {
		return fmt.Errorf("host flag must be given")
	}

	if port <= 0 || port > 65535 {
		return fmt.Errorf("port must be in [1, 65535]")
	}

	if database == "" {
		return fmt.Errorf("database flag must be given")
	}

	if measName == "" {
		return fmt.Errorf("measurement flag must be given")
	}

	if !isRegistered(boardName) {
		return fmt.Errorf("board must be one of %s", strings.Join(sensor.Names(), ", "))
	}

	if thermometer != thermometerBoard && thermometer != thermometerMCP9808 {
		return fmt.Errorf("thermometer must be %s or %s", thermometerBoard, thermometerMCP9808)
	}

	if threshold < 0 {
		return fmt.Errorf("threshold must be >= 0")
	}

	if schedule == "" && period <= 0 {
		return fmt.Errorf("period must be > 0")
	}

	if mqttBroker != "" && mqttTopic == "" {
		return fmt.Errorf("mqtt-topic must be given with mqtt-broker")
	}

	return nil
}

func isRegistered(name string) bool {
	for _, n := range sensor.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func cadence() (activity.Cadence, error) {
	if schedule != "" {
		return activity.ParseCadence(schedule)
	}
	return activity.Every(period), nil
}

func main() {
	if err := parseFlags(); err != nil {
		fmt.Printf("argument error: %v\n", err)
		os.Exit(2)
	}

	cad, err := cadence()
	if err != nil {
		fmt.Printf("argument error: %v\n", err)
		os.Exit(2)
	}

	path, err := homedir.Expand(logPath)
	if err != nil {
		log.Fatalf("Failed to expand log file path: %v", err)
	}
	logFile, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resources are acquired in the order they're released. Each one registers its
	// cleanup as soon as it exists so a failure further on can release it.
	loop := &activity.Loop{
		Threshold: threshold,
		Cadence:   cad,
	}
	loop.OnShutdown("log", logFile.Close)
	fatalf := func(format string, v ...interface{}) {
		if err := loop.Shutdown(); err != nil {
			log.Printf("Errors during shutdown: %v", err)
		}
		log.Fatalf(format, v...)
	}

	var publishers activity.Publishers
	if dryrun {
		publishers = append(publishers, activity.PublisherFunc(func(ctx context.Context, r measurement.Record) error {
			log.Print(r)
			return nil
		}))
	} else {
		if token == "" {
			token = envtools.MustGetenv("INFLUXDB_TOKEN")
		}

		influx, err := db.Bootstrap(ctx, db.Config{
			ServerURL:   db.ServerURL(influxHost, port),
			Token:       token,
			Org:         org,
			Database:    database,
			Measurement: measName,
		})
		if err != nil {
			fatalf("Failed to set up database: %v", err)
		}
		publishers = append(publishers, influx)
		loop.OnShutdown("database", influx.Close)
	}

	// The record log only sees records the database accepted.
	publishers = append(publishers, activity.NewLogPublisher(logFile))

	if mqttBroker != "" {
		client, err := mqttmirror.Connect(mqttBroker, "beerbeat-"+boardName)
		if err != nil {
			fatalf("%v", err)
		}
		mirror := mqttmirror.New(client, mqttTopic)
		publishers = append(publishers, activity.BestEffort("[MQTT]", mirror))
		loop.OnShutdown("mqtt", mirror.Close)
	}
	loop.Publisher = publishers

	// Initialize periph.
	if _, err := host.Init(); err != nil {
		fatalf("Failed to initialize periph: %v", err)
	}

	board, err := sensor.Open(boardName)
	if err != nil {
		fatalf("Failed to open board %q: %v", boardName, err)
	}
	if err := board.Init(); err != nil {
		board.Shutdown()
		fatalf("Failed to init board %q: %v", boardName, err)
	}

	light, ok := board.(sensor.Light)
	if !ok {
		board.Shutdown()
		fatalf("Board %q has no indicator light", boardName)
	}

	therm, closeTherm, err := openThermometer(board)
	if err != nil {
		board.Shutdown()
		fatalf("%v", err)
	}

	loop.Motion = board
	loop.Thermometer = therm
	loop.Light = light
	loop.OnShutdown("thermometer", closeTherm)
	loop.OnShutdown("board", board.Shutdown)

	// If the program is interrupted, stop the loop. It cleans up on its way out.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Cleaning up...")
		cancel()
	}()

	log.Printf("Measuring on %q with threshold %v, publishing %v", boardName, threshold, cad)
	if err := loop.Run(ctx); err != nil {
		log.Fatalf("Measurement stopped: %v", err)
	}
}

// openThermometer returns the thermometer selected by the thermometer flag and a
// function that releases it.
func openThermometer(board sensor.Board) (sensor.Thermometer, func() error, error) {
	switch thermometer {
	case thermometerMCP9808:
		bus, err := i2creg.Open("")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open I²C bus: %v", err)
		}

		s, err := mcp9808.New(bus, 1, 0)
		if err != nil {
			bus.Close()
			return nil, nil, fmt.Errorf("failed to initialize MCP9808: %v", err)
		}
		return s, releaseAll(s.Halt, bus.Close), nil
	default:
		therm, ok := board.(sensor.Thermometer)
		if !ok {
			return nil, nil, fmt.Errorf("board %q has no thermometer", boardName)
		}
		return therm, func() error { return nil }, nil
	}
}

// releaseAll returns a function that calls each of fs in order and joins their
// errors. A failure doesn't stop the rest from being called.
func releaseAll(fs ...func() error) func() error {
	return func() error {
		var errs []error
		for _, f := range fs {
			errs = append(errs, f())
		}
		return errors.Join(errs...)
	}
}

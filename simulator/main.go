package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
	"github.com/emcal-fastsim/trigger_go/pkg/writer"
)

var configuration trigger.Configuration

var logger Logger

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	envFilename := flag.String("env", ".env", "File with database credentials")
	flag.Parse()

	var err error
	configuration, err = trigger.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("error reading configuration file: %w", err)
		logger.Error(message.Error())
		os.Exit(1)
	}
	if err := applyEnvironment(&configuration, *envFilename); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	trigger.SetConfiguration(configuration)
	trigger.SetLogger(logger)

	runID := uuid.NewString()
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", *configFilename), "main")
		logger.Info(fmt.Sprintf("Run ID: %s", runID), "main")
	}

	if configuration.UseDB {
		if err := loadCalibration(); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		trigger.SetConfiguration(configuration)
	}
	if configuration.Verbosity > 0 {
		printConfiguration(configuration, logger)
	}

	setup, err := configuration.TriggerSetup()
	if err == nil {
		err = setup.BitConfig.Validate()
	}
	if err != nil {
		logger.Error(fmt.Errorf("invalid trigger setup: %w", err).Error())
		os.Exit(1)
	}

	source, closeSource, err := openEventSource()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer closeSource()

	var out *writer.Writer
	if configuration.WriteData {
		out, err = writer.NewWriter(configuration.FileOut, configuration.CompressionLevel)
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
		defer out.Close()
		if err := out.WriteRunInfo(configuration.RunNumber, runID, setup, configuration.BitConfig); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	}

	start := time.Now()
	summary := runSimulation(source, out)
	for _, line := range summary.Lines() {
		logger.Info(line, "summary")
	}
	duration := time.Since(start)
	logger.Info(fmt.Sprintf("Total time: %d ms", duration.Milliseconds()), "main")
}

func loadCalibration() error {
	dbConn, err := trigger.ConnectToDatabase(configuration.DBDriver, configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer dbConn.Close()

	calibration, err := trigger.LoadCalibration(dbConn, configuration.RunNumber)
	if err != nil {
		return err
	}
	calibration.ApplyTo(&configuration)
	return nil
}

func openEventSource() (EventSource, func(), error) {
	if configuration.FileIn == "" {
		generator := NewGenerator(configuration.Seed, configuration.MaxParticles, configuration.MaxEnergy, configuration.MaxEvents)
		return generator, func() {}, nil
	}
	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	reader := NewFileReader(file, configuration.MaxEvents, configuration.Skip)
	return reader, func() { file.Close() }, nil
}

// runSimulation feeds the events to the workers and writes their results.
func runSimulation(source EventSource, out *writer.Writer) *RunSummary {
	jobs := make(chan trigger.Event, 100)
	results := make(chan ProcessedEvent, 100)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, configuration, jobs, results)
		}(w)
	}
	go sendEventsToWorkers(source, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	summary := NewRunSummary()
	for result := range results {
		summary.Add(result)
		if result.Error {
			logger.Error(fmt.Sprintf("discarding event %d", result.Event.EventID))
			continue
		}
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Processed event %d", result.Event.EventID), "main")
		}
		if out != nil {
			if err := out.WriteEvent(result.Event, result.Patches, result.Summary); err != nil {
				logger.Error(err.Error())
			}
		}
	}
	return summary
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

type Logger struct {
	InfoLog  *slog.Logger
	ErrorLog *slog.Logger
}

func (l Logger) Info(message string, module string) {
	l.InfoLog.Info(message, "module", module)
}

func (l Logger) Error(message string) {
	l.ErrorLog.Error(message)
}

var logger Logger

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger = Logger{
		InfoLog:  slog.New(slog.NewTextHandler(os.Stdout, opts)),
		ErrorLog: slog.New(slog.NewJSONHandler(os.Stderr, opts)),
	}
}

type workerResult struct {
	occupancy *Occupancy
	err       error
}

func worker(id int, seed int64, jobs <-chan int, results chan<- workerResult) {
	mapping := trigger.NewTriggerMapping()
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(id)))
	for n := range jobs {
		occupancy := NewOccupancy(mapping)
		err := throwParticles(occupancy, mapping, rng, n)
		results <- workerResult{occupancy: occupancy, err: err}
	}
}

func main() {
	nParticles := flag.Int("particles", 1000000, "Number of particles to throw")
	numWorkers := flag.Int("workers", 4, "Number of workers")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	if *numWorkers < 1 {
		logger.Error("at least one worker is needed")
		os.Exit(1)
	}

	start := time.Now()
	const batchSize = 100000
	nBatches := (*nParticles + batchSize - 1) / batchSize
	jobs := make(chan int, nBatches)
	results := make(chan workerResult, nBatches)
	for w := 1; w <= *numWorkers; w++ {
		go worker(w, *seed, jobs, results)
	}
	for remaining := *nParticles; remaining > 0; remaining -= batchSize {
		jobs <- min(remaining, batchSize)
	}
	close(jobs)

	total := NewOccupancy(trigger.NewTriggerMapping())
	for i := 0; i < nBatches; i++ {
		result := <-results
		if result.err != nil {
			logger.Error(fmt.Sprintf("error filling channel maps: %v", result.err))
			os.Exit(1)
		}
		if err := total.Merge(result.occupancy); err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}
	}

	reports, err := total.Reports()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info(fmt.Sprintf("Particles thrown: %d, unmapped: %d (%d inside acceptance)", total.Thrown, total.Unmapped, total.InAcceptanceUnmapped), "maptester")
	for _, report := range reports {
		logger.Info(report.String(), "maptester")
	}
	logger.Info(fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds()), "maptester")
}

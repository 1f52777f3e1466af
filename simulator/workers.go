package main

import (
	"fmt"
	"io"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// ProcessedEvent is the trigger response to one event.
type ProcessedEvent struct {
	Event   trigger.Event
	Patches map[trigger.PatchCategory][]trigger.RawPatch
	Summary trigger.EventSummary
	Error   bool
}

// processEvent runs the trigger simulation for one event on maker.
func processEvent(maker *trigger.Maker, event trigger.Event) (ProcessedEvent, error) {
	result := ProcessedEvent{Event: event}
	if err := maker.ProcessEvent(event); err != nil {
		return result, err
	}
	if err := maker.FindPatches(); err != nil {
		return result, fmt.Errorf("error finding patches in event %d: %w", event.EventID, err)
	}
	result.Patches = make(map[trigger.PatchCategory][]trigger.RawPatch)
	for _, category := range trigger.Categories() {
		patches, err := maker.GetPatches(category)
		if err != nil {
			return result, err
		}
		result.Patches[category] = patches
	}
	summary, err := maker.Summarize(event.EventID)
	if err != nil {
		return result, err
	}
	result.Summary = summary
	return result, nil
}

// worker owns one Maker, since a Maker must not be shared between goroutines.
func worker(id int, config trigger.Configuration, jobs <-chan trigger.Event, results chan<- ProcessedEvent) {
	maker, err := trigger.NewMakerFromConfiguration(config)
	if err != nil {
		logger.Error(fmt.Sprintf("Worker %d cannot build trigger maker: %v", id, err))
		for event := range jobs {
			results <- ProcessedEvent{Event: event, Error: true}
		}
		return
	}

	for event := range jobs {
		results <- runProtected(id, maker, event)
	}
}

func runProtected(id int, maker *trigger.Maker, event trigger.Event) (result ProcessedEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Worker %d recovered from panic on event %d: %v", id, event.EventID, r))
			result = ProcessedEvent{Event: event, Error: true}
		}
	}()

	if trigger.GetConfiguration().Verbosity > 1 {
		logger.Info(fmt.Sprintf("Worker %d processing event %d", id, event.EventID), "worker")
	}
	result, err := processEvent(maker, event)
	if err != nil {
		logger.Error(fmt.Sprintf("Worker %d: %v", id, err))
		result.Error = true
	}
	return result
}

func sendEventsToWorkers(source EventSource, jobs chan<- trigger.Event) {
	defer close(jobs)
	for {
		event, err := source.NextEvent()
		if err == io.EOF {
			return
		}
		if err != nil {
			logger.Error(fmt.Sprintf("Error reading event: %v", err))
			return
		}
		jobs <- event
	}
}

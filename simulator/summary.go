package main

import (
	"fmt"

	"github.com/montanaflynn/stats"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// RunSummary collects the main patch amplitude of every category over a run.
type RunSummary struct {
	Events    int
	Discarded int
	Fired     map[trigger.PatchCategory]int
	MainADC   map[trigger.PatchCategory]stats.Float64Data
}

func NewRunSummary() *RunSummary {
	return &RunSummary{
		Fired:   make(map[trigger.PatchCategory]int),
		MainADC: make(map[trigger.PatchCategory]stats.Float64Data),
	}
}

func (r *RunSummary) Add(result ProcessedEvent) {
	if result.Error {
		r.Discarded++
		return
	}
	r.Events++
	for _, category := range result.Summary.Categories {
		if category.Max.IsEmpty() {
			continue
		}
		r.Fired[category.Category]++
		r.MainADC[category.Category] = append(r.MainADC[category.Category], category.Max.ADC)
	}
}

// Lines formats one line per category with the fraction of triggered
// events and the mean and 90th percentile of the main patch amplitude.
func (r *RunSummary) Lines() []string {
	lines := []string{fmt.Sprintf("Events processed: %d, discarded: %d", r.Events, r.Discarded)}
	for _, category := range trigger.Categories() {
		fired := r.Fired[category]
		fraction := 0.0
		if r.Events > 0 {
			fraction = float64(fired) / float64(r.Events)
		}
		mean, err := stats.Mean(r.MainADC[category])
		if err != nil {
			lines = append(lines, fmt.Sprintf("%-18s fired %d (%.3f)", category, fired, fraction))
			continue
		}
		p90, err := stats.Percentile(r.MainADC[category], 90)
		if err != nil {
			p90 = 0
		}
		lines = append(lines, fmt.Sprintf("%-18s fired %d (%.3f), main patch mean %.2f, p90 %.2f", category, fired, fraction, mean, p90))
	}
	return lines
}

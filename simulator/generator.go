package main

import (
	"io"
	"math"
	"math/rand/v2"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// EventSource yields events until io.EOF.
type EventSource interface {
	NextEvent() (trigger.Event, error)
}

// Generator produces events with particles flat in eta [-1, 1), phi
// [0, 2pi) and energy [0, MaxEnergy).
type Generator struct {
	rng          *rand.Rand
	MaxParticles int
	MaxEnergy    float64
	MaxEvents    int
	EvtCount     int
}

func NewGenerator(seed int64, maxParticles int, maxEnergy float64, maxEvents int) *Generator {
	return &Generator{
		rng:          rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		MaxParticles: maxParticles,
		MaxEnergy:    maxEnergy,
		MaxEvents:    maxEvents,
	}
}

func (g *Generator) NextEvent() (trigger.Event, error) {
	if g.EvtCount >= g.MaxEvents {
		return trigger.Event{}, io.EOF
	}
	nParticles := 0
	if g.MaxParticles > 0 {
		nParticles = g.rng.IntN(g.MaxParticles + 1)
	}
	event := trigger.Event{EventID: g.EvtCount, Hits: make([]trigger.Hit, nParticles)}
	for i := range event.Hits {
		event.Hits[i] = trigger.Hit{
			Eta:    g.rng.Float64()*2 - 1,
			Phi:    g.rng.Float64() * 2 * math.Pi,
			Energy: g.rng.Float64() * g.MaxEnergy,
		}
	}
	g.EvtCount++
	return event, nil
}

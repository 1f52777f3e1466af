package main

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

func generateAll(t *testing.T, source EventSource) []trigger.Event {
	t.Helper()
	var events []trigger.Event
	for {
		event, err := source.NextEvent()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, event)
	}
}

func TestGeneratorRanges(t *testing.T) {
	events := generateAll(t, NewGenerator(7, 50, 80, 20))
	require.Len(t, events, 20)

	for i, event := range events {
		assert.Equal(t, i, event.EventID)
		assert.LessOrEqual(t, len(event.Hits), 50)
		for _, hit := range event.Hits {
			assert.GreaterOrEqual(t, hit.Eta, -1.0)
			assert.Less(t, hit.Eta, 1.0)
			assert.GreaterOrEqual(t, hit.Phi, 0.0)
			assert.Less(t, hit.Phi, 2*math.Pi)
			assert.GreaterOrEqual(t, hit.Energy, 0.0)
			assert.Less(t, hit.Energy, 80.0)
		}
	}
}

func TestGeneratorIsReproducible(t *testing.T) {
	first := generateAll(t, NewGenerator(42, 30, 100, 5))
	second := generateAll(t, NewGenerator(42, 30, 100, 5))
	assert.Equal(t, first, second)

	other := generateAll(t, NewGenerator(43, 30, 100, 5))
	assert.NotEqual(t, first, other)
}

func TestGeneratorWithoutParticles(t *testing.T) {
	events := generateAll(t, NewGenerator(1, 0, 100, 3))
	require.Len(t, events, 3)
	for _, event := range events {
		assert.Empty(t, event.Hits)
	}
}

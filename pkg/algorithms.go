package trigger

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

// PatchFinder selects one of the trigger algorithms run on a channel map.
type PatchFinder int

const (
	FinderGamma PatchFinder = iota
	FinderJet
	FinderJet8x8
)

func (f PatchFinder) String() string {
	switch f {
	case FinderGamma:
		return "gamma 2x2"
	case FinderJet:
		return "jet 16x16"
	case FinderJet8x8:
		return "jet 8x8"
	default:
		return "unknown"
	}
}

// scanWindow describes how a finder walks the channel map. The last
// starting position in each direction is n + limitOffset - 1.
type scanWindow struct {
	size        int
	stride      int
	limitOffset int
}

// The upper limits differ between the jet windows: the 8x8 scan stops one
// position earlier than its size requires, the 16x16 scan reaches the edge.
var scanWindows = map[PatchFinder]scanWindow{
	FinderGamma:  {size: GammaPatchSize, stride: 1, limitOffset: -2},
	FinderJet:    {size: JetPatchSize, stride: 4, limitOffset: -JetPatchSize + 1},
	FinderJet8x8: {size: Jet8x8PatchSize, stride: 4, limitOffset: -Jet8x8PatchSize - 1},
}

// FindPatches runs the selected algorithm on the channel map.
func (f PatchFinder) FindPatches(channels *ChannelMap, setup TriggerSetup) ([]RawPatch, error) {
	switch f {
	case FinderGamma:
		return FindGammaPatches(channels, setup)
	case FinderJet:
		return FindJetPatches(channels, setup)
	case FinderJet8x8:
		return FindJet8x8Patches(channels, setup)
	default:
		return nil, fmt.Errorf("unknown patch finder %d", int(f))
	}
}

// FindGammaPatches sums all 2x2 windows and fires the gamma bits. The
// result is sorted by ascending ADC, so the main patch is the last one.
func FindGammaPatches(channels *ChannelMap, setup TriggerSetup) ([]RawPatch, error) {
	highBit, err := setup.BitConfig.GammaHighBit()
	if err != nil {
		return nil, err
	}
	lowBit, err := setup.BitConfig.GammaLowBit()
	if err != nil {
		return nil, err
	}
	return scanChannels(channels, scanWindows[FinderGamma], setup.GammaHigh, setup.GammaLow, highBit, lowBit)
}

// FindJetPatches sums 16x16 windows on a 4-FastOR grid and fires the jet bits.
func FindJetPatches(channels *ChannelMap, setup TriggerSetup) ([]RawPatch, error) {
	return findJet(channels, setup, scanWindows[FinderJet])
}

// FindJet8x8Patches sums 8x8 windows on a 4-FastOR grid and fires the jet bits.
func FindJet8x8Patches(channels *ChannelMap, setup TriggerSetup) ([]RawPatch, error) {
	return findJet(channels, setup, scanWindows[FinderJet8x8])
}

func findJet(channels *ChannelMap, setup TriggerSetup, window scanWindow) ([]RawPatch, error) {
	highBit, err := setup.BitConfig.JetHighBit()
	if err != nil {
		return nil, err
	}
	lowBit, err := setup.BitConfig.JetLowBit()
	if err != nil {
		return nil, err
	}
	return scanChannels(channels, window, setup.JetHigh, setup.JetLow, highBit, lowBit)
}

// exceeds reports whether adc is strictly above a configured threshold.
// Negative thresholds are unconfigured and never fire.
func exceeds(adc float64, threshold float64) bool {
	return threshold >= 0 && adc > threshold
}

func scanChannels(channels *ChannelMap, window scanWindow, high float64, low float64, highBit int, lowBit int) ([]RawPatch, error) {
	patches := make([]RawPatch, 0)
	rowLimit := channels.NumberOfRows() + window.limitOffset
	colLimit := channels.NumberOfCols() + window.limitOffset

	for row := 0; row < rowLimit; row += window.stride {
		for col := 0; col < colLimit; col += window.stride {
			adcSum, err := channels.WindowSum(col, row, window.size)
			if err != nil {
				return nil, err
			}

			var triggerBits uint32
			if exceeds(adcSum, high) {
				triggerBits = SetBit(triggerBits, highBit)
			}
			if exceeds(adcSum, low) {
				triggerBits = SetBit(triggerBits, lowBit)
			}
			if triggerBits == 0 {
				continue
			}

			patch := NewRawPatch(col, row, adcSum, triggerBits)
			patch.PatchSize = window.size
			patches = append(patches, patch)
		}
	}

	// Stable, so equal amplitudes keep the scan order.
	slices.SortStableFunc(patches, func(a, b RawPatch) int {
		return cmp.Compare(a.ADC, b.ADC)
	})
	return patches, nil
}

package trigger

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSetup(jetHigh, jetLow, gammaHigh, gammaLow float64) TriggerSetup {
	setup := NewTriggerSetup()
	setup.SetThresholds(jetHigh, jetLow, gammaHigh, gammaLow)
	setup.SetTriggerBitConfig(TriggerBitConfigNew())
	return setup
}

func TestGammaThresholdIsStrict(t *testing.T) {
	bits := TriggerBitConfigNew()
	highBit, _ := bits.GammaHighBit()
	lowBit, _ := bits.GammaLowBit()

	tests := []struct {
		name     string
		adc      float64
		wantBits uint32
	}{
		{"below low", 5, 0},
		{"between low and high", 7, 1 << uint(lowBit)},
		{"exactly high", 10, 1 << uint(lowBit)},
		{"above high", 10.001, 1<<uint(lowBit) | 1<<uint(highBit)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels := NewChannelMap(48, 64)
			require.NoError(t, channels.SetADC(20, 30, tt.adc))

			patches, err := FindGammaPatches(channels, newTestSetup(-1, -1, 10, 5))
			require.NoError(t, err)

			if tt.wantBits == 0 {
				assert.Empty(t, patches)
				return
			}
			// four 2x2 windows contain the cell
			require.Len(t, patches, 4)
			for _, patch := range patches {
				assert.Equal(t, tt.wantBits, patch.TriggerBits)
				assert.Equal(t, tt.adc, patch.ADC)
				assert.Equal(t, GammaPatchSize, patch.PatchSize)
			}
		})
	}
}

func TestGammaScanRange(t *testing.T) {
	channels := NewChannelMap(48, 64)
	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			require.NoError(t, channels.SetADC(col, row, 1))
		}
	}

	patches, err := FindGammaPatches(channels, newTestSetup(-1, -1, 3, 1))
	require.NoError(t, err)
	assert.Len(t, patches, 46*62)

	maxCol, maxRow := 0, 0
	for _, patch := range patches {
		maxCol = max(maxCol, patch.Col)
		maxRow = max(maxRow, patch.Row)
		assert.Equal(t, 4.0, patch.ADC)
	}
	assert.Equal(t, 45, maxCol)
	assert.Equal(t, 61, maxRow)
}

func startPositions(patches []RawPatch) (cols []int, rows []int) {
	colSet := map[int]bool{}
	rowSet := map[int]bool{}
	for _, patch := range patches {
		colSet[patch.Col] = true
		rowSet[patch.Row] = true
	}
	for col := range colSet {
		cols = append(cols, col)
	}
	for row := range rowSet {
		rows = append(rows, row)
	}
	sort.Ints(cols)
	sort.Ints(rows)
	return cols, rows
}

func steps(end int) []int {
	result := []int{}
	for i := 0; i < end; i += 4 {
		result = append(result, i)
	}
	return result
}

func TestJetScanPositions(t *testing.T) {
	channels := NewChannelMap(48, 64)
	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			require.NoError(t, channels.SetADC(col, row, 1))
		}
	}
	setup := newTestSetup(0, 0, -1, -1)

	jet16, err := FindJetPatches(channels, setup)
	require.NoError(t, err)
	cols, rows := startPositions(jet16)
	// 16x16: start < n - 15
	assert.Equal(t, steps(48-15), cols)
	assert.Equal(t, steps(64-15), rows)
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 24, 28, 32}, cols)
	assert.Equal(t, 48, rows[len(rows)-1])
	assert.Len(t, jet16, len(cols)*len(rows))
	for _, patch := range jet16 {
		assert.Equal(t, 256.0, patch.ADC)
		assert.Equal(t, JetPatchSize, patch.PatchSize)
		assert.Equal(t, uint32(1<<3|1<<4), patch.TriggerBits)
	}

	jet8, err := FindJet8x8Patches(channels, setup)
	require.NoError(t, err)
	cols, rows = startPositions(jet8)
	// 8x8: start < n - 9
	assert.Equal(t, steps(48-9), cols)
	assert.Equal(t, steps(64-9), rows)
	assert.Equal(t, 36, cols[len(cols)-1])
	assert.Equal(t, 52, rows[len(rows)-1])
	for _, patch := range jet8 {
		assert.Equal(t, 64.0, patch.ADC)
		assert.Equal(t, Jet8x8PatchSize, patch.PatchSize)
	}
}

func TestJetScanPositionsDCALPHOS(t *testing.T) {
	channels := NewChannelMap(48, 40)
	for col := 0; col < 48; col++ {
		for row := 0; row < 40; row++ {
			require.NoError(t, channels.SetADC(col, row, 1))
		}
	}
	setup := newTestSetup(0, 0, -1, -1)

	jet16, err := FindJetPatches(channels, setup)
	require.NoError(t, err)
	_, rows := startPositions(jet16)
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 24}, rows)

	jet8, err := FindJet8x8Patches(channels, setup)
	require.NoError(t, err)
	_, rows = startPositions(jet8)
	assert.Equal(t, []int{0, 4, 8, 12, 16, 20, 24, 28}, rows)
}

func TestJetPatchesIgnoreSkippedPositions(t *testing.T) {
	channels := NewChannelMap(48, 64)
	// only reached by windows starting at col 36 or later
	require.NoError(t, channels.SetADC(47, 0, 500))

	jet16, err := FindJetPatches(channels, newTestSetup(100, 50, -1, -1))
	require.NoError(t, err)
	require.Len(t, jet16, 1)
	assert.Equal(t, 32, jet16[0].Col)
	assert.Equal(t, 0, jet16[0].Row)

	jet8, err := FindJet8x8Patches(channels, newTestSetup(100, 50, -1, -1))
	require.NoError(t, err)
	assert.Empty(t, jet8)
}

func TestPatchesSortedAscending(t *testing.T) {
	channels := NewChannelMap(48, 64)
	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			require.NoError(t, channels.SetADC(col, row, float64((col*7+row*13)%11)))
		}
	}

	for _, finder := range []PatchFinder{FinderGamma, FinderJet, FinderJet8x8} {
		t.Run(finder.String(), func(t *testing.T) {
			patches, err := finder.FindPatches(channels, newTestSetup(1300, 200, 15, 10))
			require.NoError(t, err)
			require.NotEmpty(t, patches)

			assert.True(t, sort.SliceIsSorted(patches, func(i, j int) bool {
				return patches[i].ADC < patches[j].ADC
			}))
			maxADC := 0.0
			for _, patch := range patches {
				maxADC = max(maxADC, patch.ADC)
			}
			assert.Equal(t, maxADC, patches[len(patches)-1].ADC)
		})
	}
}

func TestEqualAmplitudesKeepScanOrder(t *testing.T) {
	channels := NewChannelMap(48, 64)
	require.NoError(t, channels.SetADC(10, 10, 40))

	patches, err := FindGammaPatches(channels, newTestSetup(-1, -1, 10, 5))
	require.NoError(t, err)

	want := []RawPatch{
		{Col: 9, Row: 9, ADC: 40, TriggerBits: 6, PatchSize: 2},
		{Col: 10, Row: 9, ADC: 40, TriggerBits: 6, PatchSize: 2},
		{Col: 9, Row: 10, ADC: 40, TriggerBits: 6, PatchSize: 2},
		{Col: 10, Row: 10, ADC: 40, TriggerBits: 6, PatchSize: 2},
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("gamma patches mismatch (-want +got):\n%s", diff)
	}
}

func TestUnconfiguredThresholdsNeverFire(t *testing.T) {
	channels := NewChannelMap(48, 64)
	require.NoError(t, channels.SetADC(0, 0, 1000))

	for _, finder := range []PatchFinder{FinderGamma, FinderJet, FinderJet8x8} {
		patches, err := finder.FindPatches(channels, newTestSetup(-1, -1, -1, -1))
		require.NoError(t, err)
		assert.Empty(t, patches, finder.String())
	}
}

func TestOldBitConfigSharesBits(t *testing.T) {
	channels := NewChannelMap(48, 64)
	require.NoError(t, channels.SetADC(10, 10, 300))
	setup := newTestSetup(100, 50, 10, 5)
	setup.SetTriggerBitConfig(TriggerBitConfigOld())

	jets, err := FindJetPatches(channels, setup)
	require.NoError(t, err)
	require.NotEmpty(t, jets)
	for _, patch := range jets {
		assert.Equal(t, uint32(1<<2), patch.TriggerBits)
	}

	gammas, err := FindGammaPatches(channels, setup)
	require.NoError(t, err)
	require.NotEmpty(t, gammas)
	for _, patch := range gammas {
		assert.Equal(t, uint32(1<<1), patch.TriggerBits)
	}
}

func TestFindPatchesUnsetBits(t *testing.T) {
	channels := NewChannelMap(48, 64)
	setup := NewTriggerSetup()

	for _, finder := range []PatchFinder{FinderGamma, FinderJet, FinderJet8x8} {
		_, err := finder.FindPatches(channels, setup)
		var invalid *InvalidConfigurationError
		assert.ErrorAs(t, err, &invalid, finder.String())
	}

	_, err := PatchFinder(7).FindPatches(channels, setup)
	assert.Error(t, err)
}

func BenchmarkFindPatches(b *testing.B) {
	channels := NewChannelMap(48, 64)
	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			if err := channels.SetADC(col, row, float64((col*7+row*13)%11)); err != nil {
				b.Fatal(err)
			}
		}
	}
	setup := newTestSetup(1300, 200, 15, 10)

	for _, finder := range []PatchFinder{FinderGamma, FinderJet, FinderJet8x8} {
		b.Run(finder.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := finder.FindPatches(channels, setup); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

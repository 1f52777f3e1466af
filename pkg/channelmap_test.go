package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelMapResetZeroesAllCells(t *testing.T) {
	channels := NewChannelMap(48, 64)
	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			require.NoError(t, channels.SetADC(col, row, float64(col*64+row+1)))
		}
	}

	channels.Reset()

	for col := 0; col < 48; col++ {
		for row := 0; row < 64; row++ {
			adc, err := channels.GetADC(col, row)
			require.NoError(t, err)
			assert.Zero(t, adc, "cell (%d, %d)", col, row)
		}
	}
}

func TestChannelMapAddAccumulates(t *testing.T) {
	channels := NewChannelMap(48, 40)

	require.NoError(t, channels.AddADC(3, 7, 1.25))
	require.NoError(t, channels.AddADC(3, 7, 2.5))
	require.NoError(t, channels.AddADC(3, 7, -0.75))

	adc, err := channels.GetADC(3, 7)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, adc, 1e-12)

	require.NoError(t, channels.SetADC(3, 7, 10))
	adc, err = channels.GetADC(3, 7)
	require.NoError(t, err)
	assert.Equal(t, 10.0, adc)

	// col and row are not swapped
	other, err := channels.GetADC(7, 3)
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestChannelMapBoundaries(t *testing.T) {
	channels := NewChannelMap(48, 64)

	tests := []struct {
		name string
		col  int
		row  int
	}{
		{"col overflow", 48, 0},
		{"row overflow", 0, 64},
		{"both overflow", 100, 100},
		{"negative col", -1, 5},
		{"negative row", 5, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var boundary *BoundaryError

			_, err := channels.GetADC(tt.col, tt.row)
			require.True(t, errors.As(err, &boundary))
			assert.Equal(t, tt.col, boundary.Col)
			assert.Equal(t, tt.row, boundary.Row)
			assert.Equal(t, 64, boundary.NRows)
			assert.Equal(t, 48, boundary.NCols)

			assert.ErrorAs(t, channels.SetADC(tt.col, tt.row, 1), &boundary)
			assert.ErrorAs(t, channels.AddADC(tt.col, tt.row, 1), &boundary)
		})
	}

	err := channels.AddADC(48, 64, 1)
	assert.EqualError(t, err, "boundary error: row(64, max 63), col(48, max 47)")
}

func TestChannelMapWindowSum(t *testing.T) {
	channels := NewChannelMap(48, 64)
	require.NoError(t, channels.SetADC(10, 10, 4))
	require.NoError(t, channels.SetADC(11, 11, 6))
	require.NoError(t, channels.SetADC(12, 10, 100))

	sum, err := channels.WindowSum(10, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, sum)

	sum, err = channels.WindowSum(0, 0, 16)
	require.NoError(t, err)
	assert.Equal(t, 110.0, sum)

	_, err = channels.WindowSum(40, 0, 16)
	var boundary *BoundaryError
	assert.ErrorAs(t, err, &boundary)
}

package trigger

import (
	"gonum.org/v1/gonum/mat"
)

// ChannelMap holds the accumulated ADC value of every FastOR of one
// detector region. Values are stored row-major in a dense matrix, so the
// matrix element (row, col) is the channel at (col, row).
type ChannelMap struct {
	nCols int
	nRows int
	adc   *mat.Dense
}

func NewChannelMap(nCols int, nRows int) *ChannelMap {
	return &ChannelMap{
		nCols: nCols,
		nRows: nRows,
		adc:   mat.NewDense(nRows, nCols, nil),
	}
}

func (c *ChannelMap) NumberOfCols() int {
	return c.nCols
}

func (c *ChannelMap) NumberOfRows() int {
	return c.nRows
}

func (c *ChannelMap) checkBounds(col int, row int) error {
	if row < 0 || col < 0 || row >= c.nRows || col >= c.nCols {
		return &BoundaryError{Row: row, Col: col, NRows: c.nRows, NCols: c.nCols}
	}
	return nil
}

// SetADC overwrites the value at (col, row).
func (c *ChannelMap) SetADC(col int, row int, adc float64) error {
	if err := c.checkBounds(col, row); err != nil {
		return err
	}
	c.adc.Set(row, col, adc)
	return nil
}

// AddADC accumulates adc into the value at (col, row).
func (c *ChannelMap) AddADC(col int, row int, adc float64) error {
	if err := c.checkBounds(col, row); err != nil {
		return err
	}
	c.adc.Set(row, col, c.adc.At(row, col)+adc)
	return nil
}

func (c *ChannelMap) GetADC(col int, row int) (float64, error) {
	if err := c.checkBounds(col, row); err != nil {
		return 0, err
	}
	return c.adc.At(row, col), nil
}

// WindowSum returns the sum of the size x size block whose lower-left
// corner is (col, row).
func (c *ChannelMap) WindowSum(col int, row int, size int) (float64, error) {
	if err := c.checkBounds(col, row); err != nil {
		return 0, err
	}
	if err := c.checkBounds(col+size-1, row+size-1); err != nil {
		return 0, err
	}
	return mat.Sum(c.adc.Slice(row, row+size, col, col+size)), nil
}

// Reset sets all channels back to 0.
func (c *ChannelMap) Reset() {
	c.adc.Zero()
}

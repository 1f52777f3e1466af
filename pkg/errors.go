package trigger

import "fmt"

// BoundaryError is returned by the channel grid when a position lies outside
// the configured dimensions.
type BoundaryError struct {
	Row   int
	Col   int
	NRows int
	NCols int
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("boundary error: row(%d, max %d), col(%d, max %d)", e.Row, e.NRows-1, e.Col, e.NCols-1)
}

// InvalidConfigurationError is returned when an unset trigger bit is requested.
type InvalidConfigurationError struct {
	Bit string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid trigger configuration: %s bit < 0", e.Bit)
}

// TriggerChannelError is returned when row or column of an undefined trigger
// channel are requested.
type TriggerChannelError struct{}

func (e *TriggerChannelError) Error() string {
	return "trigger channel not existing"
}

package trigger

import "golang.org/x/exp/slices"

// ChannelPosition is a FastOR position in col-row space.
type ChannelPosition struct {
	Col int
	Row int
}

// BadChannelContainer lists channels that are ignored when filling the
// channel maps.
type BadChannelContainer struct {
	channels []ChannelPosition
}

// AddChannel adds a position; adding a listed position again is a no-op.
func (b *BadChannelContainer) AddChannel(col int, row int) {
	if b.HasChannel(col, row) {
		return
	}
	b.channels = append(b.channels, ChannelPosition{Col: col, Row: row})
}

func (b *BadChannelContainer) HasChannel(col int, row int) bool {
	return slices.Contains(b.channels, ChannelPosition{Col: col, Row: row})
}

func (b *BadChannelContainer) Len() int {
	return len(b.channels)
}

// Channels returns the listed positions in insertion order.
func (b *BadChannelContainer) Channels() []ChannelPosition {
	return slices.Clone(b.channels)
}

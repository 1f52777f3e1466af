package trigger

import (
	"encoding/json"
	"fmt"
)

// TriggerBitConfig maps the trigger classes to bit positions in the patch
// trigger bit mask. A bit set to -1 is unset.
type TriggerBitConfig struct {
	l0Bit           int
	jetHighBit      int
	jetLowBit       int
	gammaHighBit    int
	gammaLowBit     int
	triggerTypesEnd int
}

func NewTriggerBitConfig(l0Bit, jetHighBit, jetLowBit, gammaHighBit, gammaLowBit, triggerTypesEnd int) TriggerBitConfig {
	return TriggerBitConfig{
		l0Bit:           l0Bit,
		jetHighBit:      jetHighBit,
		jetLowBit:       jetLowBit,
		gammaHighBit:    gammaHighBit,
		gammaLowBit:     gammaLowBit,
		triggerTypesEnd: triggerTypesEnd,
	}
}

// UnsetTriggerBitConfig returns a configuration with all bits unset.
func UnsetTriggerBitConfig() TriggerBitConfig {
	return NewTriggerBitConfig(-1, -1, -1, -1, -1, -1)
}

// TriggerBitConfigOld is the 2-bit configuration: high and low thresholds
// share one bit per trigger class.
func TriggerBitConfigOld() TriggerBitConfig {
	return NewTriggerBitConfig(0, 2, 2, 1, 1, 3)
}

// TriggerBitConfigNew is the 4-bit configuration.
func TriggerBitConfigNew() TriggerBitConfig {
	return NewTriggerBitConfig(0, 3, 4, 1, 2, 5)
}

func getBit(bit int, name string) (int, error) {
	if bit < 0 {
		return bit, &InvalidConfigurationError{Bit: name}
	}
	return bit, nil
}

func (b TriggerBitConfig) Level0Bit() (int, error)    { return getBit(b.l0Bit, "Level0") }
func (b TriggerBitConfig) JetHighBit() (int, error)   { return getBit(b.jetHighBit, "JetHigh") }
func (b TriggerBitConfig) JetLowBit() (int, error)    { return getBit(b.jetLowBit, "JetLow") }
func (b TriggerBitConfig) GammaHighBit() (int, error) { return getBit(b.gammaHighBit, "GammaHigh") }
func (b TriggerBitConfig) GammaLowBit() (int, error)  { return getBit(b.gammaLowBit, "GammaLow") }
func (b TriggerBitConfig) TriggerTypesEnd() (int, error) {
	return getBit(b.triggerTypesEnd, "MCOffset")
}

// Validate reports the first unset bit, if any.
func (b TriggerBitConfig) Validate() error {
	getters := []func() (int, error){
		b.Level0Bit, b.JetHighBit, b.JetLowBit, b.GammaHighBit, b.GammaLowBit, b.TriggerTypesEnd,
	}
	for _, get := range getters {
		if _, err := get(); err != nil {
			return err
		}
	}
	return nil
}

func SetBit(mask uint32, pos int) uint32 {
	return mask | (1 << uint(pos))
}

func CheckBit(mask uint32, pos int) bool {
	return (mask & (1 << uint(pos))) != 0
}

// BitConfigName selects one of the bit configuration presets in the
// configuration file.
type BitConfigName string

const (
	BitConfigOld BitConfigName = "old"
	BitConfigNew BitConfigName = "new"
)

func (n BitConfigName) TriggerBitConfig() (TriggerBitConfig, error) {
	switch n {
	case BitConfigOld:
		return TriggerBitConfigOld(), nil
	case BitConfigNew:
		return TriggerBitConfigNew(), nil
	default:
		return UnsetTriggerBitConfig(), fmt.Errorf("unknown trigger bit configuration %q", string(n))
	}
}

func (n *BitConfigName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	name := BitConfigName(s)
	if _, err := name.TriggerBitConfig(); err != nil {
		return err
	}
	*n = name
	return nil
}

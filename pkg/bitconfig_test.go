package trigger

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerBitConfigPresets(t *testing.T) {
	tests := []struct {
		name   string
		config TriggerBitConfig
		want   [6]int
	}{
		{"old", TriggerBitConfigOld(), [6]int{0, 2, 2, 1, 1, 3}},
		{"new", TriggerBitConfigNew(), [6]int{0, 3, 4, 1, 2, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getters := []func() (int, error){
				tt.config.Level0Bit, tt.config.JetHighBit, tt.config.JetLowBit,
				tt.config.GammaHighBit, tt.config.GammaLowBit, tt.config.TriggerTypesEnd,
			}
			for i, get := range getters {
				bit, err := get()
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], bit)
			}
			assert.NoError(t, tt.config.Validate())
		})
	}
}

func TestTriggerBitConfigUnsetBit(t *testing.T) {
	config := NewTriggerBitConfig(0, 3, -1, 1, 2, 5)

	_, err := config.JetLowBit()
	var invalid *InvalidConfigurationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "JetLow", invalid.Bit)
	assert.EqualError(t, err, "invalid trigger configuration: JetLow bit < 0")

	assert.ErrorAs(t, config.Validate(), &invalid)
	assert.ErrorAs(t, UnsetTriggerBitConfig().Validate(), &invalid)
}

func TestSetAndCheckBit(t *testing.T) {
	var mask uint32
	mask = SetBit(mask, 1)
	mask = SetBit(mask, 4)
	mask = SetBit(mask, 4)

	assert.Equal(t, uint32(0b10010), mask)
	assert.True(t, CheckBit(mask, 1))
	assert.True(t, CheckBit(mask, 4))
	assert.False(t, CheckBit(mask, 2))
}

func TestBitConfigNameJSON(t *testing.T) {
	var holder struct {
		Bits BitConfigName `json:"bits"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"bits": "old"}`), &holder))
	assert.Equal(t, BitConfigOld, holder.Bits)

	err := json.Unmarshal([]byte(`{"bits": "3-bit"}`), &holder)
	assert.Error(t, err)
}

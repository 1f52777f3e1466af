package trigger

import (
	"encoding/json"
	"fmt"
	"os"
)

type Configuration struct {
	MaxEvents           int           `json:"max_events"`
	Skip                int           `json:"skip"`
	Verbosity           int           `json:"verbosity"`
	FileIn              string        `json:"file_in"`
	FileOut             string        `json:"file_out"`
	WriteData           bool          `json:"write_data"`
	NumWorkers          int           `json:"num_workers"`
	Seed                int64         `json:"seed"`
	MaxParticles        int           `json:"max_particles"`
	MaxEnergy           float64       `json:"max_energy"`
	ThresholdJetHigh    float64       `json:"threshold_jet_high"`
	ThresholdJetLow     float64       `json:"threshold_jet_low"`
	ThresholdGammaHigh  float64       `json:"threshold_gamma_high"`
	ThresholdGammaLow   float64       `json:"threshold_gamma_low"`
	BitConfig           BitConfigName `json:"bit_config"`
	PHOSAcceptance      bool          `json:"phos_acceptance"`
	PHOSMinEta          int           `json:"phos_min_eta"`
	PHOSMaxEta          int           `json:"phos_max_eta"`
	PHOSMinRow          int           `json:"phos_min_row"`
	PHOSMaxRow          int           `json:"phos_max_row"`
	BadChannelsEMCAL    [][2]int      `json:"bad_channels_emcal"`
	BadChannelsDCALPHOS [][2]int      `json:"bad_channels_dcal"`
	CompressionLevel    int           `json:"compression_level"`
	UseDB               bool          `json:"use_db"`
	DBDriver            string        `json:"db_driver"`
	Host                string        `json:"host"`
	User                string        `json:"user"`
	Passwd              string        `json:"pass"`
	DBName              string        `json:"dbname"`
	RunNumber           int           `json:"run_number"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func DefaultConfiguration() Configuration {
	var config Configuration
	config.MaxEvents = 1000
	config.Skip = 0
	config.Verbosity = 0
	config.FileOut = "trigger_patches.h5"
	config.WriteData = true
	config.NumWorkers = 1
	config.Seed = 42
	config.MaxParticles = 100
	config.MaxEnergy = 100
	config.ThresholdJetHigh = -1
	config.ThresholdJetLow = -1
	config.ThresholdGammaHigh = -1
	config.ThresholdGammaLow = -1
	config.BitConfig = BitConfigNew
	config.PHOSAcceptance = true
	config.PHOSMinEta = DefaultPHOSRegion.MinEta
	config.PHOSMaxEta = DefaultPHOSRegion.MaxEta
	config.PHOSMinRow = DefaultPHOSRegion.MinRow
	config.PHOSMaxRow = DefaultPHOSRegion.MaxRow
	config.CompressionLevel = 4
	config.UseDB = false
	config.DBDriver = "mysql"
	config.DBName = "EMCALTRIGGER"
	return config
}

// LoadConfiguration reads a JSON configuration file on top of the defaults.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	if config.NumWorkers < 1 {
		return config, fmt.Errorf("num_workers must be at least 1, got %d", config.NumWorkers)
	}
	return config, nil
}

// TriggerSetup builds the thresholds and bit configuration of the run.
func (c Configuration) TriggerSetup() (TriggerSetup, error) {
	bits, err := c.BitConfig.TriggerBitConfig()
	if err != nil {
		return TriggerSetup{}, err
	}
	setup := NewTriggerSetup()
	setup.SetThresholds(c.ThresholdJetHigh, c.ThresholdJetLow, c.ThresholdGammaHigh, c.ThresholdGammaLow)
	setup.SetTriggerBitConfig(bits)
	return setup, nil
}

func (c Configuration) PHOSRegion() PHOSRegion {
	return PHOSRegion{
		MinEta: c.PHOSMinEta,
		MaxEta: c.PHOSMaxEta,
		MinRow: c.PHOSMinRow,
		MaxRow: c.PHOSMaxRow,
	}
}

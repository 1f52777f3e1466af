package trigger

// TriggerSetup holds the L1 thresholds in ADC counts together with the
// trigger bit configuration. A threshold of -1 is unconfigured.
type TriggerSetup struct {
	JetHigh   float64
	JetLow    float64
	GammaHigh float64
	GammaLow  float64
	BitConfig TriggerBitConfig
}

func NewTriggerSetup() TriggerSetup {
	setup := TriggerSetup{BitConfig: UnsetTriggerBitConfig()}
	setup.Clean()
	return setup
}

// SetThresholds replaces all four thresholds at once.
func (s *TriggerSetup) SetThresholds(jetHigh, jetLow, gammaHigh, gammaLow float64) {
	s.JetHigh = jetHigh
	s.JetLow = jetLow
	s.GammaHigh = gammaHigh
	s.GammaLow = gammaLow
}

func (s *TriggerSetup) SetTriggerBitConfig(config TriggerBitConfig) {
	s.BitConfig = config
}

// Clean resets the thresholds to the unconfigured state.
func (s *TriggerSetup) Clean() {
	s.SetThresholds(-1, -1, -1, -1)
}

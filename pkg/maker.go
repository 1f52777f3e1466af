package trigger

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// MakerState tells whether the cached patch lists reflect the channel maps.
type MakerState int

const (
	StateStale MakerState = iota
	StateComputed
)

func (s MakerState) String() string {
	if s == StateComputed {
		return "computed"
	}
	return "stale"
}

// PHOSRegion is the rectangle of the DCAL-PHOS channel map covered by PHOS,
// in FastOR columns and rows.
type PHOSRegion struct {
	MinEta int
	MaxEta int
	MinRow int
	MaxRow int
}

// DefaultPHOSRegion is the PHOS hole in the center of the three full DCAL
// supermodule rows.
var DefaultPHOSRegion = PHOSRegion{MinEta: 16, MaxEta: 32, MinRow: 0, MaxRow: 36}

// Contains reports whether the patch lies fully inside the region.
func (r PHOSRegion) Contains(p RawPatch) bool {
	return p.Col >= r.MinEta && p.Col+p.PatchSize < r.MaxEta &&
		p.Row >= r.MinRow && p.Row+p.PatchSize < r.MaxRow
}

// Maker simulates the L1 trigger decision on the EMCAL and DCAL-PHOS
// channel maps. It is not safe for concurrent use; run one Maker per
// goroutine.
//
// Per event: Reset, FillChannelMap for every particle, then query. The
// patch lists are computed on the first query and kept until Reset.
type Maker struct {
	channelsEMCAL       *ChannelMap
	channelsDCALPHOS    *ChannelMap
	mapping             *TriggerMapping
	setup               TriggerSetup
	badChannelsEMCAL    BadChannelContainer
	badChannelsDCALPHOS BadChannelContainer
	phosAcceptance      bool
	phosRegion          PHOSRegion
	state               MakerState
	dirty               bool
	patches             map[PatchCategory][]RawPatch
}

func NewMaker() *Maker {
	mapping := NewTriggerMapping()
	return &Maker{
		channelsEMCAL:    NewChannelMap(NumberOfEtaBins, mapping.NumberOfRows(RegionEMCAL)),
		channelsDCALPHOS: NewChannelMap(NumberOfEtaBins, mapping.NumberOfRows(RegionDCALPHOS)),
		mapping:          mapping,
		setup:            NewTriggerSetup(),
		phosAcceptance:   true,
		phosRegion:       DefaultPHOSRegion,
		state:            StateStale,
		patches:          make(map[PatchCategory][]RawPatch),
	}
}

// NewMakerFromConfiguration builds a Maker with thresholds, bit
// configuration, PHOS settings and bad channels taken from config.
func NewMakerFromConfiguration(config Configuration) (*Maker, error) {
	setup, err := config.TriggerSetup()
	if err != nil {
		return nil, err
	}
	maker := NewMaker()
	maker.SetTriggerSetup(setup)
	maker.SetPHOSAcceptance(config.PHOSAcceptance)
	maker.SetPHOSRegion(config.PHOSRegion())
	for _, channel := range config.BadChannelsEMCAL {
		maker.AddBadChannelEMCAL(channel[0], channel[1])
	}
	for _, channel := range config.BadChannelsDCALPHOS {
		maker.AddBadChannelDCALPHOS(channel[0], channel[1])
	}
	return maker, nil
}

func (m *Maker) EMCALChannels() *ChannelMap             { return m.channelsEMCAL }
func (m *Maker) DCALPHOSChannels() *ChannelMap          { return m.channelsDCALPHOS }
func (m *Maker) TriggerChannelMapping() *TriggerMapping { return m.mapping }
func (m *Maker) TriggerSetup() TriggerSetup             { return m.setup }
func (m *Maker) State() MakerState                      { return m.state }

// IsDirty reports whether a channel map was filled after the patches were
// computed. The cached patches do not include that energy until Reset.
func (m *Maker) IsDirty() bool { return m.dirty }

// SetTriggerSetup replaces thresholds and bit configuration. Already
// computed patches are kept until Reset.
func (m *Maker) SetTriggerSetup(setup TriggerSetup) {
	m.setup = setup
}

func (m *Maker) SetPHOSAcceptance(accept bool) {
	m.phosAcceptance = accept
}

func (m *Maker) SetPHOSRegion(region PHOSRegion) {
	m.phosRegion = region
}

func (m *Maker) AddBadChannelEMCAL(col int, row int) {
	m.badChannelsEMCAL.AddChannel(col, row)
}

func (m *Maker) AddBadChannelDCALPHOS(col int, row int) {
	m.badChannelsDCALPHOS.AddChannel(col, row)
}

// AddBadChannel adds a bad channel to the list of the given region.
func (m *Maker) AddBadChannel(region Region, col int, row int) error {
	switch region {
	case RegionEMCAL:
		m.AddBadChannelEMCAL(col, row)
	case RegionDCALPHOS:
		m.AddBadChannelDCALPHOS(col, row)
	default:
		return fmt.Errorf("cannot add bad channel (%d, %d) to region %v", col, row, region)
	}
	return nil
}

func (m *Maker) IsBadChannel(region Region, col int, row int) bool {
	switch region {
	case RegionEMCAL:
		return m.badChannelsEMCAL.HasChannel(col, row)
	case RegionDCALPHOS:
		return m.badChannelsDCALPHOS.HasChannel(col, row)
	default:
		return false
	}
}

func (m *Maker) channelMap(region Region) *ChannelMap {
	switch region {
	case RegionEMCAL:
		return m.channelsEMCAL
	case RegionDCALPHOS:
		return m.channelsDCALPHOS
	default:
		return nil
	}
}

// Reset clears both channel maps and all cached patches.
func (m *Maker) Reset() {
	m.channelsEMCAL.Reset()
	m.channelsDCALPHOS.Reset()
	clear(m.patches)
	m.state = StateStale
	m.dirty = false
}

// FillChannelMap adds energy to the channel hit by a particle at (eta, phi).
// Particles outside the acceptance and hits on bad channels are ignored.
func (m *Maker) FillChannelMap(eta float64, phi float64, energy float64) error {
	position := m.mapping.PositionFromEtaPhi(eta, phi)
	if !position.IsDefined() {
		return nil
	}
	col, _ := position.Col()
	row, _ := position.Row()
	if m.IsBadChannel(position.Region(), col, row) {
		if configuration.Verbosity > 2 {
			message := fmt.Sprintf("Skipping bad channel %v (%d, %d)", position.Region(), col, row)
			logger.Info(message, "maker")
		}
		return nil
	}
	if err := m.channelMap(position.Region()).AddADC(col, row, energy); err != nil {
		return fmt.Errorf("error filling %v channel map: %w", position.Region(), err)
	}
	if m.state == StateComputed && !m.dirty {
		m.dirty = true
		if configuration.Verbosity > 1 {
			logger.Info("Channel map filled after patch finding, cached patches are stale until reset", "maker")
		}
	}
	return nil
}

// ProcessEvent resets the maker and fills all hits of the event.
func (m *Maker) ProcessEvent(event Event) error {
	m.Reset()
	for _, hit := range event.Hits {
		if err := m.FillChannelMap(hit.Eta, hit.Phi, hit.Energy); err != nil {
			return fmt.Errorf("error processing event %d: %w", event.EventID, err)
		}
	}
	return nil
}

var makerFinders = []struct {
	finder   PatchFinder
	region   Region
	category PatchCategory
}{
	{FinderGamma, RegionEMCAL, PatchEMCALGamma},
	{FinderGamma, RegionDCALPHOS, PatchDCALGamma},
	{FinderJet, RegionEMCAL, PatchEMCALJet},
	{FinderJet, RegionDCALPHOS, PatchDCALJet},
	{FinderJet8x8, RegionEMCAL, PatchEMCALJet8x8},
	{FinderJet8x8, RegionDCALPHOS, PatchDCALJet8x8},
}

// FindPatches runs the gamma, jet and jet 8x8 finders on both regions.
func (m *Maker) FindPatches() error {
	patches := make(map[PatchCategory][]RawPatch, len(makerFinders))
	for _, run := range makerFinders {
		found, err := run.finder.FindPatches(m.channelMap(run.region), m.setup)
		if err != nil {
			return fmt.Errorf("error finding %v patches in %v: %w", run.finder, run.region, err)
		}
		for i := range found {
			found[i].Region = run.region
		}
		patches[run.category] = found
		if configuration.Verbosity > 2 {
			message := fmt.Sprintf("Found %d %v patches", len(found), run.category)
			logger.Info(message, "maker")
		}
	}
	m.patches = patches
	m.state = StateComputed
	m.dirty = false
	return nil
}

func (m *Maker) ensurePatches() error {
	if m.state == StateComputed {
		return nil
	}
	return m.FindPatches()
}

// GetPatches returns the patches of a category. Aggregated categories are
// concatenated as EMCAL gamma, DCAL-PHOS gamma, EMCAL jet, DCAL-PHOS jet,
// EMCAL jet 8x8, DCAL-PHOS jet 8x8. Without PHOS acceptance, DCAL-PHOS
// patches fully inside the PHOS region are dropped.
func (m *Maker) GetPatches(category PatchCategory) ([]RawPatch, error) {
	categories := category.expand()
	if categories == nil {
		return nil, fmt.Errorf("unknown patch category %d", int(category))
	}
	if err := m.ensurePatches(); err != nil {
		return nil, err
	}

	result := make([]RawPatch, 0)
	for _, c := range categories {
		region := c.Region()
		for _, patch := range m.patches[c] {
			if region == RegionDCALPHOS && !m.phosAcceptance && m.phosRegion.Contains(patch) {
				continue
			}
			patch.Region = region
			result = append(result, patch)
		}
	}
	return result, nil
}

// GetMax returns the highest-amplitude patch of a category, or the empty
// patch if none fired.
func (m *Maker) GetMax(category PatchCategory) (RawPatch, error) {
	categories := category.expand()
	if categories == nil {
		return EmptyPatch(), fmt.Errorf("unknown patch category %d", int(category))
	}
	if err := m.ensurePatches(); err != nil {
		return EmptyPatch(), err
	}
	result := EmptyPatch()
	for _, c := range categories {
		patches := m.patches[c]
		if len(patches) == 0 {
			continue
		}
		// lists are sorted ascending
		last := patches[len(patches)-1]
		if result.IsEmpty() || last.ADC > result.ADC {
			result = last
		}
	}
	return result, nil
}

// GetMedian returns the median amplitude of a category, 0 if none fired.
func (m *Maker) GetMedian(category PatchCategory) (float64, error) {
	categories := category.expand()
	if categories == nil {
		return 0, fmt.Errorf("unknown patch category %d", int(category))
	}
	if err := m.ensurePatches(); err != nil {
		return 0, err
	}
	patches := make([]RawPatch, 0)
	for _, c := range categories {
		patches = append(patches, m.patches[c]...)
	}
	return Median(patches), nil
}

func (m *Maker) GetMaxGammaEMCAL() (RawPatch, error)    { return m.GetMax(PatchEMCALGamma) }
func (m *Maker) GetMaxGammaDCALPHOS() (RawPatch, error) { return m.GetMax(PatchDCALGamma) }
func (m *Maker) GetMaxJetEMCAL() (RawPatch, error)      { return m.GetMax(PatchEMCALJet) }
func (m *Maker) GetMaxJetDCALPHOS() (RawPatch, error)   { return m.GetMax(PatchDCALJet) }
func (m *Maker) GetMaxJetEMCAL8x8() (RawPatch, error)   { return m.GetMax(PatchEMCALJet8x8) }
func (m *Maker) GetMaxJetDCALPHOS8x8() (RawPatch, error) {
	return m.GetMax(PatchDCALJet8x8)
}

func (m *Maker) GetMedianGammaEMCAL() (float64, error)    { return m.GetMedian(PatchEMCALGamma) }
func (m *Maker) GetMedianGammaDCALPHOS() (float64, error) { return m.GetMedian(PatchDCALGamma) }
func (m *Maker) GetMedianJetEMCAL() (float64, error)      { return m.GetMedian(PatchEMCALJet) }
func (m *Maker) GetMedianJetDCALPHOS() (float64, error)   { return m.GetMedian(PatchDCALJet) }
func (m *Maker) GetMedianJetEMCAL8x8() (float64, error)   { return m.GetMedian(PatchEMCALJet8x8) }
func (m *Maker) GetMedianJetDCALPHOS8x8() (float64, error) {
	return m.GetMedian(PatchDCALJet8x8)
}

// Median returns the median ADC of the patches, 0 for an empty list.
func Median(patches []RawPatch) float64 {
	adcs := make(stats.Float64Data, len(patches))
	for i, patch := range patches {
		adcs[i] = patch.ADC
	}
	median, err := stats.Median(adcs)
	if err != nil {
		return 0
	}
	return median
}

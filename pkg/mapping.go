package trigger

// TriggerChannel is the result of mapping an eta-phi position onto the
// trigger grid. Positions outside the acceptance are undefined.
type TriggerChannel struct {
	region Region
	row    int
	col    int
}

func (c TriggerChannel) Region() Region {
	return c.region
}

func (c TriggerChannel) IsDefined() bool {
	return c.region != RegionUndefined
}

func (c TriggerChannel) IsEMCAL() bool {
	return c.region == RegionEMCAL
}

func (c TriggerChannel) IsDCALPHOS() bool {
	return c.region == RegionDCALPHOS
}

func (c TriggerChannel) Row() (int, error) {
	if !c.IsDefined() {
		return -1, &TriggerChannelError{}
	}
	return c.row, nil
}

func (c TriggerChannel) Col() (int, error) {
	if !c.IsDefined() {
		return -1, &TriggerChannelError{}
	}
	return c.col, nil
}

// SectorPhi is a supermodule row in phi, subdivided into NRows FastOR rows.
type SectorPhi struct {
	ID     int
	PhiMin float64
	PhiMax float64
	NRows  int
}

func (s SectorPhi) Contains(phi float64) bool {
	return phi >= s.PhiMin && phi < s.PhiMax
}

// RowInSector returns the row within the sector, -1 if phi is not inside
// any of the sub-bins. Bin edges are accumulated from the sector start, so
// rounding can leave a sliver below PhiMax unmatched.
func (s SectorPhi) RowInSector(phi float64) int {
	phiWidth := (s.PhiMax - s.PhiMin) / float64(s.NRows)
	row := 0
	for phiIter := s.PhiMin; phiIter < s.PhiMax && row < s.NRows; phiIter += phiWidth {
		if phi >= phiIter && phi < phiIter+phiWidth {
			return row
		}
		row++
	}
	return -1
}

const NumberOfEtaBins = 48

// TriggerMapping is a simple linear eta-phi to col-row model of the EMCAL
// and DCAL-PHOS trigger surfaces.
type TriggerMapping struct {
	sectorsEMCAL    []SectorPhi
	sectorsDCALPHOS []SectorPhi
	etaMin          float64
	etaMax          float64
	etaSizeFOR      float64
}

// NewTriggerMapping builds the mapping with phi in [0, 2pi).
//
// EMCAL: five full supermodule rows of 12 FastORs and one 1/3 row of 4.
// DCAL-PHOS: three full rows and one 1/3 row.
func NewTriggerMapping() *TriggerMapping {
	m := &TriggerMapping{
		etaMin: -0.668305,
		etaMax: 0.668305,
		sectorsEMCAL: []SectorPhi{
			{ID: 0, PhiMin: 1.40413, PhiMax: 1.73746, NRows: 12},
			{ID: 1, PhiMin: 1.7532, PhiMax: 2.08653, NRows: 12},
			{ID: 2, PhiMin: 2.10226, PhiMax: 2.43559, NRows: 12},
			{ID: 3, PhiMin: 2.45133, PhiMax: 2.78466, NRows: 12},
			{ID: 4, PhiMin: 2.8004, PhiMax: 3.13372, NRows: 12},
			{ID: 5, PhiMin: 3.14946, PhiMax: 3.26149, NRows: 4},
		},
		sectorsDCALPHOS: []SectorPhi{
			{ID: 0, PhiMin: 4.54573, PhiMax: 4.87905, NRows: 12},
			{ID: 1, PhiMin: 4.89479, PhiMax: 5.22812, NRows: 12},
			{ID: 2, PhiMin: 5.24386, PhiMax: 5.57718, NRows: 12},
			{ID: 3, PhiMin: 5.59292, PhiMax: 5.70495, NRows: 4},
		},
	}
	m.etaSizeFOR = (m.etaMax - m.etaMin) / NumberOfEtaBins
	return m
}

func (m *TriggerMapping) sectors(region Region) []SectorPhi {
	switch region {
	case RegionEMCAL:
		return m.sectorsEMCAL
	case RegionDCALPHOS:
		return m.sectorsDCALPHOS
	default:
		return nil
	}
}

// NumberOfRows returns the total number of FastOR rows of a region.
func (m *TriggerMapping) NumberOfRows(region Region) int {
	nRows := 0
	for _, sector := range m.sectors(region) {
		nRows += sector.NRows
	}
	return nRows
}

func (m *TriggerMapping) inEta(eta float64) bool {
	return eta >= m.etaMin && eta <= m.etaMax
}

func (m *TriggerMapping) findSector(region Region, phi float64) (SectorPhi, bool) {
	for _, sector := range m.sectors(region) {
		if sector.Contains(phi) {
			return sector, true
		}
	}
	return SectorPhi{}, false
}

func (m *TriggerMapping) IsEMCAL(eta float64, phi float64) bool {
	if !m.inEta(eta) {
		return false
	}
	_, found := m.findSector(RegionEMCAL, phi)
	return found
}

func (m *TriggerMapping) IsDCALPHOS(eta float64, phi float64) bool {
	if !m.inEta(eta) {
		return false
	}
	_, found := m.findSector(RegionDCALPHOS, phi)
	return found
}

// PositionFromEtaPhi maps a particle position onto a trigger channel. The
// returned channel is undefined outside the acceptance, in the dead areas
// between supermodules, or when no row or column bin matches.
func (m *TriggerMapping) PositionFromEtaPhi(eta float64, phi float64) TriggerChannel {
	if m.IsEMCAL(eta, phi) {
		return m.positionInRegion(RegionEMCAL, eta, phi)
	} else if m.IsDCALPHOS(eta, phi) {
		return m.positionInRegion(RegionDCALPHOS, eta, phi)
	}
	return TriggerChannel{}
}

func (m *TriggerMapping) positionInRegion(region Region, eta float64, phi float64) TriggerChannel {
	sector, found := m.findSector(region, phi)
	if !found {
		return TriggerChannel{}
	}
	rowInSector := sector.RowInSector(phi)
	if rowInSector < 0 {
		return TriggerChannel{}
	}
	row := rowInSector
	for _, lower := range m.sectors(region) {
		if lower.ID < sector.ID {
			row += lower.NRows
		}
	}

	col := m.colFromEta(eta)
	if col < 0 {
		return TriggerChannel{}
	}
	return TriggerChannel{region: region, row: row, col: col}
}

// colFromEta maps eta onto the column, running from positive eta (col 0)
// to negative eta.
func (m *TriggerMapping) colFromEta(eta float64) int {
	for col := 0; col < NumberOfEtaBins; col++ {
		low := m.etaMax - float64(col+1)*m.etaSizeFOR
		high := m.etaMax - float64(col)*m.etaSizeFOR
		if eta >= low && eta < high {
			return col
		}
	}
	return -1
}

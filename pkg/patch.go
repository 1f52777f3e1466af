package trigger

// Region is the detector region a patch or a trigger channel belongs to.
type Region int

const (
	RegionUndefined Region = iota
	RegionEMCAL
	RegionDCALPHOS
)

func (r Region) String() string {
	switch r {
	case RegionEMCAL:
		return "EMCAL"
	case RegionDCALPHOS:
		return "DCAL-PHOS"
	default:
		return "Undefined"
	}
}

// PatchSize is the edge length of a trigger patch in FastORs.
const (
	GammaPatchSize  = 2
	JetPatchSize    = 16
	Jet8x8PatchSize = 8
)

// RawPatch is a trigger patch found by one of the patch finders. The
// zero-energy sentinel returned when no patch exists has ADC -1 and size 0.
type RawPatch struct {
	Col         int
	Row         int
	ADC         float64
	TriggerBits uint32
	PatchSize   int
	Region      Region
}

func NewRawPatch(col int, row int, adc float64, triggerBits uint32) RawPatch {
	return RawPatch{Col: col, Row: row, ADC: adc, TriggerBits: triggerBits}
}

// EmptyPatch returns the sentinel patch.
func EmptyPatch() RawPatch {
	return RawPatch{ADC: -1, Region: RegionUndefined}
}

func (p RawPatch) IsEmpty() bool {
	return p.PatchSize == 0 && p.ADC < 0
}

func (p RawPatch) IsEMCAL() bool {
	return p.Region == RegionEMCAL
}

func (p RawPatch) IsDCALPHOS() bool {
	return p.Region == RegionDCALPHOS
}

// UniqueID indexes the patch by its subregion, so jet patches starting in
// the same 4x4 subregion share an ID.
func (p RawPatch) UniqueID() int {
	subregionSize := 1
	if p.PatchSize == JetPatchSize || p.PatchSize == Jet8x8PatchSize {
		subregionSize = 4
	}
	nEta := 48 / subregionSize
	return p.Col/subregionSize + p.Row/subregionSize*nEta
}

// PatchCategory selects patches in Maker queries.
type PatchCategory int

const (
	PatchAny PatchCategory = iota
	PatchEMCAL
	PatchDCALPHOS
	PatchEMCALGamma
	PatchEMCALJet
	PatchEMCALJet8x8
	PatchDCALGamma
	PatchDCALJet
	PatchDCALJet8x8
)

var patchCategoryStrings = []string{
	"Any",
	"EMCAL",
	"DCAL-PHOS",
	"EMCAL gamma",
	"EMCAL jet",
	"EMCAL jet 8x8",
	"DCAL-PHOS gamma",
	"DCAL-PHOS jet",
	"DCAL-PHOS jet 8x8",
}

func (c PatchCategory) String() string {
	if c < PatchAny || c > PatchDCALJet8x8 {
		return "Unknown"
	}
	return patchCategoryStrings[c]
}

// Region of a single-list category.
func (c PatchCategory) Region() Region {
	switch c {
	case PatchEMCAL, PatchEMCALGamma, PatchEMCALJet, PatchEMCALJet8x8:
		return RegionEMCAL
	case PatchDCALPHOS, PatchDCALGamma, PatchDCALJet, PatchDCALJet8x8:
		return RegionDCALPHOS
	default:
		return RegionUndefined
	}
}

// cacheCategories lists the six cached patch lists in output order.
var cacheCategories = []PatchCategory{
	PatchEMCALGamma,
	PatchDCALGamma,
	PatchEMCALJet,
	PatchDCALJet,
	PatchEMCALJet8x8,
	PatchDCALJet8x8,
}

// expand returns the cached categories a query category covers, in output order.
func (c PatchCategory) expand() []PatchCategory {
	switch c {
	case PatchAny:
		return cacheCategories
	case PatchEMCAL:
		return []PatchCategory{PatchEMCALGamma, PatchEMCALJet, PatchEMCALJet8x8}
	case PatchDCALPHOS:
		return []PatchCategory{PatchDCALGamma, PatchDCALJet, PatchDCALJet8x8}
	case PatchEMCALGamma, PatchEMCALJet, PatchEMCALJet8x8, PatchDCALGamma, PatchDCALJet, PatchDCALJet8x8:
		return []PatchCategory{c}
	default:
		return nil
	}
}

package main

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// Occupancy counts particles per trigger channel for both regions.
type Occupancy struct {
	Thrown   int
	EMCAL    *trigger.ChannelMap
	DCALPHOS *trigger.ChannelMap
	Unmapped int
	// InAcceptanceUnmapped counts particles for which IsEMCAL or IsDCALPHOS holds
	// but no channel was found.
	InAcceptanceUnmapped int
}

func NewOccupancy(mapping *trigger.TriggerMapping) *Occupancy {
	return &Occupancy{
		EMCAL:    trigger.NewChannelMap(trigger.NumberOfEtaBins, mapping.NumberOfRows(trigger.RegionEMCAL)),
		DCALPHOS: trigger.NewChannelMap(trigger.NumberOfEtaBins, mapping.NumberOfRows(trigger.RegionDCALPHOS)),
	}
}

// Fill maps one particle and counts it in the channel it hits.
func (o *Occupancy) Fill(mapping *trigger.TriggerMapping, eta float64, phi float64) error {
	o.Thrown++
	channel := mapping.PositionFromEtaPhi(eta, phi)
	if !channel.IsDefined() {
		o.Unmapped++
		if mapping.IsEMCAL(eta, phi) || mapping.IsDCALPHOS(eta, phi) {
			o.InAcceptanceUnmapped++
		}
		return nil
	}
	col, err := channel.Col()
	if err != nil {
		return err
	}
	row, err := channel.Row()
	if err != nil {
		return err
	}
	if channel.IsEMCAL() {
		return o.EMCAL.AddADC(col, row, 1)
	}
	return o.DCALPHOS.AddADC(col, row, 1)
}

// Merge adds the counts of other.
func (o *Occupancy) Merge(other *Occupancy) error {
	o.Thrown += other.Thrown
	o.Unmapped += other.Unmapped
	o.InAcceptanceUnmapped += other.InAcceptanceUnmapped
	for _, pair := range []struct{ dst, src *trigger.ChannelMap }{{o.EMCAL, other.EMCAL}, {o.DCALPHOS, other.DCALPHOS}} {
		for col := 0; col < pair.src.NumberOfCols(); col++ {
			for row := 0; row < pair.src.NumberOfRows(); row++ {
				value, err := pair.src.GetADC(col, row)
				if err != nil {
					return err
				}
				if err := pair.dst.AddADC(col, row, value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RegionReport describes the occupancy of one channel map.
type RegionReport struct {
	Region     trigger.Region
	Hits       int
	EmptyCells int
	Min        float64
	Max        float64
	Mean       float64
	StdDev     float64
}

func regionReport(region trigger.Region, channels *trigger.ChannelMap) (RegionReport, error) {
	report := RegionReport{Region: region}
	counts := make(stats.Float64Data, 0, channels.NumberOfCols()*channels.NumberOfRows())
	for col := 0; col < channels.NumberOfCols(); col++ {
		for row := 0; row < channels.NumberOfRows(); row++ {
			value, err := channels.GetADC(col, row)
			if err != nil {
				return report, err
			}
			if value == 0 {
				report.EmptyCells++
			}
			report.Hits += int(value)
			counts = append(counts, value)
		}
	}
	var err error
	if report.Min, err = stats.Min(counts); err != nil {
		return report, err
	}
	if report.Max, err = stats.Max(counts); err != nil {
		return report, err
	}
	if report.Mean, err = stats.Mean(counts); err != nil {
		return report, err
	}
	if report.StdDev, err = stats.StandardDeviation(counts); err != nil {
		return report, err
	}
	return report, nil
}

func (o *Occupancy) Reports() ([]RegionReport, error) {
	emcal, err := regionReport(trigger.RegionEMCAL, o.EMCAL)
	if err != nil {
		return nil, err
	}
	dcal, err := regionReport(trigger.RegionDCALPHOS, o.DCALPHOS)
	if err != nil {
		return nil, err
	}
	return []RegionReport{emcal, dcal}, nil
}

func (r RegionReport) String() string {
	return fmt.Sprintf("%-9s hits %d, empty cells %d, occupancy min %.0f max %.0f mean %.2f std %.2f",
		r.Region, r.Hits, r.EmptyCells, r.Min, r.Max, r.Mean, r.StdDev)
}

// throwParticles fills n particles flat in eta [-1, 1) and phi [0, 2pi).
func throwParticles(occupancy *Occupancy, mapping *trigger.TriggerMapping, rng *rand.Rand, n int) error {
	for i := 0; i < n; i++ {
		eta := rng.Float64()*2 - 1
		phi := rng.Float64() * 2 * math.Pi
		if err := occupancy.Fill(mapping, eta, phi); err != nil {
			return err
		}
	}
	return nil
}

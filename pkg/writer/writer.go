package writer

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// Writer stores the trigger patches and per-event summaries of a run in
// an HDF5 file.
type Writer struct {
	File               *hdf5.File
	Filename           string
	RunGroup           *hdf5.Group
	TriggerGroup       *hdf5.Group
	EventTable         *hdf5.Dataset
	RunInfoTable       *hdf5.Dataset
	TriggerParamsTable *hdf5.Dataset
	PatchTable         *hdf5.Dataset
	SummaryTable       *hdf5.Dataset
	EvtCounter         int
	PatchCounter       int
	SummaryCounter     int
}

func NewWriter(filename string, compressionLevel int) (*Writer, error) {
	writer := &Writer{Filename: filename}
	var err error
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		return nil, err
	}
	if writer.TriggerGroup, err = createGroup(writer.File, "Trigger"); err != nil {
		return nil, err
	}
	tables := []struct {
		dest     **hdf5.Dataset
		group    *hdf5.Group
		name     string
		datatype interface{}
	}{
		{&writer.EventTable, writer.RunGroup, "events", EventDataHDF5{}},
		{&writer.RunInfoTable, writer.RunGroup, "runInfo", RunInfoHDF5{}},
		{&writer.TriggerParamsTable, writer.TriggerGroup, "configuration", TriggerParamsHDF5{}},
		{&writer.PatchTable, writer.TriggerGroup, "patches", PatchHDF5{}},
		{&writer.SummaryTable, writer.TriggerGroup, "summary", SummaryHDF5{}},
	}
	for _, table := range tables {
		if *table.dest, err = createTable(table.group, table.name, table.datatype, compressionLevel); err != nil {
			return nil, err
		}
	}
	return writer, nil
}

// WriteRunInfo stores run number, run identifier and the trigger setup.
func (w *Writer) WriteRunInfo(runNumber int, runID string, setup trigger.TriggerSetup, bitConfig trigger.BitConfigName) error {
	err := writeEntryToTable(w.RunInfoTable, RunInfoHDF5{
		run_number: int32(runNumber),
		run_id:     convertToHdf5String(runID),
	}, 0)
	if err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}

	params := []TriggerParamsHDF5{
		{paramStr: convertToHdf5String("ThresholdJetHigh"), value: setup.JetHigh},
		{paramStr: convertToHdf5String("ThresholdJetLow"), value: setup.JetLow},
		{paramStr: convertToHdf5String("ThresholdGammaHigh"), value: setup.GammaHigh},
		{paramStr: convertToHdf5String("ThresholdGammaLow"), value: setup.GammaLow},
	}
	bitNames := []string{"JetHighBit", "JetLowBit", "GammaHighBit", "GammaLowBit"}
	bitGetters := []func() (int, error){
		setup.BitConfig.JetHighBit, setup.BitConfig.JetLowBit,
		setup.BitConfig.GammaHighBit, setup.BitConfig.GammaLowBit,
	}
	for i, get := range bitGetters {
		bit, err := get()
		if err != nil {
			return err
		}
		params = append(params, TriggerParamsHDF5{paramStr: convertToHdf5String(bitNames[i]), value: float64(bit)})
	}
	params = append(params, TriggerParamsHDF5{
		paramStr: convertToHdf5String("BitConfig:" + string(bitConfig)),
		value:    0,
	})
	if err := writeArrayToTable(w.TriggerParamsTable, &params, 0); err != nil {
		return fmt.Errorf("error writing trigger configuration: %w", err)
	}
	return nil
}

// WriteEvent appends the patches and the summary of one event.
func (w *Writer) WriteEvent(event trigger.Event, patches map[trigger.PatchCategory][]trigger.RawPatch, summary trigger.EventSummary) error {
	err := writeEntryToTable(w.EventTable, EventDataHDF5{
		evt_number: int32(event.EventID),
		n_hits:     int32(len(event.Hits)),
	}, w.EvtCounter)
	if err != nil {
		return fmt.Errorf("error writing event %d: %w", event.EventID, err)
	}
	w.EvtCounter++

	rows := make([]PatchHDF5, 0)
	for _, category := range trigger.Categories() {
		for _, patch := range patches[category] {
			rows = append(rows, PatchHDF5{
				evt_number:   int32(event.EventID),
				category:     int32(category),
				region:       int32(patch.Region),
				col:          int32(patch.Col),
				row:          int32(patch.Row),
				patch_size:   int32(patch.PatchSize),
				trigger_bits: patch.TriggerBits,
				adc:          patch.ADC,
			})
		}
	}
	if err := writeArrayToTable(w.PatchTable, &rows, w.PatchCounter); err != nil {
		return fmt.Errorf("error writing patches of event %d: %w", event.EventID, err)
	}
	w.PatchCounter += len(rows)

	summaries := make([]SummaryHDF5, len(summary.Categories))
	for i, s := range summary.Categories {
		summaries[i] = SummaryHDF5{
			evt_number: int32(summary.EventID),
			category:   int32(s.Category),
			count:      int32(s.Count),
			max_adc:    s.Max.ADC,
			median_adc: s.Median,
		}
	}
	if err := writeArrayToTable(w.SummaryTable, &summaries, w.SummaryCounter); err != nil {
		return fmt.Errorf("error writing summary of event %d: %w", event.EventID, err)
	}
	w.SummaryCounter += len(summaries)
	return nil
}

func (w *Writer) Close() error {
	datasets := []*hdf5.Dataset{w.EventTable, w.RunInfoTable, w.TriggerParamsTable, w.PatchTable, w.SummaryTable}
	for _, dataset := range datasets {
		if dataset != nil {
			dataset.Close()
		}
	}
	if w.TriggerGroup != nil {
		w.TriggerGroup.Close()
	}
	if w.RunGroup != nil {
		w.RunGroup.Close()
	}
	return w.File.Close()
}

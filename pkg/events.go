package trigger

// Hit is the energy deposit of a particle at (Eta, Phi). Phi is in [0, 2pi).
type Hit struct {
	Eta    float64
	Phi    float64
	Energy float64
}

type Event struct {
	EventID int
	Hits    []Hit
	Error   bool
}

// CategorySummary holds the statistics of one cached patch list.
type CategorySummary struct {
	Category PatchCategory
	Count    int
	Max      RawPatch
	Median   float64
}

type EventSummary struct {
	EventID    int
	Categories []CategorySummary
}

// Summarize runs the patch finders if needed and collects count, main patch
// and median amplitude of every patch list.
func (m *Maker) Summarize(eventID int) (EventSummary, error) {
	summary := EventSummary{EventID: eventID}
	for _, category := range cacheCategories {
		patches, err := m.GetPatches(category)
		if err != nil {
			return summary, err
		}
		maxPatch, err := m.GetMax(category)
		if err != nil {
			return summary, err
		}
		median, err := m.GetMedian(category)
		if err != nil {
			return summary, err
		}
		summary.Categories = append(summary.Categories, CategorySummary{
			Category: category,
			Count:    len(patches),
			Max:      maxPatch,
			Median:   median,
		})
	}
	return summary, nil
}

// Categories lists the six patch lists in output order.
func Categories() []PatchCategory {
	return append([]PatchCategory(nil), cacheCategories...)
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	trigger "github.com/emcal-fastsim/trigger_go/pkg"
)

// FileReader reads hits from a text file with one "event eta phi energy"
// line per particle. Lines of one event are consecutive; empty lines and
// lines starting with '#' are ignored.
type FileReader struct {
	scanner   *bufio.Scanner
	lineNo    int
	pending   *pendingHit
	EvtCount  int
	MaxEvents int
	Skip      int
}

type pendingHit struct {
	eventID int
	hit     trigger.Hit
}

func NewFileReader(r io.Reader, maxEvents int, skip int) *FileReader {
	return &FileReader{
		scanner:   bufio.NewScanner(r),
		EvtCount:  -1,
		MaxEvents: maxEvents,
		Skip:      skip,
	}
}

func (f *FileReader) readHit() (*pendingHit, error) {
	for f.scanner.Scan() {
		f.lineNo++
		line := strings.TrimSpace(f.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, got %d", f.lineNo, len(fields))
		}
		eventID, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid event id: %w", f.lineNo, err)
		}
		values := make([]float64, 3)
		for i, field := range fields[1:] {
			values[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", f.lineNo, field, err)
			}
		}
		return &pendingHit{
			eventID: eventID,
			hit:     trigger.Hit{Eta: values[0], Phi: values[1], Energy: values[2]},
		}, nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (f *FileReader) readEvent() (trigger.Event, error) {
	first := f.pending
	f.pending = nil
	if first == nil {
		var err error
		if first, err = f.readHit(); err != nil {
			return trigger.Event{}, err
		}
	}
	event := trigger.Event{EventID: first.eventID, Hits: []trigger.Hit{first.hit}}
	for {
		next, err := f.readHit()
		if err == io.EOF {
			return event, nil
		}
		if err != nil {
			return event, err
		}
		if next.eventID != event.EventID {
			f.pending = next
			return event, nil
		}
		event.Hits = append(event.Hits, next.hit)
	}
}

// NextEvent returns the next event after skipping the configured number of
// events, and io.EOF once the file or the event limit is exhausted.
func (f *FileReader) NextEvent() (trigger.Event, error) {
	for {
		if f.EvtCount+1 >= f.MaxEvents {
			if trigger.GetConfiguration().Verbosity > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return trigger.Event{}, io.EOF
		}
		event, err := f.readEvent()
		if err != nil {
			return event, err
		}
		f.EvtCount++
		if f.EvtCount < f.Skip {
			if trigger.GetConfiguration().Verbosity > 0 {
				message := fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, event.EventID)
				logger.Info(message, "fileReader")
			}
			continue
		}
		if trigger.GetConfiguration().Verbosity > 1 {
			message := fmt.Sprintf("Reading event %d with ID %d", f.EvtCount, event.EventID)
			logger.Info(message, "fileReader")
		}
		return event, nil
	}
}

package sample

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Event is one usable event with a 1-based id and the table row it came from.
type Event struct {
	FireID int
	Row    int
	Value  float64
}

// EventSet is the list of usable events of a column, in row order.
type EventSet struct {
	Events []Event
	Rows   int // rows in the source column, usable or not
}

// NewEventSet keeps the finite, strictly positive values and numbers them
// from 1 in row order. It fails when no value is usable.
func NewEventSet(values []float64) (*EventSet, error) {
	set := &EventSet{Rows: len(values)}
	for i, v := range values {
		if !(v > 0) || math.IsInf(v, 0) {
			continue
		}
		set.Events = append(set.Events, Event{FireID: len(set.Events) + 1, Row: i, Value: v})
	}
	if len(set.Events) == 0 {
		return nil, fmt.Errorf("no finite positive values among %d rows", len(values))
	}
	if dropped := len(values) - len(set.Events); dropped > 0 {
		logrus.Infof("Dropped %d of %d rows with non-finite or non-positive values", dropped, len(values))
	}
	return set, nil
}

// Values returns the event magnitudes.
func (s *EventSet) Values() []float64 {
	out := make([]float64, len(s.Events))
	for i, e := range s.Events {
		out[i] = e.Value
	}
	return out
}

// Gather returns column[e.Row] for every event, aligning another column of
// the same table with the events.
func (s *EventSet) Gather(column []float64) ([]float64, error) {
	if len(column) != s.Rows {
		return nil, fmt.Errorf("column has %d rows, events come from %d", len(column), s.Rows)
	}
	out := make([]float64, len(s.Events))
	for i, e := range s.Events {
		out[i] = column[e.Row]
	}
	return out, nil
}

// Scatter spreads one value per event back to a column over all source rows;
// rows without an event get fill.
func (s *EventSet) Scatter(values []float64, fill float64) ([]float64, error) {
	if len(values) != len(s.Events) {
		return nil, fmt.Errorf("%d values for %d events", len(values), len(s.Events))
	}
	out := make([]float64, s.Rows)
	for i := range out {
		out[i] = fill
	}
	for i, e := range s.Events {
		out[e.Row] = values[i]
	}
	return out, nil
}

package storage

import (
	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
)

// RecordingIndex is an in-memory view of recordings that habits are evaluated against
type RecordingIndex struct {
	values habit.MapLookup
}

var _ habit.MeasurementLookup = (*RecordingIndex)(nil)

// NewRecordingIndex indexes recordings by measurement and day.
func NewRecordingIndex(recordings []models.MeasurementRecording) *RecordingIndex {
	idx := &RecordingIndex{values: habit.MapLookup{}}
	for _, r := range recordings {
		idx.values.Set(r.MeasurementID, r.Day, r.Value)
	}
	return idx
}

// LoadRecordingIndex reads every recording between startDay and endDay.
func LoadRecordingIndex(p Provider, startDay, endDay string) (*RecordingIndex, error) {
	recordings, err := p.GetRecordingsInRange(startDay, endDay)
	if err != nil {
		return nil, err
	}
	return NewRecordingIndex(recordings), nil
}

// Value implements habit.MeasurementLookup.
func (i *RecordingIndex) Value(measurementID, date string) (float64, bool) {
	return i.values.Value(measurementID, date)
}

// Len returns the number of indexed recordings.
func (i *RecordingIndex) Len() int {
	n := 0
	for _, byDay := range i.values {
		n += len(byDay)
	}
	return n
}

package habit

// MeasurementLookup returns the value recorded for a measurement on a date.
// ok is false when nothing was recorded.
type MeasurementLookup interface {
	Value(measurementID, date string) (value float64, ok bool)
}

// LookupFunc adapts a plain function to MeasurementLookup.
type LookupFunc func(measurementID, date string) (float64, bool)

// Value calls f.
func (f LookupFunc) Value(measurementID, date string) (float64, bool) {
	return f(measurementID, date)
}

// MapLookup is a MeasurementLookup keyed by measurement id, then date.
type MapLookup map[string]map[string]float64

// Value implements MeasurementLookup.
func (m MapLookup) Value(measurementID, date string) (float64, bool) {
	byDate, ok := m[measurementID]
	if !ok {
		return 0, false
	}
	v, ok := byDate[date]
	return v, ok
}

// Set records v for measurementID on date.
func (m MapLookup) Set(measurementID, date string, v float64) {
	if m[measurementID] == nil {
		m[measurementID] = make(map[string]float64)
	}
	m[measurementID][date] = v
}

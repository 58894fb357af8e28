package models

import "time"

// MeasurementType describes how a measurement's values are entered
type MeasurementType string

const (
	// MeasurementCount is a free numeric quantity (steps, cups, pages)
	MeasurementCount MeasurementType = "count"
	// MeasurementDuration is a quantity of minutes
	MeasurementDuration MeasurementType = "duration"
	// MeasurementBool is recorded as 1 (done) or 0 (not done)
	MeasurementBool MeasurementType = "bool"
)

// Measurement is a tracked quantity that habit conditions refer to
type Measurement struct {
	ID        string          `json:"id" yaml:"id"`
	UserID    string          `json:"user_id" yaml:"user_id"`
	Name      string          `json:"name" yaml:"name" validate:"required,max=64"`
	Type      MeasurementType `json:"type" yaml:"type" validate:"required,oneof=count duration bool"`
	Unit      string          `json:"unit,omitempty" yaml:"unit,omitempty" validate:"max=16"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// MeasurementRecording is a single day's value for a measurement
type MeasurementRecording struct {
	MeasurementID string    `json:"measurement_id" yaml:"measurement_id"`
	Day           string    `json:"day" yaml:"day"` // YYYY-MM-DD format
	Value         float64   `json:"value" yaml:"value"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// SetRecording upserts the value of a measurement on a day
func (s *Store) SetRecording(r models.MeasurementRecording) error {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	_, err := s.db.Exec(s.rebind(`
		INSERT INTO measurement_recordings (measurement_id, day, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (measurement_id, day) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`),
		r.MeasurementID, r.Day, r.Value, formatTime(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to record %s on %s: %w", r.MeasurementID, r.Day, err)
	}
	return nil
}

func scanRecording(row rowScanner) (models.MeasurementRecording, error) {
	var r models.MeasurementRecording
	var updatedAt string
	if err := row.Scan(&r.MeasurementID, &r.Day, &r.Value, &updatedAt); err != nil {
		return models.MeasurementRecording{}, err
	}
	var err error
	if r.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.MeasurementRecording{}, err
	}
	return r, nil
}

func (s *Store) GetRecording(measurementID, day string) (models.MeasurementRecording, error) {
	row := s.db.QueryRow(s.rebind(`
		SELECT measurement_id, day, value, updated_at
		FROM measurement_recordings WHERE measurement_id = ? AND day = ?`), measurementID, day)

	r, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MeasurementRecording{}, fmt.Errorf("recording %s on %s: %w", measurementID, day, storage.ErrNotFound)
	}
	return r, err
}

func (s *Store) DeleteRecording(measurementID, day string) error {
	res, err := s.db.Exec(s.rebind(`
		DELETE FROM measurement_recordings WHERE measurement_id = ? AND day = ?`), measurementID, day)
	if err != nil {
		return err
	}
	return affectedOne(res, fmt.Errorf("recording %s on %s: %w", measurementID, day, storage.ErrNotFound))
}

func (s *Store) GetRecordingsForMeasurement(measurementID, startDay, endDay string) ([]models.MeasurementRecording, error) {
	return s.queryRecordings(`
		SELECT measurement_id, day, value, updated_at
		FROM measurement_recordings
		WHERE measurement_id = ? AND day >= ? AND day <= ?
		ORDER BY day`, measurementID, startDay, endDay)
}

func (s *Store) GetRecordingsInRange(startDay, endDay string) ([]models.MeasurementRecording, error) {
	return s.queryRecordings(`
		SELECT r.measurement_id, r.day, r.value, r.updated_at
		FROM measurement_recordings r
		JOIN measurements m ON m.id = r.measurement_id
		WHERE m.deleted_at IS NULL AND r.day >= ? AND r.day <= ?
		ORDER BY r.day, r.measurement_id`, startDay, endDay)
}

func (s *Store) queryRecordings(query string, args ...any) ([]models.MeasurementRecording, error) {
	rows, err := s.db.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recordings := []models.MeasurementRecording{}
	for rows.Next() {
		r, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, r)
	}
	return recordings, rows.Err()
}

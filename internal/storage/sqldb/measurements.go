package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const measurementColumns = "id, user_id, name, type, unit, created_at, deleted_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (models.Measurement, error) {
	var m models.Measurement
	var mType, createdAt string
	var deletedAt sql.NullString

	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &mType, &m.Unit, &createdAt, &deletedAt); err != nil {
		return models.Measurement{}, err
	}
	m.Type = models.MeasurementType(mType)

	var err error
	if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Measurement{}, err
	}
	if m.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Measurement{}, err
	}
	return m, nil
}

func (s *Store) AddMeasurement(m models.Measurement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(s.rebind(`
		INSERT INTO measurements (`+measurementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.UserID, m.Name, string(m.Type), m.Unit, formatTime(m.CreatedAt), formatNullTime(m.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to add measurement %q: %w", m.Name, err)
	}
	return nil
}

func (s *Store) GetMeasurement(id string) (models.Measurement, error) {
	row := s.db.QueryRow(s.rebind(`
		SELECT `+measurementColumns+`
		FROM measurements WHERE id = ? AND deleted_at IS NULL`), id)

	m, err := scanMeasurement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Measurement{}, fmt.Errorf("measurement %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

func (s *Store) GetMeasurementByName(name string) (models.Measurement, error) {
	row := s.db.QueryRow(s.rebind(`
		SELECT `+measurementColumns+`
		FROM measurements WHERE name = ? AND deleted_at IS NULL`), name)

	m, err := scanMeasurement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Measurement{}, fmt.Errorf("measurement %q: %w", name, storage.ErrNotFound)
	}
	return m, err
}

func (s *Store) GetAllMeasurements(includeDeleted bool) ([]models.Measurement, error) {
	query := "SELECT " + measurementColumns + " FROM measurements"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY name, created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := []models.Measurement{}
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

func (s *Store) UpdateMeasurement(m models.Measurement) error {
	res, err := s.db.Exec(s.rebind(`
		UPDATE measurements SET user_id = ?, name = ?, type = ?, unit = ?
		WHERE id = ? AND deleted_at IS NULL`),
		m.UserID, m.Name, string(m.Type), m.Unit, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update measurement %q: %w", m.Name, err)
	}
	return affectedOne(res, fmt.Errorf("measurement %s: %w", m.ID, storage.ErrNotFound))
}

// DeleteMeasurement soft-deletes a measurement. Its recordings are kept so a
// restore brings back its history.
func (s *Store) DeleteMeasurement(id string) error {
	res, err := s.db.Exec(s.rebind(`
		UPDATE measurements SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL`), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return affectedOne(res, fmt.Errorf("measurement %s: %w", id, storage.ErrNotFound))
}

func (s *Store) RestoreMeasurement(id string) error {
	res, err := s.db.Exec(s.rebind(`
		UPDATE measurements SET deleted_at = NULL
		WHERE id = ? AND deleted_at IS NOT NULL`), id)
	if err != nil {
		return fmt.Errorf("failed to restore measurement %s (an active measurement may already use its name): %w", id, err)
	}
	return affectedOne(res, fmt.Errorf("deleted measurement %s: %w", id, storage.ErrNotFound))
}

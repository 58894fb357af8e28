package sqldb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const habitColumns = "id, user_id, created_at, deleted_at"

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	var deletedAt sql.NullString

	if err := row.Scan(&h.ID, &h.UserID, &createdAt, &deletedAt); err != nil {
		return models.Habit{}, err
	}

	var err error
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	if h.DeletedAt, err = parseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.Updates = []models.HabitUpdate{}
	return h, nil
}

func (s *Store) AddHabit(h models.Habit) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.rebind(`
		INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?)`),
		h.ID, h.UserID, formatTime(h.CreatedAt), formatNullTime(h.DeletedAt)); err != nil {
		return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
	}
	if err := s.writeUpdates(tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

// SaveHabit upserts the habit row and rewrites its update log in order.
// Deletion state is left untouched; use DeleteHabit and RestoreHabit.
func (s *Store) SaveHabit(h models.Habit) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.rebind(`
		INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id`),
		h.ID, h.UserID, formatTime(h.CreatedAt), formatNullTime(h.DeletedAt)); err != nil {
		return fmt.Errorf("failed to save habit %s: %w", h.ID, err)
	}
	if _, err := tx.Exec(s.rebind("DELETE FROM habit_updates WHERE habit_id = ?"), h.ID); err != nil {
		return fmt.Errorf("failed to clear updates for habit %s: %w", h.ID, err)
	}
	if err := s.writeUpdates(tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) writeUpdates(tx *sql.Tx, h models.Habit) error {
	if len(h.Updates) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(s.rebind(`
		INSERT INTO habit_updates (habit_id, seq, day, payload) VALUES (?, ?, ?, ?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, u := range h.Updates {
		payload, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("failed to encode update %d of habit %s: %w", i, h.ID, err)
		}
		if _, err := stmt.Exec(h.ID, i, u.Date, string(payload)); err != nil {
			return fmt.Errorf("failed to write update %d of habit %s: %w", i, h.ID, err)
		}
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(s.rebind(`
		SELECT `+habitColumns+`
		FROM habits WHERE id = ? AND deleted_at IS NULL`), id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Habit{}, err
	}

	updates, err := s.loadUpdates(s.rebind(`
		SELECT habit_id, payload FROM habit_updates WHERE habit_id = ? ORDER BY seq`), id)
	if err != nil {
		return models.Habit{}, err
	}
	if u, ok := updates[id]; ok {
		h.Updates = u
	}
	return h, nil
}

func (s *Store) GetAllHabits(includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	updates, err := s.loadUpdates("SELECT habit_id, payload FROM habit_updates ORDER BY habit_id, seq")
	if err != nil {
		return nil, err
	}
	for i := range habits {
		if u, ok := updates[habits[i].ID]; ok {
			habits[i].Updates = u
		}
	}
	return habits, nil
}

// loadUpdates groups decoded update payloads by habit id, preserving seq order.
func (s *Store) loadUpdates(query string, args ...any) (map[string][]models.HabitUpdate, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]models.HabitUpdate{}
	for rows.Next() {
		var habitID, payload string
		if err := rows.Scan(&habitID, &payload); err != nil {
			return nil, err
		}
		var u models.HabitUpdate
		if err := json.Unmarshal([]byte(payload), &u); err != nil {
			return nil, fmt.Errorf("failed to decode update for habit %s: %w", habitID, err)
		}
		out[habitID] = append(out[habitID], u)
	}
	return out, rows.Err()
}

func (s *Store) DeleteHabit(id string) error {
	res, err := s.db.Exec(s.rebind(`
		UPDATE habits SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL`), formatTime(time.Now()), id)
	if err != nil {
		return err
	}
	return affectedOne(res, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound))
}

func (s *Store) RestoreHabit(id string) error {
	res, err := s.db.Exec(s.rebind(`
		UPDATE habits SET deleted_at = NULL
		WHERE id = ? AND deleted_at IS NOT NULL`), id)
	if err != nil {
		return err
	}
	return affectedOne(res, fmt.Errorf("deleted habit %s: %w", id, storage.ErrNotFound))
}

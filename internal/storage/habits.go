package storage

import (
	"fmt"

	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
)

// FindHabitByName returns the non-deleted habit whose name as of asOf is name.
// Names live in the update log, so every habit is replayed.
func FindHabitByName(p Provider, name, asOf string) (models.Habit, error) {
	habits, err := p.GetAllHabits(false)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if habit.ComputeHabit(h, asOf).Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", name, ErrNotFound)
}

// FindDeletedHabitByName is FindHabitByName restricted to soft-deleted habits.
func FindDeletedHabitByName(p Provider, name, asOf string) (models.Habit, error) {
	habits, err := p.GetAllHabits(true)
	if err != nil {
		return models.Habit{}, err
	}
	for _, h := range habits {
		if h.DeletedAt != nil && habit.ComputeHabit(h, asOf).Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("deleted habit %q: %w", name, ErrNotFound)
}

// ComputeAll replays every habit as of asOf.
func ComputeAll(habits []models.Habit, asOf string) []models.ComputedHabit {
	out := make([]models.ComputedHabit, len(habits))
	for i, h := range habits {
		out[i] = habit.ComputeHabit(h, asOf)
	}
	return out
}

package habits

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/validation"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Define a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Change a habit from a date onward."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit's definition and progress."`
	History HabitHistoryCmd `cmd:"" help:"Show a habit's dated change log."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive (or unarchive) a habit from a date onward."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

// resolveConditions turns "name op target" expressions into conditions on measurement ids
func resolveConditions(store storage.Provider, exprs []string) ([]models.Condition, error) {
	conditions := make([]models.Condition, 0, len(exprs))
	for _, expr := range exprs {
		parsed, err := habit.ParseCondition(expr)
		if err != nil {
			return nil, err
		}
		m, err := store.GetMeasurementByName(parsed.Measurement)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", expr, err)
		}
		conditions = append(conditions, models.Condition{
			MeasurementID: m.ID,
			Operator:      parsed.Operator,
			Target:        parsed.Target,
		})
	}
	return conditions, nil
}

// measurementNames maps every measurement id, including deleted ones, to its name
func measurementNames(store storage.Provider) (map[string]string, error) {
	all, err := store.GetAllMeasurements(true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(all))
	for _, m := range all {
		names[m.ID] = m.Name
	}
	return names, nil
}

func describeConditions(h models.ComputedHabit, names map[string]string) string {
	parts := make([]string, len(h.Conditions))
	for i, c := range h.Conditions {
		name, ok := names[c.MeasurementID]
		if !ok {
			name = c.MeasurementID
		}
		parts[i] = habit.FormatCondition(c, name)
	}
	joiner := " AND "
	if h.Predicate == models.PredicateOr {
		joiner = " OR "
	}
	return strings.Join(parts, joiner)
}

func describeSchedule(h models.ComputedHabit) string {
	if h.IsWeekly {
		return "weekly total"
	}
	return fmt.Sprintf("daily, %d/week", h.DaysPerWeek)
}

// commit validates current, records it on date, and saves the habit
func commit(ctx *cli.Context, h models.Habit, current models.ComputedHabit, date string, isNew bool) (models.Habit, error) {
	if err := validation.ValidateDefinition(current); err != nil {
		return h, err
	}
	h, err := habit.CommitEdit(h, current, date)
	if err != nil {
		return h, err
	}
	if isNew {
		return h, ctx.Store.AddHabit(h)
	}
	return h, ctx.Store.SaveHabit(h)
}

type HabitAddCmd struct {
	Name        string   `arg:"" help:"Habit name."`
	Condition   []string `short:"c" help:"Condition such as 'steps>=10000'. Repeat for more." required:""`
	Or          bool     `help:"Complete when any condition holds (default: all must hold)."`
	Weekly      bool     `help:"Evaluate conditions against the running weekly total."`
	DaysPerWeek int      `help:"Target completed days per week for daily habits." default:"${habit_days_per_week}"`
	Points      int      `help:"Points earned on completion." default:"${habit_points}"`
	Priority    int      `help:"Display order, lowest first." default:"${habit_priority}"`
	Date        string   `help:"First day the habit applies (default: today)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if _, err := storage.FindHabitByName(ctx.Store, c.Name, date); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	conditions, err := resolveConditions(ctx.Store, c.Condition)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	current := models.NewComputedHabit()
	current.Name = c.Name
	current.IsWeekly = c.Weekly
	current.DaysPerWeek = c.DaysPerWeek
	current.Points = c.Points
	current.Priority = c.Priority
	current.Conditions = conditions
	current.Predicate = models.PredicateAnd
	if c.Or {
		current.Predicate = models.PredicateOr
	}

	h := models.Habit{
		ID:        uuid.New().String(),
		UserID:    settings.UserID,
		CreatedAt: time.Now(),
	}
	if _, err := commit(ctx, h, current, date, true); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%d point(s), %s)\n", c.Name, c.Points, describeSchedule(current))
	return nil
}

type HabitEditCmd struct {
	Name        string   `arg:"" help:"Habit name."`
	Rename      *string  `help:"New name."`
	Condition   []string `short:"c" help:"Replace all conditions. Repeat for more."`
	Predicate   *string  `help:"How conditions combine (and, or)."`
	Weekly      *bool    `help:"Evaluate against the weekly total." negatable:""`
	DaysPerWeek *int     `help:"Target completed days per week."`
	Points      *int     `help:"Points earned on completion."`
	Priority    *int     `help:"Display order, lowest first."`
	Date        string   `help:"First day the change applies (default: today)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	h, err := storage.FindHabitByName(ctx.Store, c.Name, date)
	if err != nil {
		return err
	}
	current := habit.ComputeHabit(h, date)

	if c.Rename != nil {
		if *c.Rename != c.Name {
			if _, err := storage.FindHabitByName(ctx.Store, *c.Rename, date); err == nil {
				return fmt.Errorf("habit with name %q already exists", *c.Rename)
			}
		}
		current.Name = *c.Rename
	}
	if len(c.Condition) > 0 {
		conditions, err := resolveConditions(ctx.Store, c.Condition)
		if err != nil {
			return err
		}
		current.Conditions = conditions
	}
	if c.Predicate != nil {
		p, err := habit.ParsePredicate(*c.Predicate)
		if err != nil {
			return err
		}
		current.Predicate = p
	}
	if c.Weekly != nil {
		current.IsWeekly = *c.Weekly
	}
	if c.DaysPerWeek != nil {
		current.DaysPerWeek = *c.DaysPerWeek
	}
	if c.Points != nil {
		current.Points = *c.Points
	}
	if c.Priority != nil {
		current.Priority = *c.Priority
	}

	before := len(h.Updates)
	updated, err := commit(ctx, h, current, date, false)
	if err != nil {
		return err
	}

	switch {
	case len(updated.Updates) < before:
		fmt.Printf("Habit %s on %s now matches the previous day; removed that day's change.\n", current.Name, date)
	default:
		fmt.Printf("Updated habit %s from %s.\n", current.Name, date)
	}
	return nil
}

type HabitShowCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date to show (default: today)."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	h, err := storage.FindHabitByName(ctx.Store, c.Name, date)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	view, err := storage.LoadDayView(ctx.Store, date, settings.WeekStart)
	if err != nil {
		return err
	}

	current := habit.ComputeHabit(h, date)
	fmt.Print(RenderHabit(current, view))
	return nil
}

type HabitHistoryCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	h, err := storage.FindHabitByName(ctx.Store, c.Name, today)
	if err != nil {
		return err
	}
	names, err := measurementNames(ctx.Store)
	if err != nil {
		return err
	}

	fmt.Print(RenderHistory(h, names))
	return nil
}

type HabitListCmd struct {
	Archived bool   `help:"Include archived habits."`
	Deleted  bool   `help:"Include deleted habits."`
	Date     string `help:"Show definitions as of this date (default: today)."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	all, err := ctx.Store.GetAllHabits(c.Deleted)
	if err != nil {
		return err
	}
	names, err := measurementNames(ctx.Store)
	if err != nil {
		return err
	}

	deleted := map[string]bool{}
	var computed []models.ComputedHabit
	for _, h := range all {
		ch := habit.ComputeHabit(h, date)
		if ch.Name == "" || (ch.Archived && !c.Archived) {
			continue
		}
		deleted[h.ID] = h.DeletedAt != nil
		computed = append(computed, ch)
	}

	if len(computed) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	habit.SortForDisplay(computed)
	for _, h := range computed {
		status := ""
		if deleted[h.ID] {
			status = " " + cli.DangerStyle.Render("[DELETED]")
		} else if h.Archived {
			status = " " + cli.MutedStyle.Render("[ARCHIVED]")
		}
		fmt.Printf("%-24s %3d pt  %-16s %s%s\n", h.Name, h.Points, describeSchedule(h),
			cli.MutedStyle.Render(describeConditions(h, names)), status)
	}
	return nil
}

type HabitArchiveCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Date  string `help:"First day the habit is archived (default: today)."`
	Undo  bool   `help:"Unarchive instead."`
	Force bool   `short:"y" help:"Skip confirmation."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	h, err := storage.FindHabitByName(ctx.Store, c.Name, date)
	if err != nil {
		return err
	}
	current := habit.ComputeHabit(h, date)
	if current.Archived == !c.Undo {
		fmt.Printf("Habit %s is already %s on %s.\n", c.Name, archivedWord(!c.Undo), date)
		return nil
	}

	if !c.Force && !c.Undo {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Archive %s from %s?", c.Name, date)).
			Description("It stops earning points; earlier days keep their history.").
			Affirmative("Archive").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	current.Archived = !c.Undo
	if _, err := commit(ctx, h, current, date, false); err != nil {
		return err
	}
	fmt.Printf("Habit %s %s from %s.\n", c.Name, archivedWord(current.Archived), date)
	return nil
}

func archivedWord(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	h, err := storage.FindHabitByName(ctx.Store, c.Name, today)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", c.Name)
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	h, err := storage.FindDeletedHabitByName(ctx.Store, c.Name, today)
	if err != nil {
		return err
	}
	if _, err := storage.FindHabitByName(ctx.Store, c.Name, today); err == nil {
		return fmt.Errorf("an active habit named %q already exists", c.Name)
	}
	if err := ctx.Store.RestoreHabit(h.ID); err != nil {
		return err
	}
	fmt.Printf("Restored habit: %s\n", c.Name)
	return nil
}

// sortedUpdates returns the log in replay order without modifying h
func sortedUpdates(h models.Habit) []models.HabitUpdate {
	updates := append([]models.HabitUpdate(nil), h.Updates...)
	sort.SliceStable(updates, func(i, j int) bool { return updates[i].Date < updates[j].Date })
	return updates
}

package habits

import (
	"fmt"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/habit"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/utils"
)

const barWidth = 12

// completionFor evaluates h the way the status view does: the single date
// for daily habits, the week so far for weekly ones.
func completionFor(h models.ComputedHabit, view storage.DayView) habit.Completion {
	if h.IsWeekly {
		through := view.Week
		for i, d := range view.Week {
			if d == view.Date {
				through = view.Week[:i+1]
			}
		}
		return habit.GetHabitCompletion(&h, view.Lookup, through)
	}
	return habit.GetHabitCompletion(&h, view.Lookup, []string{view.Date})
}

func renderConditions(b *strings.Builder, h models.ComputedHabit, c habit.Completion, view storage.DayView) {
	for i, cond := range h.Conditions {
		name := view.MeasurementName(cond.MeasurementID)
		fmt.Fprintf(b, "    %s %-28s %8s  %s\n",
			cli.Mark(c.ConditionCompletions[i]),
			habit.FormatCondition(cond, name),
			cli.FormatValue(c.ConditionValues[i]),
			cli.ProgressBar(c.ConditionProgressions[i], barWidth))
	}
}

// RenderHabit prints one habit's definition and its progress on the view's date
func RenderHabit(h models.ComputedHabit, view storage.DayView) string {
	var b strings.Builder
	fmt.Fprintln(&b, cli.HeaderStyle.Render(h.Name))
	fmt.Fprintf(&b, "  Schedule:  %s\n", describeSchedule(h))
	fmt.Fprintf(&b, "  Points:    %d\n", h.Points)
	fmt.Fprintf(&b, "  Priority:  %d\n", h.Priority)
	fmt.Fprintf(&b, "  Predicate: %s\n", h.Predicate)
	if h.Archived {
		fmt.Fprintf(&b, "  Status:    %s\n", cli.MutedStyle.Render("archived"))
	}

	c := completionFor(h, view)
	fmt.Fprintf(&b, "  %s on %s\n", completeWord(c.Complete), view.Date)
	renderConditions(&b, h, c, view)
	return b.String()
}

func completeWord(complete bool) string {
	if complete {
		return cli.DoneStyle.Render("Complete")
	}
	return cli.MissStyle.Render("Incomplete")
}

// RenderHistory lists every dated update with the fields it set
func RenderHistory(h models.Habit, names map[string]string) string {
	var b strings.Builder
	if len(h.Updates) == 0 {
		b.WriteString("No changes recorded.\n")
		return b.String()
	}

	for _, u := range sortedUpdates(h) {
		fmt.Fprintf(&b, "%s  %s\n", cli.HeaderStyle.Render(u.Date), strings.Join(describeUpdate(u, names), ", "))
	}
	return b.String()
}

func describeUpdate(u models.HabitUpdate, names map[string]string) []string {
	var parts []string
	if u.Name != nil {
		parts = append(parts, fmt.Sprintf("name=%q", *u.Name))
	}
	if u.IsWeekly != nil {
		parts = append(parts, fmt.Sprintf("weekly=%t", *u.IsWeekly))
	}
	if u.DaysPerWeek != nil {
		parts = append(parts, fmt.Sprintf("days/week=%d", *u.DaysPerWeek))
	}
	if u.Points != nil {
		parts = append(parts, fmt.Sprintf("points=%d", *u.Points))
	}
	if u.Archived != nil {
		parts = append(parts, fmt.Sprintf("archived=%t", *u.Archived))
	}
	if u.Conditions != nil {
		conds := make([]string, len(*u.Conditions))
		for i, c := range *u.Conditions {
			name, ok := names[c.MeasurementID]
			if !ok {
				name = c.MeasurementID
			}
			conds[i] = habit.FormatCondition(c, name)
		}
		parts = append(parts, fmt.Sprintf("conditions=[%s]", strings.Join(conds, "; ")))
	}
	if u.Predicate != nil {
		parts = append(parts, fmt.Sprintf("predicate=%s", *u.Predicate))
	}
	if u.Priority != nil {
		parts = append(parts, fmt.Sprintf("priority=%d", *u.Priority))
	}
	if len(parts) == 0 {
		parts = append(parts, "no changes")
	}
	return parts
}

// RenderStatus prints every active habit's completion and points on the view's date
func RenderStatus(view storage.DayView) string {
	var b strings.Builder
	fmt.Fprintln(&b, cli.HeaderStyle.Render("Habits for "+view.Date))

	if len(view.Habits) == 0 {
		b.WriteString("No habits found.\n")
		return b.String()
	}

	score := view.Score()
	for i, h := range view.Habits {
		hs := score.Habits[i]
		suffix := ""
		if h.IsWeekly {
			suffix = cli.MutedStyle.Render(" (week so far)")
		}
		fmt.Fprintf(&b, "%s %-24s %+d pt%s\n", cli.Mark(hs.Completion.Complete), h.Name, hs.Points, suffix)
		renderConditions(&b, h, hs.Completion, view)
	}
	fmt.Fprintf(&b, "\nPoints today: %d\n", score.Total)
	return b.String()
}

// RenderWeek prints a per-day grid of the week containing the view's date
func RenderWeek(view storage.DayView) string {
	var b strings.Builder
	fmt.Fprintln(&b, cli.HeaderStyle.Render(fmt.Sprintf("Week of %s", view.Week[0])))

	if len(view.Habits) == 0 {
		b.WriteString("No habits found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-24s", "")
	for _, d := range view.Week {
		t, _ := utils.ParseDate(d)
		fmt.Fprintf(&b, " %-3s", t.Weekday().String()[:3])
	}
	b.WriteString("  goal     pts\n")

	total := 0
	for i, s := range view.Summaries() {
		h := view.Habits[i]
		fmt.Fprintf(&b, "%-24s", h.Name)
		for _, done := range s.Days {
			fmt.Fprintf(&b, " %s  ", cli.Mark(done))
		}

		goal := fmt.Sprintf("%d/%d", s.CompletedDays, h.DaysPerWeek)
		if h.IsWeekly {
			goal = "-"
			if s.CompletionDay >= 0 {
				t, _ := utils.ParseDate(view.Week[s.CompletionDay])
				goal = "on " + t.Weekday().String()[:3]
			}
		}
		if s.GoalMet {
			goal = cli.DoneStyle.Render(fmt.Sprintf("%-8s", goal))
		} else {
			goal = fmt.Sprintf("%-8s", goal)
		}
		fmt.Fprintf(&b, "  %s %3d\n", goal, s.Points)
		total += s.Points
	}
	fmt.Fprintf(&b, "\nPoints this week: %d\n", total)
	return b.String()
}

package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/lockfile"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/tui"
)

type TuiCmd struct {
	Date string `help:"Day to open (YYYY-MM-DD, today, yesterday)."`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	if _, ok := ctx.Store.(*sqlite.Store); ok {
		release, err := lockfile.Acquire(ctx.Store.GetConfigPath())
		if err != nil {
			return err
		}
		defer release()
	}

	m, err := tui.NewModel(ctx.Store, settings, date)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

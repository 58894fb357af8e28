package habits

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/storage"
)

type StatusCmd struct {
	Date string `help:"Date to evaluate (default: today)."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	view, err := loadView(ctx, c.Date)
	if err != nil {
		return err
	}
	fmt.Print(RenderStatus(view))
	return nil
}

type WeekCmd struct {
	Date string `help:"Any date in the week to show (default: today)."`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	view, err := loadView(ctx, c.Date)
	if err != nil {
		return err
	}
	fmt.Print(RenderWeek(view))
	return nil
}

func loadView(ctx *cli.Context, rawDate string) (storage.DayView, error) {
	date, err := ctx.ResolveDate(rawDate)
	if err != nil {
		return storage.DayView{}, err
	}
	settings, err := ctx.Settings()
	if err != nil {
		return storage.DayView{}, err
	}
	return storage.LoadDayView(ctx.Store, date, settings.WeekStart)
}

package system

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/transfer"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}

	b, err := transfer.Export(ctx.Store, w)
	if err != nil {
		return err
	}
	if c.Output != "" {
		fmt.Printf("Exported %d measurement(s), %d recording(s), %d habit(s) to %s\n",
			len(b.Measurements), len(b.Recordings), len(b.Habits), c.Output)
	}
	return nil
}

type ImportCmd struct {
	File         string `arg:"" help:"YAML file produced by export." type:"existingfile"`
	Overwrite    bool   `help:"Replace measurements and habit histories that already exist."`
	SkipSettings bool   `help:"Keep this database's timezone and week start."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := transfer.Read(f)
	if err != nil {
		return err
	}

	if c.Overwrite {
		if err := snapshotBeforeChange(ctx.Store); err != nil {
			return err
		}
	}

	res, err := transfer.Import(ctx.Store, b, transfer.Options{Overwrite: c.Overwrite, SkipSettings: c.SkipSettings})
	if err != nil {
		return err
	}
	ctx.InvalidateSettings()

	fmt.Printf("Imported %d measurement(s), %d recording(s), %d habit(s)", res.Measurements, res.Recordings, res.Habits)
	if res.Skipped > 0 {
		fmt.Printf(" (%d already present, skipped)", res.Skipped)
	}
	fmt.Println()
	return nil
}

package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/lockfile"
	"github.com/julianstephens/tally/internal/storage/sqlite"
	"github.com/julianstephens/tally/internal/transfer"
)

type InitCmd struct {
	Force bool   `help:"Delete an existing SQLite database before initialization."`
	From  string `help:"YAML export to load into the new database." type:"existingfile"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); !ok {
			return fmt.Errorf("--force only supports SQLite storage")
		}
		dbPath := ctx.Store.GetConfigPath()
		if err := lockfile.Check(dbPath); err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := snapshotBeforeChange(ctx.Store); err != nil {
				return err
			}
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.InvalidateSettings()
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())

	if c.From == "" {
		return nil
	}

	f, err := os.Open(c.From)
	if err != nil {
		return err
	}
	defer f.Close()

	bundle, err := transfer.Read(f)
	if err != nil {
		return err
	}
	res, err := transfer.Import(ctx.Store, bundle, transfer.Options{})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("Loaded %d measurement(s), %d recording(s), %d habit(s) from %s\n",
		res.Measurements, res.Recordings, res.Habits, c.From)
	return nil
}

package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/lockfile"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the SQLite database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

func backupManager(store storage.Provider) (*backup.Manager, error) {
	if _, ok := store.(*sqlite.Store); !ok {
		return nil, errors.New("backups are only supported for SQLite storage; use 'export' for PostgreSQL")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

// snapshotBeforeChange backs up a SQLite store ahead of a destructive
// operation. Other backends are left alone.
func snapshotBeforeChange(store storage.Provider) error {
	if _, ok := store.(*sqlite.Store); !ok {
		return nil
	}
	s, err := backup.NewManager(store.GetConfigPath()).Create()
	if err != nil {
		return fmt.Errorf("failed to back up before changing data: %w", err)
	}
	fmt.Println(cli.MutedStyle.Render("Backup created: " + s.Name()))
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx.Store)
	if err != nil {
		return err
	}
	s, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Println(cli.DoneStyle.Render("✓ Backup created: " + s.Name()))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx.Store)
	if err != nil {
		return err
	}
	snapshots, err := mgr.List()
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(snapshots), backup.Keep)
	for _, s := range snapshots {
		fmt.Printf("  %s  %s  (%.1f KB)\n", s.TakenAt.Local().Format("2006-01-02 15:04:05"), s.Name(), float64(s.Size)/1024)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	File  string `arg:"" help:"Path or file name of the snapshot to restore."`
	Force bool   `short:"y" help:"Skip confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx.Store)
	if err != nil {
		return err
	}
	path, err := mgr.Resolve(c.File)
	if err != nil {
		return err
	}
	if err := lockfile.Check(ctx.Store.GetConfigPath()); err != nil {
		return err
	}

	if !c.Force {
		confirmed := false
		err := huh.NewConfirm().
			Title("Replace the current database with " + path + "?").
			Description("The current database is backed up before restoring.").
			Affirmative("Restore").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if previous.Path != "" {
		fmt.Printf("Previous database saved as: %s\n", previous.Name())
	}
	fmt.Println(cli.DoneStyle.Render("✓ Database restored"))
	return nil
}

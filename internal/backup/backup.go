package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
)

const (
	// Keep is how many snapshots survive pruning
	Keep = 14

	dirName     = "backups"
	stampLayout = "20060102-150405"
	suffix      = ".db"
)

var prefix = constants.AppName + "-"

// Snapshot is one backup file of a SQLite database
type Snapshot struct {
	Path    string
	TakenAt time.Time
	Size    int64
}

func (s Snapshot) Name() string {
	return filepath.Base(s.Path)
}

// Manager takes and restores snapshots of a single SQLite database.
// Snapshots live in a "backups" directory beside the database file.
type Manager struct {
	dbPath string
	dir    string
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), dirName),
		now:    time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create snapshots the database and prunes old snapshots.
func (m *Manager) Create() (Snapshot, error) {
	s, err := m.snapshot()
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.prune(); err != nil {
		logger.Warn("failed to prune old backups", "dir", m.dir, "error", err)
	}
	return s, nil
}

// nextPath picks an unused file name for a snapshot taken now
func (m *Manager) nextPath(taken time.Time) (string, error) {
	stamp := taken.Format(stampLayout)
	for n := 0; n < 100; n++ {
		name := prefix + stamp + suffix
		if n > 0 {
			name = fmt.Sprintf("%s%s-%d%s", prefix, stamp, n, suffix)
		}
		path := filepath.Join(m.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("no free backup name for %s", stamp)
}

func (m *Manager) snapshot() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Snapshot{}, fmt.Errorf("database not found: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	taken := m.now().UTC().Truncate(time.Second)
	dest, err := m.nextPath(taken)
	if err != nil {
		return Snapshot{}, err
	}

	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	if err := verify(src); err != nil {
		return Snapshot{}, fmt.Errorf("database appears corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		if err := copyFile(m.dbPath, dest); err != nil {
			return Snapshot{}, fmt.Errorf("failed to copy database: %w", err)
		}
	}

	info, err := os.Stat(dest)
	if err != nil {
		return Snapshot{}, err
	}
	logger.Info("created backup", "path", dest)
	return Snapshot{Path: dest, TakenAt: taken, Size: info.Size()}, nil
}

// parseName extracts the timestamp from "tally-YYYYMMDD-HHMMSS[-N].db"
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	if len(rest) < len(stampLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(stampLayout, rest[:len(stampLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// List returns snapshots newest first. A missing directory is not an error.
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	snapshots := lo.FilterMap(entries, func(e os.DirEntry, _ int) (Snapshot, bool) {
		if e.IsDir() {
			return Snapshot{}, false
		}
		taken, ok := parseName(e.Name())
		if !ok {
			return Snapshot{}, false
		}
		info, err := e.Info()
		if err != nil {
			return Snapshot{}, false
		}
		return Snapshot{Path: filepath.Join(m.dir, e.Name()), TakenAt: taken, Size: info.Size()}, true
	})

	sort.SliceStable(snapshots, func(i, j int) bool {
		if snapshots[i].TakenAt.Equal(snapshots[j].TakenAt) {
			return snapshots[i].Path > snapshots[j].Path
		}
		return snapshots[i].TakenAt.After(snapshots[j].TakenAt)
	})
	return snapshots, nil
}

func (m *Manager) prune() error {
	snapshots, err := m.List()
	if err != nil {
		return err
	}
	if len(snapshots) <= Keep {
		return nil
	}
	for _, s := range snapshots[Keep:] {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Resolve finds a snapshot by path, or by file name inside the backup directory.
func (m *Manager) Resolve(ref string) (string, error) {
	if _, err := os.Stat(ref); err == nil {
		return filepath.Abs(ref)
	}
	if !filepath.IsAbs(ref) {
		path := filepath.Join(m.dir, ref)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("backup %q not found in current directory or %s", ref, m.dir)
}

// Restore replaces the database with the snapshot at path. The current
// database is snapshotted first and that snapshot is returned. The caller
// must close any open connection to the database beforehand.
func (m *Manager) Restore(path string) (Snapshot, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return Snapshot{}, err
	}
	err = verify(db)
	db.Close()
	if err != nil {
		return Snapshot{}, fmt.Errorf("backup is not a valid database: %w", err)
	}

	var previous Snapshot
	if _, err := os.Stat(m.dbPath); err == nil {
		if previous, err = m.snapshot(); err != nil {
			return Snapshot{}, fmt.Errorf("failed to back up current database: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return previous, fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		os.Remove(tmp)
		return previous, fmt.Errorf("failed to replace database: %w", err)
	}
	logger.Info("restored backup", "from", path, "to", m.dbPath)
	return previous, nil
}

func verify(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Package lockfile records which process has a database open in the TUI so
// that destructive commands can refuse to run underneath it.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
)

var findProcessFunc = ps.FindProcess

// Path is the lockfile for the database at dbPath
func Path(dbPath string) string {
	return dbPath + ".tui.lock"
}

// Acquire writes the current pid to the lockfile. A lockfile owned by a live
// tally process is an error; a stale one is replaced.
func Acquire(dbPath string) (release func(), err error) {
	if pid, ok := Holder(dbPath); ok {
		return nil, fmt.Errorf("database is open in another %s TUI (pid %d)", constants.AppName, pid)
	}

	// Holder has cleared any stale lock; losing the create race means another
	// TUI started in between.
	path := Path(dbPath)
	if err := create(path, os.Getpid()); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("database was just opened by another %s TUI", constants.AppName)
		}
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove lockfile", "path", path, "error", err)
		}
	}, nil
}

// create writes pid to path, failing with os.ErrExist if path already exists
func create(path string, pid int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(pid)); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Holder returns the pid of a live tally process holding the lock for
// dbPath. Stale lockfiles are removed.
func Holder(dbPath string) (int, bool) {
	path := Path(dbPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		logger.Warn("removing malformed lockfile", "path", path)
		os.Remove(path)
		return 0, false
	}
	if pid == os.Getpid() {
		return pid, true
	}

	alive, err := isTally(pid)
	if err != nil {
		logger.Debug("process lookup failed", "pid", pid, "error", err)
		return 0, false
	}
	if !alive {
		logger.Debug("removing stale lockfile", "path", path, "pid", pid)
		os.Remove(path)
		return 0, false
	}
	return pid, true
}

func isTally(pid int) (bool, error) {
	proc, err := findProcessFunc(pid)
	if err != nil {
		return false, err
	}
	if proc == nil {
		return false, nil
	}
	return strings.HasPrefix(proc.Executable(), constants.AppName), nil
}

// ErrHeld is returned by Check when another process holds the lock
var ErrHeld = errors.New("database is in use by the TUI")

// Check fails with ErrHeld when a live tally TUI other than this process
// holds the lock for dbPath.
func Check(dbPath string) error {
	pid, ok := Holder(dbPath)
	if ok && pid != os.Getpid() {
		return fmt.Errorf("%w (pid %d); quit it first", ErrHeld, pid)
	}
	return nil
}

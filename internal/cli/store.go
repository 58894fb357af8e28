package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

// OpenStore picks the backend for config. When config is left at its
// default, a connection string from TALLY_DB_CONNECTION or the OS keyring
// takes precedence over the default SQLite file.
func OpenStore(config string) (storage.Provider, error) {
	if config == "" || config == constants.DefaultConfigPath {
		if connStr, src := keyring.ResolveConnectionString(); connStr != "" {
			logger.Debug("using stored connection string", "source", src)
			return postgres.New(connStr), nil
		}
	}

	if postgres.IsConnString(config) {
		if postgres.HasEmbeddedCredentials(config) {
			return nil, apperrors.WithHint(
				errors.New("PostgreSQL connection strings with embedded credentials are not allowed"),
				fmt.Sprintf("store it with '%s keyring set', export %s, or use a .pgpass file",
					constants.AppName, constants.EnvConnectionString),
			)
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading "~" to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		path = constants.DefaultConfigPath
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/cinelist-cli/cinelist/constant"
	"github.com/cinelist-cli/cinelist/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "CINELIST_CONFIG_PATH"

// EnvDataPath overrides the directory holding the snapshot and the staged import file.
const EnvDataPath = "CINELIST_DATA_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// The path can be explicitly specified via the CINELIST_CONFIG_PATH environment variable.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Cinelist))
}

// Data resolves the directory holding persisted synchronization state.
func Data() string {
	if custom, ok := os.LookupEnv(EnvDataPath); ok {
		return ensureDir(custom)
	}

	return ensureDir(filepath.Join(Config(), "data"))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Cinelist))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Snapshot resolves the path of the last successfully imported catalog snapshot.
func Snapshot() string {
	return filepath.Join(Data(), "all_films.csv")
}

// Payload resolves the path of the file staged for the Letterboxd importer.
func Payload() string {
	return filepath.Join(Data(), "temp_films_import.csv")
}

// History resolves the path of the run journal.
func History() string {
	return filepath.Join(Data(), "history.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Cinelist))
}

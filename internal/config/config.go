// Package config loads the optional settings file of the hashlang command.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// FileName is the settings file looked up in the user's home directory.
const FileName = ".hashlang.toml"

// Config holds the front end settings.
type Config struct {
	// Prompt is shown before each REPL line.
	Prompt string `toml:"prompt"`

	// HistoryFile is where interactive history is kept. Relative paths are
	// resolved against the home directory.
	HistoryFile string `toml:"history_file"`

	// History enables loading and saving of interactive history.
	History bool `toml:"history"`

	// Debug turns on debug logging.
	Debug bool `toml:"debug"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Prompt:      "hash/> ",
		HistoryFile: ".hashlang_history",
		History:     true,
	}
}

// DefaultPath returns $HOME/.hashlang.toml, or "" when there is no home
// directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads the file at path over the defaults. A missing file is not an
// error unless the path was given explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

// HistoryPath resolves HistoryFile, returning "" when history is disabled.
func (c Config) HistoryPath() string {
	if !c.History || c.HistoryFile == "" {
		return ""
	}
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, c.HistoryFile)
}

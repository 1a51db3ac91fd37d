package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/codenote/internal/core/config"
	"github.com/colonyops/codenote/internal/notes"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Backend is the opened note store, released in the After hook
	Backend *notes.Backend

	// Notes is the note service over Backend
	Notes *notes.Service
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "codenote", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "codenote")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/codenote/codenote.log
// On Linux: $XDG_STATE_HOME/codenote/codenote.log (defaults to ~/.local/state/codenote/codenote.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "codenote", "codenote.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "codenote", "codenote.log")
	}

	return filepath.Join(home, ".local", "state", "codenote", "codenote.log")
}

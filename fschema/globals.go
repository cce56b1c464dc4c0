package internal

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	DefaultAppName = "fschema"
	// DefaultConfigPath is the default directory searched for model configs
	DefaultConfigPath = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	// DefaultConfigName is the model config file name (without extension)
	DefaultConfigName = "model"
)

// Reserved vocabulary symbols shared by every text-like feature type.
// The padding symbol always maps to id 0 and the unknown symbol to id 1.
const (
	PaddingSymbol = "<PAD>"
	UnknownSymbol = "<UNK>"
)

// getHomeDir falls back to the temp dir for users without a home, e.g. in
// minimal containers.
func getHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return os.TempDir()
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

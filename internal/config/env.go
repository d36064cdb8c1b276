package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every present .env file. Variables already set in the
// process environment are never overwritten.
func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Could not load environment file", logfields.File(f), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment variables", logfields.File(f))
	}
}

func applyEnvOverrides(cfg *Config) {
	if DevMode() {
		cfg.Annotations.Enabled = true
	}
}

// DevMode reports whether DevEnvVar is set to a true value.
func DevMode() bool {
	v, ok := os.LookupEnv(DevEnvVar)
	if !ok {
		return false
	}
	dev, err := strconv.ParseBool(v)
	return err == nil && dev
}

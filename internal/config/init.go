package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

const initHeader = `# sitegraph configuration
# Values may reference environment variables as ${VAR}; .env and .env.local are loaded first.
# Set SITEGRAPH_DEV=1 to enable annotations regardless of annotations.enabled.
`

// Init creates a new configuration file holding the defaults.
func Init(configPath string, force bool) error {
	_, err := os.Stat(configPath)
	switch {
	case err == nil && !force:
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).Build()
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return ferrors.FileSystemError(err, configPath).Build()
	}

	var example Config
	applyDefaults(&example)
	manifest, metrics := true, true
	example.Output.Manifest = &manifest
	example.Preview.Metrics = &metrics

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o600); err != nil {
		return ferrors.FileSystemError(err, configPath).Build()
	}
	return nil
}

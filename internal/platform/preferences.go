package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebook/pkg/core"
)

// PreferencesFile is the default name of the client preferences file.
const PreferencesFile = "notebook.client.yaml"

// LoadPreferences reads the auto-save policy from path. A missing file is
// created with the defaults. Any other failure returns the defaults together
// with an error wrapping core.ErrConfiguration.
func LoadPreferences(path string, logger *slog.Logger) (core.Policy, error) {
	if logger != nil {
		logger.Debug("loading preferences", "path", path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if logger != nil {
			logger.Info("no preferences file found, creating default", "path", path)
		}
		policy := core.DefaultPolicy()
		if err := SavePreferences(path, policy); err != nil {
			return policy, fmt.Errorf("%w: store default preferences: %w", core.ErrConfiguration, err)
		}
		return policy, nil
	}
	if err != nil {
		return core.DefaultPolicy(), fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}

	// Keys left out of the file keep their default.
	policy := core.DefaultPolicy()
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return core.DefaultPolicy(), fmt.Errorf("%w: parse %s: %w", core.ErrConfiguration, path, err)
	}
	return policy, nil
}

// SavePreferences writes policy to path.
func SavePreferences(path string, policy core.Policy) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(policy)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

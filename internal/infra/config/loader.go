// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/squad/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files. Values merge in
// precedence order: built-in defaults, then the global file, then the
// workspace-local file.
type Loader struct {
	globalDir     string // Global config directory (e.g. ~/.config/squad)
	workspacePath string // Workspace root holding .squad/config.toml ("" = skip)
}

// NewLoader creates a Loader reading the default global config
// directory. workspacePath may be empty when the server runs outside a
// workspace.
func NewLoader(workspacePath string) *Loader {
	return &Loader{
		globalDir:     domain.ConfigDir(),
		workspacePath: workspacePath,
	}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(globalDir, workspacePath string) *Loader {
	return &Loader{
		globalDir:     globalDir,
		workspacePath: workspacePath,
	}
}

// Load returns the merged and validated configuration.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalDir != "" {
		if err := applyFile(cfg, filepath.Join(l.globalDir, domain.ConfigFileName)); err != nil {
			return nil, err
		}
	}
	if l.workspacePath != "" {
		path := filepath.Join(domain.WorkspaceConfigDir(l.workspacePath), domain.ConfigFileName)
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile decodes path over cfg. Keys present in the file overwrite
// the current values and everything else is left alone, so decoding
// the layers in order yields the precedence merge. A missing file is
// not an error.
func applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

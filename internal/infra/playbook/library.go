// Package playbook loads canned procedures from YAML files in the
// playbook directory.
package playbook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/squad/internal/domain"
)

// Ensure Library implements domain.PlaybookLibrary.
var _ domain.PlaybookLibrary = (*Library)(nil)

// Library serves playbooks from a directory of .yaml/.yml files.
type Library struct {
	dir string
}

// NewLibrary creates a Library over dir. The directory does not need
// to exist; a missing directory is an empty library.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// List returns all playbooks sorted by name.
func (l *Library) List() ([]domain.Playbook, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read playbook directory: %w", err)
	}

	var playbooks []domain.Playbook
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		pb, err := l.loadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		playbooks = append(playbooks, *pb)
	}

	slices.SortFunc(playbooks, func(a, b domain.Playbook) int {
		return strings.Compare(a.Name, b.Name)
	})
	return playbooks, nil
}

// Get returns a playbook by name.
func (l *Library) Get(name string) (*domain.Playbook, error) {
	playbooks, err := l.List()
	if err != nil {
		return nil, err
	}
	for i := range playbooks {
		if playbooks[i].Name == name {
			return &playbooks[i], nil
		}
	}
	return nil, fmt.Errorf("playbook %q: %w", name, domain.ErrNotFound)
}

// loadFile parses one playbook file. A playbook without an explicit
// name takes the file name minus extension.
func (l *Library) loadFile(path string) (*domain.Playbook, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the configured playbook dir
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	var pb domain.Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("parse playbook %s: %w", filepath.Base(path), err)
	}
	if pb.Name == "" {
		base := filepath.Base(path)
		pb.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &pb, nil
}

func isYAML(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

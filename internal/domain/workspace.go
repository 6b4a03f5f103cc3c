package domain

import "time"

// Workspace is a registered git repository that tasks may target.
// Fields are ordered to minimize memory padding.
type Workspace struct {
	Created       time.Time `json:"created"`
	Name          string    `json:"-"` // Stored as map key
	Path          string    `json:"path"`
	DefaultBranch string    `json:"defaultBranch,omitempty"`
}

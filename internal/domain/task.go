// Package domain contains core business entities and interfaces.
package domain

import (
	"regexp"
	"strings"
	"time"
)

// Tag limits enforced on task creation and update.
const (
	MaxTags      = 20
	MaxTagLength = 100
)

// Complexity hints attached to a task for backend routing.
const (
	ComplexityJunior = "junior"
	ComplexityMid    = "mid"
	ComplexitySenior = "senior"
)

// Task represents a durable unit of work identified by a unique slug.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created       time.Time  `json:"created"`                 // Creation time
	Updated       time.Time  `json:"updated"`                 // Last modification time
	Slug          string     `json:"-"`                       // Unique slug (stored as map key, not in value)
	Title         string     `json:"title"`                   // Title (required)
	Status        TaskStatus `json:"status"`                  // Current status
	WorkspacePath string     `json:"workspacePath,omitempty"` // Git repository the task targets
	Complexity    string     `json:"complexity,omitempty"`    // Routing hint: junior, mid, senior (empty = unset)
	Tags          []string   `json:"tags,omitempty"`          // Free-form tags, also used as routing hints
	DependsOn     []string   `json:"dependsOn,omitempty"`     // Slugs of tasks this one depends on
}

// IsActive returns true if the task is available for work.
func (t *Task) IsActive() bool {
	return t.Status == TaskActive
}

// DependsOnSlug returns true if the task lists slug as a direct dependency.
func (t *Task) DependsOnSlug(slug string) bool {
	for _, dep := range t.DependsOn {
		if dep == slug {
			return true
		}
	}
	return false
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugSep      = regexp.MustCompile(`[\s_]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// Slugify derives a task slug from a title: lowercase, punctuation stripped,
// whitespace and underscores become hyphens, runs of hyphens collapse.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSep.ReplaceAllString(s, "-")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidateTags checks tag count and length limits.
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return ErrInvalidArgument
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > MaxTagLength {
			return ErrInvalidArgument
		}
	}
	return nil
}

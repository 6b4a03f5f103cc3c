package domain

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Fix login bug", "fix-login-bug"},
		{"already slug", "fix-login-bug", "fix-login-bug"},
		{"punctuation stripped", "Fix: login bug!", "fix-login-bug"},
		{"underscores", "fix_login_bug", "fix-login-bug"},
		{"mixed separators", "Fix _ login -- bug", "fix-login-bug"},
		{"surrounding space", "  Fix login bug  ", "fix-login-bug"},
		{"uppercase", "FIX LOGIN BUG", "fix-login-bug"},
		{"numbers kept", "Upgrade to v2", "upgrade-to-v2"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	long := strings.Repeat("x", MaxTagLength+1)
	fill := func(n int) []string {
		tags := make([]string, n)
		for i := range tags {
			tags[i] = "tag"
		}
		return tags
	}

	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{"nil", nil, false},
		{"few tags", []string{"bug", "urgent"}, false},
		{"at limit", fill(MaxTags), false},
		{"too many", fill(MaxTags + 1), true},
		{"empty tag", []string{"ok", ""}, true},
		{"too long", []string{long}, true},
		{"max length ok", []string{strings.Repeat("x", MaxTagLength)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTags(%v) error = %v, wantErr %v", tt.tags, err, tt.wantErr)
			}
		})
	}
}

func TestTask_DependsOnSlug(t *testing.T) {
	task := &Task{Slug: "deploy", DependsOn: []string{"build", "test"}}

	if !task.DependsOnSlug("build") {
		t.Error("expected deploy to depend on build")
	}
	if task.DependsOnSlug("deploy") {
		t.Error("task should not depend on itself")
	}
	if task.DependsOnSlug("missing") {
		t.Error("unexpected dependency on missing")
	}
}

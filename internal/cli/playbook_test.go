package cli

import (
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaybookListCommand_PrintsTable(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["playbook.list"] = []*domain.Playbook{
		{Name: "bugfix", Description: "Reproduce, fix, and verify a bug"},
		{Name: "refactor", Description: "Behavior-preserving cleanup"},
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newPlaybookCommand(), "list")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "bugfix")
	assert.Contains(t, out, "refactor")
}

func TestPlaybookShowCommand_PrintsSteps(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["playbook.get"] = &domain.Playbook{
		Name:        "bugfix",
		Description: "Reproduce, fix, and verify a bug",
		Tags:        []string{"debugging"},
		Steps:       []string{"Reproduce the failure", "Write a regression test", "Fix and rerun"},
		Prompt:      "Work through the steps in order.",
	}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newPlaybookCommand(), "show", "bugfix")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Playbook: bugfix")
	assert.Contains(t, out, "Tags: debugging")
	assert.Contains(t, out, "1. Reproduce the failure")
	assert.Contains(t, out, "Work through the steps in order.")
	p := fake.params(t, 0)
	assert.Equal(t, "bugfix", p["name"])
}

func TestPlaybookShowCommand_NotFound(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["playbook.get"] = nil
	withFakeServer(t, fake)

	// Execute
	_, err := runCommand(newPlaybookCommand(), "show", "missing")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playbook not found: missing")
}

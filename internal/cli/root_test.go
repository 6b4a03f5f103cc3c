package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_RegistersCommands(t *testing.T) {
	// Setup
	root := NewRootCommand("1.2.3")

	// Assert
	assert.Equal(t, "squad", root.Use)
	assert.Equal(t, "1.2.3", root.Version)

	want := []string{
		"serve", "ping", "status", "tui",
		"task", "memory", "workspace",
		"session", "events", "usage",
		"ask", "chat", "playbook",
	}
	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "command %q should be registered", name)
	}
}

func TestNewRootCommand_Help(t *testing.T) {
	// Setup
	root := NewRootCommand("test")

	// Execute
	out, err := runCommand(root, "--help")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "squad serve")
	assert.Contains(t, out, "Task Management:")
	assert.Contains(t, out, "Coordinator:")
}

func TestNewRootCommand_UnknownCommand(t *testing.T) {
	// Setup
	root := NewRootCommand("test")

	// Execute
	_, err := runCommand(root, "bogus")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCommand_PrintsResponse(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["coordinator.ask"] = map[string]string{"response": "Two sessions are running."}
	withFakeServer(t, fake)

	// Execute
	out, err := runCommand(newAskCommand(), "what is everyone working on?")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Two sessions are running.")
	assert.Equal(t, "what is everyone working on?", fake.params(t, 0)["question"])
}

func TestChatCommand_RoundTripsUntilQuit(t *testing.T) {
	// Setup
	fake := newFakeCaller()
	fake.results["coordinator.message"] = map[string]string{"response": "On it."}
	withFakeServer(t, fake)

	cmd := newChatCommand()
	cmd.SetIn(strings.NewReader("start the login fix\nquit\n"))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Coordinator: On it.")

	params := fake.params(t, 0)
	assert.Equal(t, "start the login fix", params["message"])
	assert.Equal(t, "cli", params["channel"])
	// quit never reaches the server
	assert.Len(t, fake.calls, 1)
}

func TestChatCommand_SkipsBlankLines(t *testing.T) {
	fake := newFakeCaller()
	fake.results["coordinator.message"] = map[string]string{"response": "ok"}
	withFakeServer(t, fake)

	cmd := newChatCommand()
	cmd.SetIn(strings.NewReader("\n\nhello\nexit\n"))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Len(t, fake.calls, 1)
	assert.Equal(t, "hello", fake.params(t, 0)["message"])
}

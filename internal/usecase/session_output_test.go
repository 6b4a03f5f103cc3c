package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessionOutput_Execute(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	sessions.Sessions["s1"] = runningSession("s1", "api", "")
	subproc := testutil.NewMockSubprocessManager()
	subproc.CaptureVal = "$ go test ./...\nok"
	uc := NewGetSessionOutput(sessions, subproc)

	out, err := uc.Execute(context.Background(), GetSessionOutputInput{ID: "s1", Lines: 80})

	require.NoError(t, err)
	assert.Equal(t, "$ go test ./...\nok", out.Output)
	assert.Equal(t, 80, subproc.CaptureLines)
}

func TestGetSessionOutput_Execute_NoPane(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	s := runningSession("s1", "api", "")
	s.Attachment = domain.Attachment{PID: 4242}
	sessions.Sessions["s1"] = s
	uc := NewGetSessionOutput(sessions, testutil.NewMockSubprocessManager())

	out, err := uc.Execute(context.Background(), GetSessionOutputInput{ID: "s1"})

	require.NoError(t, err)
	assert.Empty(t, out.Output)
}

func TestGetSessionOutput_Execute_NotFound(t *testing.T) {
	uc := NewGetSessionOutput(testutil.NewMockSessionRepository(), testutil.NewMockSubprocessManager())

	_, err := uc.Execute(context.Background(), GetSessionOutputInput{ID: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

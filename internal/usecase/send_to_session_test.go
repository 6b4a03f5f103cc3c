package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToSession_Execute(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	sessions.Sessions["s1"] = runningSession("s1", "api", "")
	subproc := testutil.NewMockSubprocessManager()
	uc := NewSendToSession(sessions, subproc)

	out, err := uc.Execute(context.Background(), SendToSessionInput{ID: "s1", Text: "continue"})

	require.NoError(t, err)
	assert.True(t, out.Sent)
	assert.Equal(t, "continue", subproc.SentText)
}

func TestSendToSession_Execute_NoPaneReportsFalse(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	s := runningSession("s1", "api", "")
	s.Attachment = domain.Attachment{PID: 4242}
	sessions.Sessions["s1"] = s
	uc := NewSendToSession(sessions, testutil.NewMockSubprocessManager())

	out, err := uc.Execute(context.Background(), SendToSessionInput{ID: "s1", Text: "hello"})

	require.NoError(t, err)
	assert.False(t, out.Sent)
}

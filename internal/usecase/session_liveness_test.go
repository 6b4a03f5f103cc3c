package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLiveness_Execute(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	sessions.Sessions["s1"] = runningSession("s1", "api", "")
	subproc := testutil.NewMockSubprocessManager()
	uc := NewCheckLiveness(sessions, subproc)

	out, err := uc.Execute(context.Background(), CheckLivenessInput{ID: "s1"})
	require.NoError(t, err)
	assert.True(t, out.Alive)

	subproc.AliveVal = false
	out, err = uc.Execute(context.Background(), CheckLivenessInput{ID: "s1"})
	require.NoError(t, err)
	assert.False(t, out.Alive)
}

func TestCheckLiveness_Execute_NeverAttached(t *testing.T) {
	sessions := testutil.NewMockSessionRepository()
	s := runningSession("s1", "api", "")
	s.Attachment = domain.Attachment{}
	sessions.Sessions["s1"] = s
	uc := NewCheckLiveness(sessions, testutil.NewMockSubprocessManager())

	out, err := uc.Execute(context.Background(), CheckLivenessInput{ID: "s1"})

	require.NoError(t, err)
	assert.False(t, out.Alive)
}

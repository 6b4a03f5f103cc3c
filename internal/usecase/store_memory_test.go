package usecase

import (
	"context"
	"testing"

	"github.com/runoshun/squad/internal/domain"
	"github.com/runoshun/squad/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreMemory() (*StoreMemory, *testutil.MockMemoryRepository) {
	memory := &testutil.MockMemoryRepository{}
	uc := NewStoreMemory(memory, testClock(), discardLogger())
	return uc, memory
}

func TestStoreMemory_Execute(t *testing.T) {
	// Setup
	uc, memory := newStoreMemory()

	// Execute
	out, err := uc.Execute(context.Background(), StoreMemoryInput{
		Key:      "auth-approach",
		Content:  "JWT with refresh rotation, see internal/auth",
		Scope:    "task",
		TaskSlug: "api",
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, memory.Entries, 1)
	entry := out.Entry
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, domain.ScopeTask, entry.Scope)
	assert.Equal(t, "api", entry.TaskSlug)
	assert.Equal(t, testClock().NowTime, entry.Created)
}

func TestStoreMemory_Execute_ScopeInference(t *testing.T) {
	tests := []struct {
		name string
		in   StoreMemoryInput
		want domain.MemoryScope
	}{
		{
			name: "task owner implies task scope",
			in:   StoreMemoryInput{Key: "k", Content: "c", TaskSlug: "api"},
			want: domain.ScopeTask,
		},
		{
			name: "session owner implies session scope",
			in:   StoreMemoryInput{Key: "k", Content: "c", SessionID: "s1"},
			want: domain.ScopeSession,
		},
		{
			name: "no owner implies global",
			in:   StoreMemoryInput{Key: "k", Content: "c"},
			want: domain.ScopeGlobal,
		},
		{
			name: "explicit scope wins over owners",
			in:   StoreMemoryInput{Key: "k", Content: "c", Scope: "global", TaskSlug: "api"},
			want: domain.ScopeGlobal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newStoreMemory()

			out, err := uc.Execute(context.Background(), tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Entry.Scope)
		})
	}
}

func TestStoreMemory_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   StoreMemoryInput
	}{
		{name: "empty key", in: StoreMemoryInput{Content: "c"}},
		{name: "empty content", in: StoreMemoryInput{Key: "k"}},
		{name: "task scope without slug", in: StoreMemoryInput{Key: "k", Content: "c", Scope: "task"}},
		{name: "session scope without id", in: StoreMemoryInput{Key: "k", Content: "c", Scope: "session"}},
		{name: "unknown scope", in: StoreMemoryInput{Key: "k", Content: "c", Scope: "universe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, memory := newStoreMemory()

			_, err := uc.Execute(context.Background(), tt.in)

			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Empty(t, memory.Entries)
		})
	}
}

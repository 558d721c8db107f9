package gc

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecutor_PartialFailureIsolation(t *testing.T) {
	candidates := []string{"k0", "k1", "k2", "k3", "k4", "k5"}
	failing := map[string]error{
		"k0": errors.New("permission denied"),
		"k3": errors.New("not found"),
		"k5": errors.New("timeout"),
	}
	store := &pagedStore{failing: failing}

	var seen []string
	e := &Executor{Store: store, Logger: zerolog.Nop(), OnResult: func(r ItemResult) { seen = append(seen, r.Key) }}
	out, err := e.Run(context.Background(), candidates)
	require.NoError(t, err)

	assert.Equal(t, 6, out.Attempted)
	assert.Equal(t, 3, out.Succeeded)
	assert.Equal(t, 3, out.Failed)
	assert.Equal(t, []string{"k0", "k3", "k5"}, out.FailedKeys)
	assert.Equal(t, []string{"k1", "k2", "k4"}, store.deleted)
	assert.Equal(t, candidates, seen, "every candidate attempted in order")
	require.Len(t, out.Results, 6)
	assert.EqualError(t, out.Results[3].Err, "not found")
	assert.True(t, out.Results[4].OK())
}

func TestExecutor_AllFail(t *testing.T) {
	m := &MockStore{}
	m.On("DeleteObject", mock.Anything, mock.Anything).Return(errors.New("denied"))
	e := &Executor{Store: m, Logger: zerolog.Nop()}

	out, err := e.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 0, out.Succeeded)
	assert.Equal(t, 3, out.Failed)
	m.AssertNumberOfCalls(t, "DeleteObject", 3)
}

func TestExecutor_SingleAttemptPerKey(t *testing.T) {
	m := &MockStore{}
	m.On("DeleteObject", mock.Anything, "a").Return(errors.New("flaky")).Once()
	m.On("DeleteObject", mock.Anything, "b").Return(nil).Once()
	e := &Executor{Store: m, Logger: zerolog.Nop()}

	out, err := e.Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 1, out.Succeeded)
	m.AssertExpectations(t)
}

func TestExecutor_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &MockStore{}
	m.On("DeleteObject", mock.Anything, "a").Return(nil).Run(func(mock.Arguments) { cancel() }).Once()
	e := &Executor{Store: m, Logger: zerolog.Nop()}

	out, err := e.Run(ctx, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, out.Attempted)
	m.AssertNotCalled(t, "DeleteObject", mock.Anything, "b")
}

func TestExecutor_Empty(t *testing.T) {
	e := &Executor{Store: &MockStore{}, Logger: zerolog.Nop()}
	out, err := e.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Attempted)
}

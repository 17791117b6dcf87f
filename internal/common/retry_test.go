package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	err := WithRetry(context.Background(), func() error {
		calls++
		return permanent
	}, 3, time.Millisecond)

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRetriesTemporaryErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return Temporary(errors.New("conflict"))
		}
		return nil
	}, 3, time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return Temporary(errors.New("conflict"))
	}, 2, time.Millisecond)

	assert.Error(t, err)
	assert.True(t, IsTemporary(err))
	assert.Equal(t, 2, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, func() error {
		return Temporary(errors.New("conflict"))
	}, 5, time.Second)

	assert.ErrorIs(t, err, context.Canceled)
}

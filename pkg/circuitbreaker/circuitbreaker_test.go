package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := New(3, time.Minute)
	for i := 0; i < 10; i++ {
		require.NoError(t, b.Do(func() error { return nil }))
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	}
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New(3, time.Minute)
	require.Error(t, b.Do(func() error { return errBoom }))
	require.Error(t, b.Do(func() error { return errBoom }))
	require.NoError(t, b.Do(func() error { return nil }))
	require.Error(t, b.Do(func() error { return errBoom }))
	require.Error(t, b.Do(func() error { return errBoom }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	b := New(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.Error(t, b.Do(func() error { return errBoom }))
	require.Equal(t, StateOpen, b.State())

	// Before cooldown: rejected outright.
	assert.ErrorIs(t, b.Do(func() error { return nil }), ErrOpen)

	// After cooldown a probe runs; success closes the breaker.
	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := New(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	require.Error(t, b.Do(func() error { return errBoom }))
	now = now.Add(2 * time.Minute)
	require.Error(t, b.Do(func() error { return errBoom }))
	assert.Equal(t, StateOpen, b.State())
}

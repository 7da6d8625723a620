package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/service"
)

func TestWithRetry(t *testing.T) {
	errBusy := errors.New("busy")

	tests := []struct {
		name      string
		failures  int
		permanent bool
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first try", failures: 0, attempts: 3, wantCalls: 1},
		{name: "recovers", failures: 2, attempts: 3, wantCalls: 3},
		{name: "exhausted", failures: 5, attempts: 3, wantCalls: 3, wantErr: ErrMaxRetries},
		{name: "permanent stops at once", failures: 5, permanent: true, attempts: 3, wantCalls: 1, wantErr: errBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					if tt.permanent {
						return Permanent(errBusy)
					}
					return errBusy
				}
				return nil
			}, service.RetryOptions{MaxAttempts: tt.attempts, Multiplier: 1})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errBusy)
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("share offline")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ndisactivitystatement", Squash("NDIS Activity \t Statement\n"))
	assert.Equal(t, "strasse", Squash("STRASSE"))
	assert.Equal(t, "service: sta inc. respite", CollapseSpace("Service:\n  STA   inc.\trespite "))
	assert.Equal(t, "ab12", Alnum("AB-12 é"))
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

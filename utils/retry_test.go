package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyStopsOnSuccess(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

	var attempts int
	err := policy.Do(func() error {
		attempts++
		if attempts < 2 {
			return errors.New("not yet")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetryPolicyExhaustsBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

	var attempts int
	wantErr := errors.New("gone")
	err := policy.Do(func() error {
		attempts++
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, attempts)
}

package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "invalid email or password", ErrInvalidCredentials.Error())
	assert.False(t, errors.Is(ErrInvalidCredentials, ErrDrift))
}

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		msg      string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			op:       "create_deck",
			msg:      "failed to create deck",
			err:      errors.New("database connection failed"),
			expected: "create_deck failed: failed to create deck: database connection failed",
		},
		{
			name:     "without underlying error",
			op:       "export",
			msg:      "nothing to export",
			expected: "export failed: nothing to export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewServiceError(tt.op, tt.msg, tt.err).Error())
		})
	}
}

func TestServiceError_Unwrap(t *testing.T) {
	err := NewServiceError("get_card", "failed to get card", store.ErrCardNotFound)

	assert.True(t, errors.Is(err, store.ErrCardNotFound))
	assert.True(t, errors.Is(err, store.ErrNotFound))

	var serviceErr *ServiceError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &serviceErr))
	assert.Equal(t, "get_card", serviceErr.Operation)
}

func TestFailWith_LogLevels(t *testing.T) {
	log, buf := logger.NewTestLogger()

	_ = failWith(log, "get_deck", "failed to get deck", store.ErrDeckNotFound)
	_ = failWith(log, "get_deck", "failed to get deck", domain.NewValidationError("name", "empty"))
	assert.NotContains(t, buf.String(), `"level":"ERROR"`)

	_ = failWith(log, "get_deck", "failed to get deck", errors.New("disk on fire"))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "disk on fire")
}

func TestDriftReport_Err(t *testing.T) {
	report := DriftReport{OwnerID: uuid.New()}
	assert.NoError(t, report.Err())

	report.Drifted = true
	report.Recorded = domain.UserStats{TotalCards: 3}
	report.Derived = domain.UserStats{TotalCards: 2, Learning: 2}
	err := report.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDrift))
	assert.Contains(t, err.Error(), "recorded total=3")
}

func TestOwnerLocks(t *testing.T) {
	locks := newOwnerLocks()
	id := uuid.New()

	t.Run("serializes holders of the same owner", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			active  int
			overlap bool
		)

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := locks.lock(id)
				defer unlock()

				mu.Lock()
				active++
				if active > 1 {
					overlap = true
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.False(t, overlap, "two goroutines held the same owner lock")
	})

	t.Run("different owners do not block each other", func(t *testing.T) {
		unlockA := locks.lock(uuid.New())
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlock := locks.lock(uuid.New())
			unlock()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("lock for a different owner blocked")
		}
	})

	t.Run("entries are released", func(t *testing.T) {
		unlock := locks.lock(id)
		assert.Equal(t, 1, locks.size())
		unlock()
		assert.Equal(t, 0, locks.size())
	})
}

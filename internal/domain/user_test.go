package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()
	now := time.Now()

	user, err := NewUser("Ada", " Ada@Example.com ", "hash", now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, UserStats{}, user.Stats)
	assert.Equal(t, now.UTC(), user.CreatedAt)
}

func TestNewUserNameFallsBackToEmail(t *testing.T) {
	t.Parallel()
	user, err := NewUser("", "grace.hopper@example.com", "hash", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "grace.hopper", user.Name)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		email string
		hash  string
		want  error
	}{
		{"empty email", "", "hash", ErrEmptyEmail},
		{"malformed email", "not-an-email", "hash", ErrInvalidEmail},
		{"missing hash", "a@example.com", "", ErrEmptyHashedPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser("name", tc.email, tc.hash, time.Now())
			assert.ErrorIs(t, err, tc.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.ErrorIs(t, ValidatePassword("short"), ErrInvalidPassword)
	assert.NoError(t, ValidatePassword("correct horse battery"))
}

func TestUserApplyPreservesIdentity(t *testing.T) {
	t.Parallel()
	user, err := NewUser("Ada", "ada@example.com", "secret-hash", time.Now())
	require.NoError(t, err)
	id := user.ID

	name := "Countess"
	stats := UserStats{TotalCards: 4, Learning: 3, Mastered: 1, Streak: 2}
	require.NoError(t, user.Apply(UserPatch{Name: &name, Stats: &stats}, time.Now()))

	assert.Equal(t, id, user.ID)
	assert.Equal(t, "secret-hash", user.HashedPassword)
	assert.Equal(t, "Countess", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, stats, user.Stats)

	bad := UserStats{TotalCards: -1}
	assert.ErrorIs(t, user.Apply(UserPatch{Stats: &bad}, time.Now()), ErrNegativeCounter)
	assert.Equal(t, stats, user.Stats)
}

package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/mocks"
	"github.com/phrazzld/recode/internal/service"
	"github.com/phrazzld/recode/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)

	user, err := f.users.Register(f.ctx, "", "  Ada@Example.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "ada", user.Name)
	assert.NotEqual(t, testPassword, user.HashedPassword)
	assert.Equal(t, domain.UserStats{}, user.Stats)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "duplicate email", email: "ADA@example.com", password: testPassword, want: store.ErrEmailExists},
		{name: "malformed email", email: "not-an-email", password: testPassword, want: domain.ErrInvalidEmail},
		{name: "short password", email: "bob@example.com", password: "short", want: domain.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(f.ctx, "", tt.email, tt.password)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	registered, err := f.users.Register(f.ctx, "Ada", "ada@example.com", testPassword)
	require.NoError(t, err)

	user, err := f.users.Authenticate(f.ctx, "ADA@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = f.users.Authenticate(f.ctx, "ada@example.com", "wrong-password-123")
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))

	_, err = f.users.Authenticate(f.ctx, "nobody@example.com", testPassword)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestUserService_UpdateUserStats(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	f.card(t, owner, f.deck(t, owner, "Go"), "q")

	streak := 7
	user, err := f.users.UpdateUserStats(f.ctx, owner.ID, domain.StatsPatch{Streak: &streak})
	require.NoError(t, err)
	assert.Equal(t, 7, user.Stats.Streak)
	assert.Equal(t, 1, user.Stats.TotalCards, "unnamed counters are kept")

	negative := -1
	_, err = f.users.UpdateUserStats(f.ctx, owner.ID, domain.StatsPatch{Mastered: &negative})
	assert.True(t, errors.Is(err, domain.ErrNegativeCounter))
	assert.Equal(t, 0, f.userStats(t, owner).Mastered)

	_, err = f.users.UpdateUserStats(f.ctx, uuid.New(), domain.StatsPatch{Streak: &streak})
	assert.True(t, errors.Is(err, store.ErrUserNotFound))
}

func TestUserService_UpdateUserConfig(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)

	name := "Grace"
	email := "Grace@Example.com"
	stats := domain.UserStats{TotalCards: 3, Learning: 3}
	user, err := f.users.UpdateUserConfig(f.ctx, owner.ID, domain.UserPatch{
		Name:  &name,
		Email: &email,
		Stats: &stats,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, user.ID)
	assert.Equal(t, "Grace", user.Name)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, 3, user.Stats.TotalCards)
	assert.Equal(t, owner.HashedPassword, user.HashedPassword)

	// the password still works after the update
	_, err = f.users.Authenticate(f.ctx, "grace@example.com", testPassword)
	require.NoError(t, err)

	t.Run("email taken by another user", func(t *testing.T) {
		other := f.register(t)
		_, err := f.users.UpdateUserConfig(f.ctx, other.ID, domain.UserPatch{Email: &email})
		assert.True(t, errors.Is(err, store.ErrEmailExists))
	})

	t.Run("invalid email leaves the user unchanged", func(t *testing.T) {
		bad := "nope"
		_, err := f.users.UpdateUserConfig(f.ctx, owner.ID, domain.UserPatch{Email: &bad})
		assert.True(t, errors.Is(err, domain.ErrValidation))

		got, err := f.users.GetUser(f.ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "grace@example.com", got.Email)
	})
}

func TestUserService_PasswordHandling(t *testing.T) {
	f := newFixture(t)

	t.Run("hash failure creates no user", func(t *testing.T) {
		hasher := &mocks.MockPasswordVerifier{HashErr: errors.New("entropy exhausted")}
		users, err := service.NewUserService(f.runner, hasher, hasher, nil)
		require.NoError(t, err)

		_, err = users.Register(f.ctx, "", "ada@example.com", testPassword)
		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "register", serviceErr.Operation)

		_, err = f.users.Authenticate(f.ctx, "ada@example.com", testPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("verifier decides authentication", func(t *testing.T) {
		verifier := &mocks.MockPasswordVerifier{Hashed: "stored-hash"}
		users, err := service.NewUserService(f.runner, verifier, verifier, nil)
		require.NoError(t, err)

		user, err := users.Register(f.ctx, "", "grace@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, "stored-hash", user.HashedPassword)

		_, err = users.Authenticate(f.ctx, "grace@example.com", testPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)

		verifier.CompareFn = func(hashed, password string) error {
			assert.Equal(t, "stored-hash", hashed)
			assert.Equal(t, testPassword, password)
			return nil
		}
		got, err := users.Authenticate(f.ctx, "GRACE@example.com", testPassword)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, 2, verifier.CompareCallCount)
	})

	t.Run("constructor validation", func(t *testing.T) {
		verifier := &mocks.MockPasswordVerifier{}
		_, err := service.NewUserService(nil, verifier, verifier, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = service.NewUserService(f.runner, nil, verifier, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = service.NewUserService(f.runner, verifier, nil, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/service/auth"
	"github.com/phrazzld/recode/internal/store"
)

// UserService provides registration, login and the identity boundary used by
// the rest of the application.
type UserService interface {
	// Register creates a user with zeroed statistics.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// Authenticate returns the user matching email and password, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateUserStats overwrites the counters named in patch.
	UpdateUserStats(ctx context.Context, userID uuid.UUID, patch domain.StatsPatch) (*domain.User, error)

	// UpdateUserConfig applies a partial update of name, email and stats.
	// The id and the password hash are never changed.
	UpdateUserConfig(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	runner   *Runner
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	runner *Runner,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil")
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		runner:   runner,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateEmail(domain.NormalizeEmail(email)); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(name, email, hashed, s.runner.Now())
	if err != nil {
		return nil, err
	}

	err = s.runner.InTx(ctx, func(ctx context.Context, tx Stores) error {
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, failWith(log, "register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.runner.Stores().Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, failWith(log, "authenticate", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	user, err := s.runner.Stores().Users.GetByID(ctx, userID)
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "get_user", "failed to retrieve user", err)
	}
	return user, nil
}

// UpdateUserStats implements UserService.UpdateUserStats
func (s *UserServiceImpl) UpdateUserStats(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.StatsPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := s.runner.InOwnerTx(ctx, userID, func(ctx context.Context, tx OwnerTx) error {
		stats := patch.Apply(tx.Owner.Stats)
		if err := stats.Validate(); err != nil {
			return err
		}
		if err := tx.SaveStats(ctx, stats, s.runner.Now()); err != nil {
			return err
		}
		user = tx.Owner
		return nil
	})
	if err != nil {
		return nil, failWith(log, "update_user_stats", "failed to update user stats", err)
	}
	return user, nil
}

// UpdateUserConfig implements UserService.UpdateUserConfig
func (s *UserServiceImpl) UpdateUserConfig(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := s.runner.InOwnerTx(ctx, userID, func(ctx context.Context, tx OwnerTx) error {
		if err := applyUserPatch(ctx, tx, patch, s.runner); err != nil {
			return err
		}
		user = tx.Owner
		return nil
	})
	if err != nil {
		return nil, failWith(log, "update_user_config", "failed to update user", err)
	}

	log.Info("user updated", slog.String("user_id", userID.String()))
	return user, nil
}

// applyUserPatch updates the locked owner row. It is shared with import.
func applyUserPatch(ctx context.Context, tx OwnerTx, patch domain.UserPatch, r *Runner) error {
	if patch.Stats != nil {
		if err := patch.Stats.Validate(); err != nil {
			return err
		}
	}
	next := *tx.Owner
	if err := next.Apply(patch, r.Now()); err != nil {
		return err
	}
	if err := tx.Users.Update(ctx, &next); err != nil {
		return err
	}
	*tx.Owner = next
	return nil
}

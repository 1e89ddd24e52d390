package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyUserName       = fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 12 characters long", ErrInvalidPassword)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrInvalidPassword)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

const (
	minPasswordLength = 12
	// bcrypt ignores input past 72 bytes
	maxPasswordLength = 72
)

var validate = validator.New()

// User is a registered account. It owns decks and cards and carries the
// aggregate study statistics for everything it owns.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	HashedPassword string    `json:"-"` // never serialized
	Stats          UserStats `json:"stats"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a user with zeroed statistics. An empty name falls back to
// the local part of the email address. The caller hashes the password.
func NewUser(name, email, hashedPassword string, now time.Time) (*User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = nameFromEmail(email)
	}

	now = now.UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Name == "" {
		return ErrEmptyUserName
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return u.Stats.Validate()
}

// UserPatch is a partial update of a user's configuration. The id and the
// password hash are never part of it.
type UserPatch struct {
	Name  *string
	Email *string
	Stats *UserStats
}

// Apply merges the patch into the user and re-validates it. The user is left
// unchanged when the result is invalid.
func (u *User) Apply(p UserPatch, now time.Time) error {
	next := *u
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		next.Email = NormalizeEmail(*p.Email)
	}
	if p.Stats != nil {
		next.Stats = *p.Stats
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*u = next
	return nil
}

// ValidateEmail reports whether email is a syntactically valid address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password against the length rules.
func ValidatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// NormalizeEmail trims and lower-cases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

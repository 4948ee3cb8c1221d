package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do. Teachers can create
// invitations and host live sessions; students redeem invitations and join.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// User-specific validation errors
var (
	ErrUserIDEmpty     = errors.New("user ID cannot be empty")
	ErrEmailInvalid    = errors.New("user email is invalid")
	ErrUsernameEmpty   = errors.New("username cannot be empty")
	ErrPasswordEmpty   = errors.New("hashed password cannot be empty")
	ErrRoleInvalid     = errors.New("role must be student or teacher")
)

// User represents an account in the system.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a User with a generated ID. The password must already be
// hashed by the caller.
func NewUser(email, username, hashedPassword string, role Role) (*User, error) {
	u := &User{
		ID:             uuid.New(),
		Email:          email,
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	return u, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrEmailInvalid
	}

	if u.Username == "" {
		return ErrUsernameEmpty
	}

	if u.HashedPassword == "" {
		return ErrPasswordEmpty
	}

	if u.Role != RoleStudent && u.Role != RoleTeacher {
		return ErrRoleInvalid
	}

	return nil
}

// IsTeacher reports whether the user holds the teacher role.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

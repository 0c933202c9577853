package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindUser(ctx context.Context, id string) (*User, error)
	// CreateAccount stores a new local account and assigns its id. It fails with
	// ErrUsernameTaken if the username exists.
	CreateAccount(ctx context.Context, username string, passwordHash []byte, role Role) (*User, error)
	SaveFederated(ctx context.Context, user User) error
	SavePending(ctx context.Context, pending PendingIdentity) error
	// TakePending removes and returns the pending identity.
	TakePending(ctx context.Context, id string) (*PendingIdentity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// HashPassword returns the bcrypt hash stored for local accounts.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Login checks a local username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("finding account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &acc.User, nil
}

// Register creates a local account. Rule violations are reported in the result, not as errors;
// err is only set when the repository fails.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (RegisterResult, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return RegisterResult{Message: ErrUsernameTaken.Error()}, nil
	case !errors.Is(err, ErrUserNotFound):
		return RegisterResult{}, fmt.Errorf("finding account: %w", err)
	}

	if len([]rune(username)) < MinUsernameLength {
		return RegisterResult{Message: fmt.Sprintf("username must be at least %d characters", MinUsernameLength)}, nil
	}

	if len([]rune(password)) < MinPasswordLength {
		return RegisterResult{Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}, nil
	}

	if len(password) > MaxPasswordBytes {
		return RegisterResult{Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes)}, nil
	}

	if !role.Valid() {
		return RegisterResult{Message: ErrInvalidRole.Error()}, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hashing password: %w", err)
	}

	if _, err := s.repo.CreateAccount(ctx, username, hash, role); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return RegisterResult{Message: ErrUsernameTaken.Error()}, nil
		}

		return RegisterResult{}, fmt.Errorf("creating account: %w", err)
	}

	return RegisterResult{Success: true, Message: "account created"}, nil
}

// SignInFederated completes an external sign-in. Identities that already carry a role become users
// right away; the others are parked and the pending entry is returned instead.
func (s *Service) SignInFederated(ctx context.Context, id Identity) (*User, *PendingIdentity, error) {
	if id.Role.Valid() {
		u := id.user(id.Role)
		if err := s.repo.SaveFederated(ctx, u); err != nil {
			return nil, nil, fmt.Errorf("saving federated user: %w", err)
		}

		return &u, nil, nil
	}

	pending := PendingIdentity{ID: uuid.NewString(), Identity: id}
	if err := s.repo.SavePending(ctx, pending); err != nil {
		return nil, nil, fmt.Errorf("saving pending sign-in: %w", err)
	}

	return nil, &pending, nil
}

// AssignRole finishes a pending federated sign-in with the chosen role.
func (s *Service) AssignRole(ctx context.Context, pendingID string, role Role) (*User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	pending, err := s.repo.TakePending(ctx, pendingID)
	if err != nil {
		return nil, err
	}

	u := pending.Identity.user(role)
	if err := s.repo.SaveFederated(ctx, u); err != nil {
		return nil, fmt.Errorf("saving federated user: %w", err)
	}

	return &u, nil
}

func (s *Service) User(ctx context.Context, id string) (*User, error) {
	return s.repo.FindUser(ctx, id)
}

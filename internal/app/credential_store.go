package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"resource-board/internal/model"
	"resource-board/internal/repository"
	"resource-board/internal/validation"
)

// CredentialStore owns user identity records and their password hashes.
// Callers hand it plaintext; only bcrypt hashes reach the UserStore.
type CredentialStore struct {
	users     repository.UserStore
	cost      int
	dummyHash []byte
}

type NewUser struct {
	Name         string
	Email        string
	Password     string
	Role         model.Role
	Organization string
	Phone        string
}

func NewCredentialStore(users repository.UserStore, cost int) (*CredentialStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so both login failures cost
	// the same bcrypt work.
	dummy, err := bcrypt.GenerateFromPassword([]byte("resource-board-placeholder"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare placeholder hash failed: %w", err)
	}
	return &CredentialStore{users: users, cost: cost, dummyHash: dummy}, nil
}

func (s *CredentialStore) Create(ctx context.Context, in NewUser) (*model.User, error) {
	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &validation.Error{Field: "Password", Message: "Password cannot exceed 72 bytes"}
		}
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Organization: in.Organization,
		Phone:        in.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// VerifyPassword reports whether password matches the user's hash. A nil user
// never matches but still pays for one comparison.
func (s *CredentialStore) VerifyPassword(user *model.User, password string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

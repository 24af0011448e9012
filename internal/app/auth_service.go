package app

import (
	"context"
	"errors"

	"resource-board/internal/model"
	"resource-board/internal/validation"
)

var (
	ErrDuplicateEmail     = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	credentials *CredentialStore
	tokens      TokenIssuer
	validator   *validation.Validator
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	Organization string
	Phone        string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(credentials *CredentialStore, tokens TokenIssuer, v *validation.Validator) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokens:      tokens,
		validator:   v,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	reg, err := s.validator.NormalizeRegistration(validation.Registration{
		Name:         input.Name,
		Email:        input.Email,
		Password:     input.Password,
		Role:         model.Role(input.Role),
		Organization: input.Organization,
		Phone:        input.Phone,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.credentials.Create(ctx, NewUser{
		Name:         reg.Name,
		Email:        reg.Email,
		Password:     reg.Password,
		Role:         reg.Role,
		Organization: reg.Organization,
		Phone:        reg.Phone,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login answers ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	creds, err := s.validator.NormalizeCredentials(validation.Credentials{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.credentials.FindByEmail(ctx, creds.Email)
	if err != nil {
		return nil, err
	}
	if !s.credentials.VerifyPassword(user, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.credentials.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

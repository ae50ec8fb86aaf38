package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

// dummyHash is compared against when the username is unknown so that a miss
// costs the same as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("catalog-unknown-account"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration and login.
type AuthService struct {
	accounts        ports.AccountRepository
	roles           ports.RoleRepository
	tokens          ports.TokenIssuer
	limiter         ports.LoginLimiter
	autoCreateRoles bool
	hashCost        int
	log             zerolog.Logger
}

type AuthOption func(*AuthService)

// WithLoginLimiter enables failed-login throttling.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithRoleAutoCreate controls whether Register provisions a known role that is
// missing from the store (true) or rejects it with domain.ErrRoleNotFound.
func WithRoleAutoCreate(enabled bool) AuthOption {
	return func(s *AuthService) { s.autoCreateRoles = enabled }
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	tokens ports.TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		accounts:        accounts,
		roles:           roles,
		tokens:          tokens,
		autoCreateRoles: true,
		hashCost:        bcrypt.DefaultCost,
		log:             log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with a hashed password and the requested roles.
// A taken username fails with domain.ErrDuplicateUsername before any role is
// provisioned, so a rejected registration leaves the store untouched.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.NewValidationError("username cannot be null or empty")
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, domain.NewValidationError("password cannot be null or empty")
	}
	roles, err := domain.ParseRoles(in.Roles)
	if err != nil {
		return nil, err
	}

	_, err = s.accounts.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		s.log.Warn().Str("username", in.Username).Msg("registration rejected: username taken")
		return nil, domain.ErrDuplicateUsername
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, fmt.Errorf("register: lookup account: %w", err)
	}

	for _, r := range roles {
		if err := s.resolveRole(ctx, r); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.accounts.Create(ctx, &domain.Account{
		Username:     in.Username,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}

	s.log.Info().
		Str("username", created.Username).
		Strs("roles", domain.RoleNames(created.Roles)).
		Msg("account registered")
	return created, nil
}

func (s *AuthService) resolveRole(ctx context.Context, r domain.Role) error {
	exists, err := s.roles.Exists(ctx, r)
	if err != nil {
		return fmt.Errorf("register: lookup role: %w", err)
	}
	if exists {
		return nil
	}
	if !s.autoCreateRoles {
		return fmt.Errorf("%w: %s", domain.ErrRoleNotFound, r)
	}
	if err := s.roles.Ensure(ctx, r); err != nil {
		return fmt.Errorf("register: create role: %w", err)
	}
	s.log.Info().Str("role", r.String()).Msg("role created on demand")
	return nil
}

// Login verifies the credentials and returns a signed token. Unknown users
// and wrong passwords both fail with domain.ErrInvalidCredentials; only the
// log tells them apart.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", domain.NewValidationError("username cannot be null or empty")
	}
	if strings.TrimSpace(password) == "" {
		return "", domain.NewValidationError("password cannot be null or empty")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Attempt(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, continuing")
		} else if !allowed {
			s.log.Warn().Str("username", username).Msg("login throttled")
			return "", domain.ErrTooManyAttempts
		}
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			s.log.Info().Str("username", username).Str("reason", "unknown user").Msg("login failed")
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: lookup account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.log.Info().Str("username", username).Str("reason", "wrong password").Msg("login failed")
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Username, account.Roles)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}

	s.log.Info().Str("username", username).Dur("token_ttl", s.tokens.TTL()).Msg("login succeeded")
	return token, nil
}

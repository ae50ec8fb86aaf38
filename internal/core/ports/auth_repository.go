package ports

import (
	"context"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// AccountRepository persists registered accounts.
type AccountRepository interface {
	// FindByUsername returns domain.ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Create inserts the account atomically with the username uniqueness
	// check and returns domain.ErrDuplicateUsername on conflict.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

// RoleRepository persists the role vocabulary.
type RoleRepository interface {
	Exists(ctx context.Context, role domain.Role) (bool, error)
	// Ensure creates the role if it is absent. It is idempotent.
	Ensure(ctx context.Context, role domain.Role) error
}

// LoginLimiter throttles repeated failed logins for a username.
type LoginLimiter interface {
	// Attempt counts one login attempt and reports whether it is still within
	// the limit. Counting and checking happen in a single atomic step.
	Attempt(ctx context.Context, username string) (bool, error)
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}

package ports

import (
	"context"
	"time"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// RegisterInput carries the raw registration fields; role names are
// normalized by the service.
type RegisterInput struct {
	Username string
	Password string
	Roles    []string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Issue(subject string, roles []domain.Role) (string, error)
	TTL() time.Duration
}

// TokenVerifier checks a bearer token's signature and expiry. It never
// touches the store.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

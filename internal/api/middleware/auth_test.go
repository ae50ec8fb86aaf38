package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/service"
)

const testSecret = "middleware-test-secret-0123456789"

func newContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func issue(t *testing.T, roles ...domain.Role) string {
	t.Helper()
	token, err := service.NewJWTManager(testSecret, time.Hour).Issue("alice", roles)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func expiredToken(t *testing.T) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "alice",
		"roles": []string{"USER"},
		"iat":   past.Add(-time.Hour).Unix(),
		"exp":   past.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// verifierFunc adapts a function to ports.TokenVerifier.
type verifierFunc func(string) (*domain.Claims, error)

func (f verifierFunc) Verify(token string) (*domain.Claims, error) { return f(token) }

func TestAuthMiddleware_ValidToken(t *testing.T) {
	c, rec := newContext("Bearer " + issue(t, domain.RoleUser))

	called := false
	handler := Auth(service.NewJWTManager(testSecret, time.Hour))(func(c echo.Context) error {
		called = true
		if c.Get(KeyUsername) != "alice" {
			t.Fatalf("username not set")
		}
		claims, ok := ClaimsFrom(c)
		if !ok || !claims.HasAnyRole(domain.RoleUser) {
			t.Fatalf("claims not set: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	otherKey, err := service.NewJWTManager("some-other-secret-0123456789abcdef", time.Hour).Issue("alice", []domain.Role{domain.RoleUser})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"basic scheme", "Basic YWxpY2U6cHc=", domain.ErrMissingToken},
		{"bearer without token", "Bearer ", domain.ErrMissingToken},
		{"garbage", "Bearer not.a.jwt", domain.ErrInvalidToken},
		{"foreign key", "Bearer " + otherKey, domain.ErrInvalidToken},
		{"expired", "Bearer " + expiredToken(t), domain.ErrExpiredToken},
	}

	mw := Auth(service.NewJWTManager(testSecret, time.Hour))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(tc.header)
			err := mw(func(echo.Context) error {
				t.Fatalf("next must not be called")
				return nil
			})(c)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_UnexpectedVerifierErrorIsInvalidToken(t *testing.T) {
	c, _ := newContext("Bearer abc")
	mw := Auth(verifierFunc(func(string) (*domain.Claims, error) {
		return nil, errors.New("boom")
	}))

	err := mw(func(echo.Context) error { return nil })(c)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := bearerToken("bearer abc"); !ok || tok != "abc" {
		t.Fatalf("scheme must be case-insensitive, got %q %v", tok, ok)
	}
	if _, ok := bearerToken("Bearerabc"); ok {
		t.Fatalf("missing separator must not parse")
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/product-catalog/internal/api/handler"
	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
	"github.com/99minutos/product-catalog/internal/core/service"
)

const routerSecret = "router-test-secret-0123456789abcdef"

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	e        *echo.Echo
	products *memProducts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()
	tokens := service.NewJWTManager(routerSecret, time.Hour)

	accounts := &memAccounts{byID: map[string]domain.Account{}}
	roles := &memRoles{names: map[domain.Role]bool{}}
	products := &memProducts{byCode: map[int64]domain.Product{}}

	auth := service.NewAuthService(accounts, roles, tokens, log, service.WithHashCost(bcrypt.MinCost))
	e := NewRouter(Deps{
		Auth:     auth,
		Products: service.NewProductService(products, log),
		Verifier: tokens,
		Checks:   map[string]handler.CheckFunc{"noop": func(context.Context) error { return nil }},
		Log:      log,
	})

	for _, acc := range []ports.RegisterInput{
		{Username: "admin", Password: "admin123", Roles: []string{"ADMIN"}},
		{Username: "user", Password: "user123", Roles: []string{"USER"}},
	} {
		_, err := auth.Register(context.Background(), acc)
		require.NoError(t, err)
	}
	return &testServer{e: e, products: products}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	code, env := s.do(t, http.MethodPost, "/auth/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	var token string
	require.NoError(t, json.Unmarshal(env.Data, &token))
	return token
}

func TestRouter_RegisterLoginList(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/auth/register", "", `{"username":"alice","password":"pw","roles":["user"]}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.True(t, env.Success)

	token := s.login(t, "alice", "pw")

	code, env = s.do(t, http.MethodGet, "/product/list", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 200, env.Status)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/auth/register", "", `{"username":"admin","password":"other","roles":["USER"]}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
	assert.Equal(t, "null", string(env.Data))

	// The original credentials still work.
	s.login(t, "admin", "admin123")
}

func TestRouter_LoginFailures(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Message)

	code, env = s.do(t, http.MethodPost, "/auth/login", "", `{"username":"ghost","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Message, "unknown user must look like a wrong password")

	code, _ = s.do(t, http.MethodPost, "/auth/login", "", `{"username":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_AccessGuard(t *testing.T) {
	s := newTestServer(t)
	userToken := s.login(t, "user", "user123")
	adminToken := s.login(t, "admin", "admin123")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/product/list", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/product/list", "abc.def.ghi", http.StatusUnauthorized},
		{"user cannot add", http.MethodPost, "/product/add", userToken, http.StatusForbidden},
		{"user cannot delete", http.MethodDelete, "/product/1", userToken, http.StatusForbidden},
		{"admin is not a user", http.MethodGet, "/product/list", adminToken, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(t, tc.method, tc.path, tc.token, "")
			assert.Equal(t, tc.want, code)
			assert.Equal(t, tc.want, env.Status)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRouter_ProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	user := s.login(t, "user", "user123")

	code, env := s.do(t, http.MethodPost, "/product/add", admin,
		`{"code":42,"productName":"Keyboard","price":19.99,"quantity":3,"description":"mechanical"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = s.do(t, http.MethodPost, "/product/add", admin,
		`{"code":42,"productName":"Impostor","price":1,"quantity":1}`)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(t, http.MethodGet, "/product/42", user, "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"code":42,"productName":"Keyboard","price":19.99,"quantity":3,"description":"mechanical"}`, string(env.Data))

	code, _ = s.do(t, http.MethodPatch, "/product/42/update", admin, `{"price":50}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.Product{Code: 42, Name: "Keyboard", Price: 50, Quantity: 3, Description: "mechanical"}, s.products.byCode[42])

	code, env = s.do(t, http.MethodPatch, "/product/42/update", admin, `{"price":-5,"productName":"New"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.Equal(t, domain.Product{Code: 42, Name: "New", Price: 50, Quantity: 3, Description: "mechanical"}, s.products.byCode[42])

	code, env = s.do(t, http.MethodPatch, "/product/999/update", admin, `{"price":-5}`)
	assert.Equal(t, http.StatusNotFound, code, "existence decides an out-of-range patch")
	assert.Equal(t, "product with code 999: product not found", env.Message)

	code, _ = s.do(t, http.MethodPut, "/product/change", admin, `{"code":42,"productName":"Keyboard v2","price":25,"quantity":10}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Keyboard v2", s.products.byCode[42].Name)

	code, env = s.do(t, http.MethodPut, "/product/42/change/-1", admin, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, domain.ErrInvalidPrice.Error(), env.Message)

	code, env = s.do(t, http.MethodPut, "/product/999/change/-1", admin, "")
	assert.Equal(t, http.StatusBadRequest, code, "price is checked before existence")
	assert.Equal(t, domain.ErrInvalidPrice.Error(), env.Message)

	code, _ = s.do(t, http.MethodPut, "/product/42/change/12.5", admin, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 12.5, s.products.byCode[42].Price)

	code, _ = s.do(t, http.MethodDelete, "/product/42", admin, "")
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/product/42", user, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "product with code 42: product not found", env.Message)
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, 404, env.Status)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

package api

import (
	"context"
	"sort"
	"sync"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// In-memory repositories for exercising the full HTTP stack without MongoDB.

type memAccounts struct {
	mu   sync.Mutex
	byID map[string]domain.Account
}

func (m *memAccounts) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.Username]; ok {
		return nil, domain.ErrDuplicateUsername
	}
	m.byID[a.Username] = *a
	out := *a
	return &out, nil
}

type memRoles struct {
	mu    sync.Mutex
	names map[domain.Role]bool
}

func (m *memRoles) Exists(_ context.Context, r domain.Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.names[r], nil
}

func (m *memRoles) Ensure(_ context.Context, r domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[r] = true
	return nil
}

type memProducts struct {
	mu     sync.Mutex
	byCode map[int64]domain.Product
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCode[p.Code]; ok {
		return domain.ErrDuplicateCode
	}
	m.byCode[p.Code] = *p
	return nil
}

func (m *memProducts) FindByCode(_ context.Context, code int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byCode[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *memProducts) Replace(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCode[p.Code]; !ok {
		return domain.ErrProductNotFound
	}
	m.byCode[p.Code] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, code int64, patch domain.ProductPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byCode[code]
	if !ok {
		return domain.ErrProductNotFound
	}
	patch.Apply(&p)
	m.byCode[code] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, code int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCode[code]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.byCode, code)
	return nil
}

func (m *memProducts) List(context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.byCode))
	for _, p := range m.byCode {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

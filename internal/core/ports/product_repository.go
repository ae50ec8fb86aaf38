package ports

import (
	"context"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products. Each
// mutation is a single atomic store operation keyed by code, so the existence
// check and the write cannot interleave with another mutation on that code.
type ProductRepository interface {
	// Create returns domain.ErrDuplicateCode when the code is taken.
	Create(ctx context.Context, p *domain.Product) error
	// FindByCode returns domain.ErrProductNotFound when absent.
	FindByCode(ctx context.Context, code int64) (*domain.Product, error)
	// Replace overwrites every mutable field; domain.ErrProductNotFound when absent.
	Replace(ctx context.Context, p *domain.Product) error
	// Update sets only the fields present in patch; domain.ErrProductNotFound when absent.
	Update(ctx context.Context, code int64, patch domain.ProductPatch) error
	Delete(ctx context.Context, code int64) error
	List(ctx context.Context) ([]*domain.Product, error)
}

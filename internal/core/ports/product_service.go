package ports

import (
	"context"

	"github.com/99minutos/product-catalog/internal/core/domain"
)

// ProductService defines the catalog use cases exposed over HTTP.
type ProductService interface {
	Add(ctx context.Context, p domain.Product) error
	GetByCode(ctx context.Context, code int64) (*domain.Product, error)
	Replace(ctx context.Context, p domain.Product) error
	PartialUpdate(ctx context.Context, code int64, patch domain.ProductPatch) error
	Remove(ctx context.Context, code int64) error
	List(ctx context.Context) ([]*domain.Product, error)
	ChangePrice(ctx context.Context, code int64, price float64) error
}

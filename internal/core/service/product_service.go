package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Add validates and inserts a new product; a taken code fails with
// domain.ErrDuplicateCode and leaves the stored product unchanged.
func (s *ProductService) Add(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		if errors.Is(err, domain.ErrDuplicateCode) {
			return fmt.Errorf("product with code %d: %w", p.Code, err)
		}
		s.logger.Error().Err(err).Int64("code", p.Code).Msg("failed to add product")
		return err
	}

	s.logger.Info().Int64("code", p.Code).Str("name", p.Name).Msg("product added")
	return nil
}

func (s *ProductService) GetByCode(ctx context.Context, code int64) (*domain.Product, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(code, err)
	}
	return p, nil
}

// Replace overwrites name, price, quantity and description of an existing product.
func (s *ProductService) Replace(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.repo.Replace(ctx, &p); err != nil {
		return notFound(p.Code, err)
	}

	s.logger.Info().Int64("code", p.Code).Str("name", p.Name).Msg("product changed")
	return nil
}

// PartialUpdate applies only the present fields of patch. Blank strings and
// negative numbers are skipped rather than rejected, so the only failure for
// well-formed input is a missing product.
func (s *ProductService) PartialUpdate(ctx context.Context, code int64, patch domain.ProductPatch) error {
	patch = patch.Normalize()
	if patch.IsEmpty() {
		// Nothing to write, but a missing product must still be reported.
		_, err := s.GetByCode(ctx, code)
		return err
	}

	if err := s.repo.Update(ctx, code, patch); err != nil {
		return notFound(code, err)
	}

	s.logger.Info().Int64("code", code).Msg("product updated")
	return nil
}

func (s *ProductService) Remove(ctx context.Context, code int64) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return notFound(code, err)
	}

	s.logger.Info().Int64("code", code).Msg("product removed")
	return nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("count", len(products)).Msg("products listed")
	return products, nil
}

// ChangePrice validates price before looking the product up, so an invalid
// price is reported whether or not the code exists.
func (s *ProductService) ChangePrice(ctx context.Context, code int64, price float64) error {
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, code, domain.ProductPatch{Price: &price}); err != nil {
		return notFound(code, err)
	}

	s.logger.Info().Int64("code", code).Float64("price", price).Msg("product price changed")
	return nil
}

// notFound decorates domain.ErrProductNotFound with the code; other errors
// pass through untouched.
func notFound(code int64, err error) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return fmt.Errorf("product with code %d: %w", code, err)
	}
	return err
}

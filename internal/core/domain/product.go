package domain

import (
	"math"
	"strings"
)

// Product is a catalog entry identified by its business code.
type Product struct {
	Code        int64
	Name        string
	Price       float64
	Quantity    int64
	Description string
}

// Validate checks the mandatory fields. It runs before a product reaches the
// store so an invalid entity is never persisted.
func (p Product) Validate() error {
	if p.Code <= 0 {
		return NewValidationError("code must be a positive number")
	}
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("product name cannot be null or blank")
	}
	if err := ValidatePrice(p.Price); err != nil {
		return NewValidationError("price must be a non-negative number")
	}
	if p.Quantity < 0 {
		return NewValidationError("quantity must be a non-negative number")
	}
	return nil
}

// ValidatePrice rejects negative and non-finite prices with ErrInvalidPrice.
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ProductPatch is a partial update. Nil fields are left untouched, and so are
// blank strings and out-of-range numbers once Normalize has run.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Quantity    *int64
	Description *string
}

// Normalize drops the fields that would not be applied: blank strings, a
// negative or non-finite price and a negative quantity.
func (p ProductPatch) Normalize() ProductPatch {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		p.Name = nil
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		p.Description = nil
	}
	if p.Price != nil && ValidatePrice(*p.Price) != nil {
		p.Price = nil
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		p.Quantity = nil
	}
	return p
}

// IsEmpty reports whether the patch would change nothing.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil && p.Description == nil
}

// Apply copies the present fields onto dst.
func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
}

package handler

import (
	"strconv"

	"github.com/99minutos/product-catalog/internal/core/domain"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

// --- Request → domain ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	}
}

// toProduct assumes req passed validation, so the required pointers are set.
func toProduct(req productRequest) domain.Product {
	return domain.Product{
		Code:        *req.Code,
		Name:        req.ProductName,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Description: req.Description,
	}
}

func toProductPatch(req productPatchRequest) domain.ProductPatch {
	return domain.ProductPatch{
		Name:        req.ProductName,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	}
}

// --- Domain → response ---

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		Code:        p.Code,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// --- Path parameters ---

func parseCode(raw string) (int64, error) {
	code, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || code <= 0 {
		return 0, domain.NewValidationError("code must be a positive number")
	}
	return code, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.NewValidationError("price must be a number")
	}
	return price, nil
}

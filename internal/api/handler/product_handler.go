package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/product-catalog/internal/api/metrics"
	"github.com/99minutos/product-catalog/internal/api/respond"
	"github.com/99minutos/product-catalog/internal/core/ports"
)

// ProductHandler serves the /product routes. Role checks happen in the
// router; handlers assume the caller is already admitted.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Add handles POST /product/add.
//
// @Summary      Add a product
// @Tags         product
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  respond.Envelope
// @Failure      400   {object}  respond.Envelope
// @Failure      409   {object}  respond.Envelope
// @Router       /product/add [post]
func (h *ProductHandler) Add(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Add(c.Request().Context(), toProduct(req)); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("add").Inc()
	return respond.Created(c, "Product added successfully")
}

// Get handles GET /product/:code.
func (h *ProductHandler) Get(c echo.Context) error {
	code, err := parseCode(c.Param("code"))
	if err != nil {
		return err
	}

	p, err := h.service.GetByCode(c.Request().Context(), code)
	if err != nil {
		return err
	}

	return respond.OK(c, "Product found", toProductResponse(p))
}

// Change handles PUT /product/change, a full replace keyed by the body's code.
func (h *ProductHandler) Change(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Replace(c.Request().Context(), toProduct(req)); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("replace").Inc()
	return respond.OK(c, "Product changed successfully", nil)
}

// Update handles PATCH /product/:code/update.
func (h *ProductHandler) Update(c echo.Context) error {
	code, err := parseCode(c.Param("code"))
	if err != nil {
		return err
	}

	var req productPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.PartialUpdate(c.Request().Context(), code, toProductPatch(req)); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return respond.OK(c, "Product updated successfully", nil)
}

// Remove handles DELETE /product/:code.
func (h *ProductHandler) Remove(c echo.Context) error {
	code, err := parseCode(c.Param("code"))
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), code); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("remove").Inc()
	return respond.OK(c, "Product removed successfully", nil)
}

// List handles GET /product/list.
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return respond.OK(c, "Products retrieved successfully", toProductResponses(products))
}

// ChangePrice handles PUT /product/:code/change/:price.
func (h *ProductHandler) ChangePrice(c echo.Context) error {
	code, err := parseCode(c.Param("code"))
	if err != nil {
		return err
	}
	price, err := parsePrice(c.Param("price"))
	if err != nil {
		return err
	}

	if err := h.service.ChangePrice(c.Request().Context(), code, price); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("change_price").Inc()
	return respond.OK(c, "Product price changed successfully", nil)
}

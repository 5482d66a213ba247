// handlers_product.go - Product catalog handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/models"
)

// ProductHandlerImpl implements the ProductHandler interface
type ProductHandlerImpl struct {
	catalog ProductCatalog
}

// NewProductHandler creates a new product handler instance
func NewProductHandler(catalog ProductCatalog) ProductHandler {
	return &ProductHandlerImpl{catalog: catalog}
}

// HandleListProducts returns the whole catalog
func (h *ProductHandlerImpl) HandleListProducts(c echo.Context) error {
	products, err := h.catalog.All()
	if err != nil {
		return NewInternalError("failed to load product catalog", err)
	}
	return c.JSON(http.StatusOK, models.ProductsResponse{
		Products: products,
		Total:    len(products),
	})
}

// HandleCheckProduct checks whether a product name exists and returns
// the closest catalog entries otherwise.
func (h *ProductHandlerImpl) HandleCheckProduct(c echo.Context) error {
	var req models.ProductCheckRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.ProductName == "" {
		return NewValidationError("product_name")
	}

	maxResults := parseIntDefault(c.QueryParam("max_results"), 5)
	if maxResults < 1 || maxResults > 20 {
		return NewValidationError("max_results")
	}
	threshold := 0.4
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return NewValidationError("threshold")
		}
		threshold = v
	}

	exact, matches, err := h.catalog.Check(req.ProductName, maxResults, threshold)
	if err != nil {
		return NewInternalError("failed to check product", err)
	}

	return c.JSON(http.StatusOK, models.ProductCheckResponse{
		ExactMatch:       exact,
		MatchingProducts: matches,
	})
}

// parseIntDefault parses an optional integer query parameter.
func parseIntDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

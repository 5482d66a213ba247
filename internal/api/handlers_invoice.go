// handlers_invoice.go - Invoice handlers
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/store"
)

// InvoiceHandlerImpl implements the InvoiceHandler interface
type InvoiceHandlerImpl struct {
	invoices InvoiceRepository
}

// NewInvoiceHandler creates a new invoice handler instance
func NewInvoiceHandler(invoices InvoiceRepository) InvoiceHandler {
	return &InvoiceHandlerImpl{invoices: invoices}
}

// HandleListInvoices returns all invoices, newest first
func (h *InvoiceHandlerImpl) HandleListInvoices(c echo.Context) error {
	invoices, err := h.invoices.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list invoices", err)
	}
	return c.JSON(http.StatusOK, invoices)
}

// HandleGetInvoice returns one invoice by id
func (h *InvoiceHandlerImpl) HandleGetInvoice(c echo.Context) error {
	id := c.Param("id")

	invoice, err := h.invoices.GetByID(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("invoice", id)
	}
	if err != nil {
		return NewInternalError("failed to load invoice", err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// HandleCreateInvoice stores a new invoice
func (h *InvoiceHandlerImpl) HandleCreateInvoice(c echo.Context) error {
	var req models.InvoiceCreate
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Number == "" {
		return NewValidationError("number")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return NewValidationError("date")
	}
	if len(req.Items) == 0 {
		return NewValidationError("items")
	}
	for _, item := range req.Items {
		if item.Name == "" || item.Quantity <= 0 || item.Price < 0 {
			return NewValidationError("items")
		}
	}

	invoice, err := h.invoices.Create(c.Request().Context(), req)
	if err != nil {
		return NewInternalError("failed to create invoice", err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

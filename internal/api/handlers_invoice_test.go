package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/testutil"
)

func TestInvoiceLifecycle(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockInvoiceRepo()
	h := NewInvoiceHandler(repo)

	// 1. Initially empty
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleListInvoices(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// 2. Create an invoice
	body := `{"number":"INV-2024-001","date":"2024-03-15","items":[{"name":"豬肉絲","quantity":2,"price":180},{"name":"雞腿排","quantity":1,"price":220}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleCreateInvoice(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"number":"INV-2024-001"`)
		// amount = 2*180 + 1*220
		assert.Contains(t, rec.Body.String(), `"amount":580`)
	}

	// 3. List shows the new invoice
	req = httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleListInvoices(c)) {
		assert.Contains(t, rec.Body.String(), `"INV-2024-001"`)
	}
}

func TestHandleGetInvoice(t *testing.T) {
	e := echo.New()
	repo := testutil.NewMockInvoiceRepo()
	repo.Add(models.Invoice{HexID: "abc123", Number: "INV-1", Date: "2024-01-01", Amount: 100})
	h := NewInvoiceHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/abc123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc123")

	if assert.NoError(t, h.HandleGetInvoice(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"number":"INV-1"`)
	}
}

func TestHandleGetInvoiceNotFound(t *testing.T) {
	e := echo.New()
	h := NewInvoiceHandler(testutil.NewMockInvoiceRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := h.HandleGetInvoice(c)
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestHandleCreateInvoiceValidation(t *testing.T) {
	e := echo.New()
	h := NewInvoiceHandler(testutil.NewMockInvoiceRepo())

	tests := []struct {
		name string
		body string
	}{
		{"missing number", `{"date":"2024-01-01","items":[{"name":"a","quantity":1,"price":1}]}`},
		{"bad date", `{"number":"INV-1","date":"01/01/2024","items":[{"name":"a","quantity":1,"price":1}]}`},
		{"no items", `{"number":"INV-1","date":"2024-01-01","items":[]}`},
		{"item without name", `{"number":"INV-1","date":"2024-01-01","items":[{"quantity":1,"price":1}]}`},
		{"zero quantity", `{"number":"INV-1","date":"2024-01-01","items":[{"name":"a","quantity":0,"price":1}]}`},
		{"negative price", `{"number":"INV-1","date":"2024-01-01","items":[{"name":"a","quantity":1,"price":-1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.HandleCreateInvoice(c)
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		})
	}
}

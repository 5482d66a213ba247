package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/invoice-agent/backend/internal/testutil"
)

func TestHandleHealth(t *testing.T) {
	e := echo.New()
	h := NewHealthHandler("Invoice Agent API", "1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleHealth(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
		assert.Contains(t, rec.Body.String(), `"version":"1.0.0"`)
	}
}

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()

	deps := &Dependencies{
		Extractor:   &testutil.MockExtractor{},
		Extractions: testutil.NewMockExtractionRepo(),
		Invoices:    testutil.NewMockInvoiceRepo(),
		Catalog:     &testutil.MockCatalog{},
		Jobs:        testutil.NewMockJobManager(),
		Store:       testutil.NewMockStorage(),
		AppName:     "Invoice Agent API",
		Version:     "1.0.0",
	}
	handlers := NewHandlers(deps)
	RegisterRoutes(e, handlers)
	RegisterWebSocketRoutes(e, handlers)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/openapi.json", http.StatusOK},
		{http.MethodGet, "/docs", http.StatusOK},
		{http.MethodGet, "/redoc", http.StatusOK},
		{http.MethodGet, "/api/products", http.StatusOK},
		{http.MethodGet, "/api/v1/invoices", http.StatusOK},
		{http.MethodGet, "/api/ocr/recent", http.StatusOK},
		{http.MethodGet, "/api/ocr/uploads", http.StatusOK},
		{http.MethodDelete, "/api/ocr/uploads/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/ocr/jobs/unknown", http.StatusNotFound},
		{http.MethodPost, "/api/ocr/text", http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, "%s %s", tt.method, tt.path)
	}
}

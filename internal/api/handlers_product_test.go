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

func TestHandleListProducts(t *testing.T) {
	e := echo.New()

	catalog := &testutil.MockCatalog{
		Products: []models.Product{
			{ProductID: "A001", Name: "豬肉絲", Unit: "kg", Currency: "TWD", Price: 180},
			{ProductID: "A002", Name: "雞腿排", Unit: "kg", Currency: "TWD", Price: 220},
		},
	}
	h := NewProductHandler(catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleListProducts(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":2`)
		assert.Contains(t, rec.Body.String(), `"豬肉絲"`)
	}
}

func TestHandleCheckProduct(t *testing.T) {
	e := echo.New()

	catalog := &testutil.MockCatalog{
		Exact: false,
		Matches: []models.ProductMatchResult{
			{ProductID: "A001", Name: "豬肉絲", MatchScore: 0.85, OriginalInput: "豬肉"},
			{ProductID: "A003", Name: "豬五花", MatchScore: 0.62, OriginalInput: "豬肉"},
		},
	}
	h := NewProductHandler(catalog)

	req := httptest.NewRequest(http.MethodPost, "/api/products/check",
		bytes.NewBufferString(`{"product_name":"豬肉"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleCheckProduct(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"exact_match":false`)
		assert.Contains(t, rec.Body.String(), `"match_score":0.85`)
	}
}

func TestHandleCheckProductMaxResults(t *testing.T) {
	e := echo.New()

	catalog := &testutil.MockCatalog{
		Matches: []models.ProductMatchResult{
			{ProductID: "A001", Name: "豬肉絲", MatchScore: 0.85},
			{ProductID: "A003", Name: "豬五花", MatchScore: 0.62},
		},
	}
	h := NewProductHandler(catalog)

	req := httptest.NewRequest(http.MethodPost, "/api/products/check?max_results=1",
		bytes.NewBufferString(`{"product_name":"豬肉"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleCheckProduct(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"豬肉絲"`)
		assert.NotContains(t, rec.Body.String(), `"豬五花"`)
	}
}

func TestHandleCheckProductValidation(t *testing.T) {
	e := echo.New()
	h := NewProductHandler(&testutil.MockCatalog{})

	tests := []struct {
		name  string
		query string
		body  string
	}{
		{"empty product_name", "", `{"product_name":""}`},
		{"max_results too low", "?max_results=0", `{"product_name":"x"}`},
		{"max_results too high", "?max_results=21", `{"product_name":"x"}`},
		{"threshold out of range", "?threshold=1.5", `{"product_name":"x"}`},
		{"threshold not a number", "?threshold=high", `{"product_name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/products/check"+tt.query,
				bytes.NewBufferString(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.HandleCheckProduct(c)
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		})
	}
}

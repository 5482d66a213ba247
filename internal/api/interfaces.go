// interfaces.go - Handler and collaborator interfaces for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/jobs"
	"github.com/invoice-agent/backend/internal/models"
)

// OCRHandler handles text extraction operations
type OCRHandler interface {
	HandleExtractText(c echo.Context) error
	HandleExtractBatch(c echo.Context) error
	HandleExtractUpload(c echo.Context) error
	HandleListUploads(c echo.Context) error
	HandleGetUpload(c echo.Context) error
	HandleDeleteUpload(c echo.Context) error
	HandleRecentExtractions(c echo.Context) error
	HandleRecentExtractionsMsgpack(c echo.Context) error
}

// ProductHandler handles product catalog operations
type ProductHandler interface {
	HandleListProducts(c echo.Context) error
	HandleCheckProduct(c echo.Context) error
}

// InvoiceHandler handles invoice CRUD operations
type InvoiceHandler interface {
	HandleListInvoices(c echo.Context) error
	HandleGetInvoice(c echo.Context) error
	HandleCreateInvoice(c echo.Context) error
}

// JobHandler handles async batch extraction jobs
type JobHandler interface {
	HandleStartJob(c echo.Context) error
	HandleJobStatus(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
	HandleRoot(c echo.Context) error
}

// Extractor is the OCR service surface the handlers depend on.
// This allows mocking in tests.
type Extractor interface {
	ExtractFromURL(ctx context.Context, fileURL, fileType string) (*models.OCRResult, error)
	ExtractFromBytes(ctx context.Context, data []byte, fileType string) (*models.OCRResult, error)
	ExtractBatch(ctx context.Context, files []models.FileRef) []models.OCRFileResult
}

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	List(ctx context.Context) ([]models.Invoice, error)
	GetByID(ctx context.Context, hexID string) (*models.Invoice, error)
	Create(ctx context.Context, req models.InvoiceCreate) (*models.Invoice, error)
}

// ExtractionRepository persists OCR results.
type ExtractionRepository interface {
	Insert(ctx context.Context, ext *models.Extraction) error
	Recent(ctx context.Context, limit int) ([]models.Extraction, error)
}

// ProductCatalog serves and matches products.
type ProductCatalog interface {
	All() ([]models.Product, error)
	Check(name string, maxResults int, threshold float64) (bool, []models.ProductMatchResult, error)
}

// JobManager runs async batch extractions.
type JobManager interface {
	StartJob(files []models.FileRef) jobs.Job
	GetJob(id string) (jobs.Job, bool)
	Subscribe(id string) (<-chan jobs.Job, bool)
}

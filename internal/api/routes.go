// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/invoice-agent/backend/internal/storage"
	"github.com/invoice-agent/backend/internal/web"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Extractor   Extractor
	Extractions ExtractionRepository
	Invoices    InvoiceRepository
	Catalog     ProductCatalog
	Jobs        JobManager
	Store       storage.Store
	AppName     string
	Version     string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	OCR     OCRHandler
	Product ProductHandler
	Invoice InvoiceHandler
	Job     JobHandler
	WS      *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.AppName, deps.Version),
		OCR:     NewOCRHandler(deps.Extractor, deps.Extractions, deps.Store),
		Product: NewProductHandler(deps.Catalog),
		Invoice: NewInvoiceHandler(deps.Invoices),
		Job:     NewJobHandler(deps.Jobs),
		WS:      NewWebSocketHandler(deps.Jobs),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.HTTPErrorHandler = ErrorHandler

	// Root banner and health check
	e.GET("/", handlers.Health.HandleRoot)
	e.GET("/health", handlers.Health.HandleHealth)

	// API documentation
	web.RegisterDocsRoutes(e)

	// OCR routes
	ocrGroup := e.Group("/api/ocr")
	ocrGroup.POST("/text", handlers.OCR.HandleExtractText)
	ocrGroup.POST("/batch", handlers.OCR.HandleExtractBatch)
	ocrGroup.POST("/upload", handlers.OCR.HandleExtractUpload)
	ocrGroup.GET("/uploads", handlers.OCR.HandleListUploads)
	ocrGroup.GET("/uploads/:id", handlers.OCR.HandleGetUpload)
	ocrGroup.DELETE("/uploads/:id", handlers.OCR.HandleDeleteUpload)
	ocrGroup.GET("/recent", handlers.OCR.HandleRecentExtractions)
	ocrGroup.GET("/recent/msgpack", handlers.OCR.HandleRecentExtractionsMsgpack)
	ocrGroup.POST("/jobs", handlers.Job.HandleStartJob)
	ocrGroup.GET("/jobs/:id", handlers.Job.HandleJobStatus)

	// Product catalog routes
	productGroup := e.Group("/api/products")
	productGroup.GET("", handlers.Product.HandleListProducts)
	productGroup.POST("/check", handlers.Product.HandleCheckProduct)

	// Invoice routes
	invoiceGroup := e.Group("/api/v1/invoices")
	invoiceGroup.GET("", handlers.Invoice.HandleListInvoices)
	invoiceGroup.POST("", handlers.Invoice.HandleCreateInvoice)
	invoiceGroup.GET("/:id", handlers.Invoice.HandleGetInvoice)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/ws/jobs", handlers.WS.HandleJobStream)
}

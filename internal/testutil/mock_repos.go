// mock_repos.go - Mock handler collaborators for API tests
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/invoice-agent/backend/internal/jobs"
	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/store"
)

// MockExtractor implements the api.Extractor interface for tests.
type MockExtractor struct {
	ExtractFromURLFunc   func(ctx context.Context, fileURL, fileType string) (*models.OCRResult, error)
	ExtractFromBytesFunc func(ctx context.Context, data []byte, fileType string) (*models.OCRResult, error)
	ExtractBatchFunc     func(ctx context.Context, files []models.FileRef) []models.OCRFileResult
}

func (m *MockExtractor) ExtractFromURL(ctx context.Context, fileURL, fileType string) (*models.OCRResult, error) {
	if m.ExtractFromURLFunc != nil {
		return m.ExtractFromURLFunc(ctx, fileURL, fileType)
	}
	return &models.OCRResult{Text: "mock text", Width: 800, Height: 600, FileURL: fileURL}, nil
}

func (m *MockExtractor) ExtractFromBytes(ctx context.Context, data []byte, fileType string) (*models.OCRResult, error) {
	if m.ExtractFromBytesFunc != nil {
		return m.ExtractFromBytesFunc(ctx, data, fileType)
	}
	return &models.OCRResult{Text: "mock text", Width: 800, Height: 600}, nil
}

func (m *MockExtractor) ExtractBatch(ctx context.Context, files []models.FileRef) []models.OCRFileResult {
	if m.ExtractBatchFunc != nil {
		return m.ExtractBatchFunc(ctx, files)
	}
	results := make([]models.OCRFileResult, 0, len(files))
	for _, f := range files {
		results = append(results, models.OCRFileResult{
			Filename: f.Filename,
			MimeType: f.MimeType,
			Text:     "mock text",
			FileURL:  f.Link,
			Success:  true,
		})
	}
	return results
}

// MockInvoiceRepo implements the api.InvoiceRepository interface with an
// in-memory slice.
type MockInvoiceRepo struct {
	mu       sync.Mutex
	invoices []models.Invoice

	// CreateErr forces Create to fail when set.
	CreateErr error
}

func NewMockInvoiceRepo() *MockInvoiceRepo {
	return &MockInvoiceRepo{}
}

func (m *MockInvoiceRepo) List(ctx context.Context) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Invoice, len(m.invoices))
	copy(out, m.invoices)
	return out, nil
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, hexID string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.invoices {
		if m.invoices[i].HexID == hexID {
			inv := m.invoices[i]
			return &inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MockInvoiceRepo) Create(ctx context.Context, req models.InvoiceCreate) (*models.Invoice, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv := models.Invoice{
		HexID:     generateTestID(),
		Number:    req.Number,
		Date:      req.Date,
		Amount:    req.Amount(),
		Items:     req.Items,
		CreatedAt: time.Now(),
	}
	m.invoices = append(m.invoices, inv)
	return &inv, nil
}

// Add seeds an invoice directly.
func (m *MockInvoiceRepo) Add(inv models.Invoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, inv)
}

// MockExtractionRepo implements the api.ExtractionRepository interface.
type MockExtractionRepo struct {
	mu          sync.Mutex
	extractions []models.Extraction

	// InsertErr forces Insert to fail when set.
	InsertErr error
}

func NewMockExtractionRepo() *MockExtractionRepo {
	return &MockExtractionRepo{}
}

func (m *MockExtractionRepo) Insert(ctx context.Context, ext *models.Extraction) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractions = append(m.extractions, *ext)
	return nil
}

func (m *MockExtractionRepo) Recent(ctx context.Context, limit int) ([]models.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Extraction, len(m.extractions))
	copy(out, m.extractions)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count reports how many extractions were inserted.
func (m *MockExtractionRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.extractions)
}

// MockCatalog implements the api.ProductCatalog interface.
type MockCatalog struct {
	Products []models.Product
	Matches  []models.ProductMatchResult
	Exact    bool
	Err      error
}

func (m *MockCatalog) All() ([]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Products, nil
}

func (m *MockCatalog) Check(name string, maxResults int, threshold float64) (bool, []models.ProductMatchResult, error) {
	if m.Err != nil {
		return false, nil, m.Err
	}
	matches := m.Matches
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return m.Exact, matches, nil
}

// MockJobManager implements the api.JobManager interface.
type MockJobManager struct {
	mu   sync.Mutex
	jobs map[string]jobs.Job
}

func NewMockJobManager() *MockJobManager {
	return &MockJobManager{jobs: make(map[string]jobs.Job)}
}

func (m *MockJobManager) StartJob(files []models.FileRef) jobs.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	job := jobs.Job{
		ID:         generateTestID(),
		Status:     jobs.StatusProcessing,
		TotalFiles: len(files),
		CreatedAt:  time.Now(),
	}
	m.jobs[job.ID] = job
	return job
}

func (m *MockJobManager) GetJob(id string) (jobs.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	return job, ok
}

func (m *MockJobManager) Subscribe(id string) (<-chan jobs.Job, bool) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	ch := make(chan jobs.Job, 1)
	ch <- job
	close(ch)
	return ch, true
}

// SetJob stores a job snapshot directly.
func (m *MockJobManager) SetJob(job jobs.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

// mock_annotator.go - Mock Vision annotator for testing
package testutil

import (
	"context"
	"sync"

	"github.com/invoice-agent/backend/internal/models"
)

// MockAnnotator implements vision.Annotator for tests.
type MockAnnotator struct {
	mu    sync.Mutex
	calls int

	// AnnotateFunc overrides the default behavior when set.
	AnnotateFunc func(ctx context.Context, data []byte) (*models.OCRResult, error)
}

// NewMockAnnotator returns an annotator whose default result echoes a
// fixed text with one paragraph.
func NewMockAnnotator() *MockAnnotator {
	return &MockAnnotator{}
}

func (m *MockAnnotator) AnnotateImage(ctx context.Context, data []byte) (*models.OCRResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AnnotateFunc != nil {
		return m.AnnotateFunc(ctx, data)
	}
	return &models.OCRResult{
		Text:   "mock extracted text for testing purposes, long enough to pass thresholds",
		Width:  800,
		Height: 600,
		Paragraphs: []models.Paragraph{
			{
				Text: "mock extracted text",
				BoundingBox: models.BoundingBox{Vertices: []models.Vertex{
					{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 20}, {X: 0, Y: 20},
				}},
				Confidence:  99.0,
				ParagraphID: 1,
				BlockType:   "TEXT",
			},
		},
	}, nil
}

// Calls reports how many times AnnotateImage ran.
func (m *MockAnnotator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockAnnotator) Close() error { return nil }

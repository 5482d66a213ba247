// Package ocr implements the text extraction pipeline: fetch a file,
// decide how to process it by MIME type, and run it through the Vision
// annotator (directly for images, page by page for scanned PDFs).
package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/invoice-agent/backend/internal/config"
	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/vision"
)

// Service orchestrates downloads, PDF handling, caching and the
// Vision annotator.
type Service struct {
	annotator vision.Annotator
	client    *http.Client
	cache     *Cache
	pdf       pdfEngine
	cfg       config.OCRConfig
}

// New creates an extraction service. cache may be nil to disable
// result caching.
func New(annotator vision.Annotator, cfg config.OCRConfig, cache *Cache) *Service {
	return &Service{
		annotator: annotator,
		client: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSeconds) * time.Second,
		},
		cache: cache,
		pdf:   &fitzEngine{},
		cfg:   cfg,
	}
}

// ExtractFromURL downloads the file and extracts its text. Successful
// results are cached keyed by URL.
func (s *Service) ExtractFromURL(ctx context.Context, fileURL, fileType string) (*models.OCRResult, error) {
	if s.cache != nil {
		if result, ok := s.cache.Get(fileURL); ok {
			logger.Sugar.Infow("ocr cache hit", "url", fileURL)
			return result, nil
		}
	}

	logger.Sugar.Infow("processing url", "url", fileURL, "fileType", fileType)

	data, err := s.download(ctx, fileURL)
	if err != nil {
		return nil, err
	}

	result, err := s.ExtractFromBytes(ctx, data, fileType)
	if err != nil {
		return nil, err
	}
	result.FileURL = fileURL

	if s.cache != nil {
		s.cache.Put(fileURL, result)
	}
	return result, nil
}

// ExtractFromBytes dispatches on the MIME type: images go straight to
// the annotator, PDFs go through the text-layer check, and anything
// else is treated as an image.
func (s *Service) ExtractFromBytes(ctx context.Context, data []byte, fileType string) (*models.OCRResult, error) {
	switch {
	case strings.HasPrefix(fileType, "image/"):
		return s.annotator.AnnotateImage(ctx, data)
	case fileType == "application/pdf":
		text, err := s.processPDF(ctx, data)
		if err != nil {
			return nil, err
		}
		return &models.OCRResult{Text: text, Paragraphs: []models.Paragraph{}}, nil
	default:
		logger.Sugar.Warnw("unknown file type, treating as image", "fileType", fileType)
		return s.annotator.AnnotateImage(ctx, data)
	}
}

// ExtractBatch processes each file in turn. A failing file produces a
// Success=false entry instead of aborting the batch.
func (s *Service) ExtractBatch(ctx context.Context, files []models.FileRef) []models.OCRFileResult {
	return s.ExtractBatchFunc(ctx, files, nil)
}

// ExtractBatchFunc is ExtractBatch with a per-file completion callback,
// used by the async job manager to report progress.
func (s *Service) ExtractBatchFunc(ctx context.Context, files []models.FileRef, done func(index int, result models.OCRFileResult)) []models.OCRFileResult {
	logger.Sugar.Infow("starting batch extraction", "files", len(files))

	results := make([]models.OCRFileResult, 0, len(files))
	for i, ref := range files {
		fileResult := s.extractOne(ctx, ref)
		results = append(results, fileResult)
		if done != nil {
			done(i, fileResult)
		}
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	logger.Sugar.Infow("batch extraction complete", "succeeded", succeeded, "total", len(results))
	return results
}

func (s *Service) extractOne(ctx context.Context, ref models.FileRef) models.OCRFileResult {
	result, err := s.ExtractFromURL(ctx, ref.Link, ref.MimeType)
	if err != nil {
		logger.Sugar.Errorw("batch file failed", "filename", ref.Filename, "error", err)
		return models.OCRFileResult{
			Filename: ref.Filename,
			MimeType: ref.MimeType,
			Text:     fmt.Sprintf("processing error: %s", err),
			Success:  false,
			Error:    err.Error(),
		}
	}
	return models.OCRFileResult{
		Filename:   ref.Filename,
		MimeType:   ref.MimeType,
		Text:       result.Text,
		Width:      result.Width,
		Height:     result.Height,
		Paragraphs: result.Paragraphs,
		FileURL:    ref.Link,
		Success:    true,
	}
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading download body: %w", err)
	}

	logger.Sugar.Infow("download complete", "url", url, "sizeKB", fmt.Sprintf("%.2f", float64(len(data))/1024))
	return data, nil
}

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"

	"github.com/invoice-agent/backend/internal/logger"
)

// pdfEngine abstracts the PDF operations so tests can avoid the cgo
// renderer.
type pdfEngine interface {
	// ExtractTextPages returns the text layer of every page and the
	// total page count.
	ExtractTextPages(path string) (pages []string, total int, err error)
	// RenderPages rasterizes up to maxPages pages at the given DPI.
	RenderPages(path string, maxPages int, dpi float64) ([]image.Image, error)
}

// processPDF prefers the embedded text layer: only when every page
// carries enough text is it returned directly. Otherwise the leading
// pages are rendered and OCR'd one by one.
func (s *Service) processPDF(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "invoice-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp pdf: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}
	tmp.Close()

	pages, total, err := s.pdf.ExtractTextPages(tmpPath)
	if err != nil {
		logger.Sugar.Warnw("pdf text layer extraction failed, falling back to ocr", "error", err)
	} else {
		textual := make([]string, 0, len(pages))
		for _, pageText := range pages {
			// Count runes, not bytes: CJK pages are 3 bytes per char.
			if utf8.RuneCountInString(strings.TrimSpace(pageText)) > s.cfg.TextLayerMinChars {
				textual = append(textual, pageText)
			}
		}
		if total > 0 && len(textual) == total {
			logger.Sugar.Infow("pdf text layer complete, skipping ocr", "pages", total)
			return strings.Join(textual, "\n\n"), nil
		}
		logger.Sugar.Infow("pdf text layer incomplete, using ocr",
			"textualPages", len(textual), "totalPages", total)
	}

	return s.ocrPDFPages(ctx, tmpPath)
}

func (s *Service) ocrPDFPages(ctx context.Context, path string) (string, error) {
	images, err := s.pdf.RenderPages(path, s.cfg.PDFMaxPages, s.cfg.PDFRenderDPI)
	if err != nil {
		return "", fmt.Errorf("rendering pdf pages: %w", err)
	}
	logger.Sugar.Infow("pdf rendered for ocr", "pages", len(images))

	var texts []string
	for i, img := range images {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			logger.Sugar.Errorw("encoding pdf page failed", "page", i+1, "error", err)
			continue
		}

		result, err := s.annotator.AnnotateImage(ctx, buf.Bytes())
		if err != nil {
			logger.Sugar.Errorw("ocr of pdf page failed", "page", i+1, "error", err)
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(result.Text)) > s.cfg.TextLayerMinChars {
			texts = append(texts, result.Text)
		}
	}

	if len(texts) == 0 {
		return "", fmt.Errorf("no text could be extracted from the pdf")
	}
	return strings.Join(texts, "\n\n"), nil
}

// fitzEngine is the production pdfEngine: ledongthuc/pdf for the text
// layer, go-fitz (MuPDF) for rasterization.
type fitzEngine struct{}

func (fitzEngine) ExtractTextPages(path string) ([]string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, total, nil
}

func (fitzEngine) RenderPages(path string, maxPages int, dpi float64) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf for rendering: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	images := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}

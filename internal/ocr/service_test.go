package ocr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/invoice-agent/backend/internal/config"
	"github.com/invoice-agent/backend/internal/models"
	"github.com/invoice-agent/backend/internal/testutil"
)

func testConfig() config.OCRConfig {
	return config.OCRConfig{
		LanguageHints:          []string{"zh-Hant", "en"},
		DownloadTimeoutSeconds: 5,
		PDFMaxPages:            5,
		PDFRenderDPI:           100,
		TextLayerMinChars:      50,
	}
}

func TestExtractFromBytes_Image(t *testing.T) {
	annotator := testutil.NewMockAnnotator()
	svc := New(annotator, testConfig(), nil)

	result, err := svc.ExtractFromBytes(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text == "" {
		t.Error("expected extracted text")
	}
	if annotator.Calls() != 1 {
		t.Errorf("expected 1 annotator call, got %d", annotator.Calls())
	}
}

func TestExtractFromBytes_UnknownTypeTreatedAsImage(t *testing.T) {
	annotator := testutil.NewMockAnnotator()
	svc := New(annotator, testConfig(), nil)

	if _, err := svc.ExtractFromBytes(context.Background(), []byte("data"), "application/octet-stream"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if annotator.Calls() != 1 {
		t.Errorf("expected annotator call for unknown type, got %d", annotator.Calls())
	}
}

func TestExtractFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake image bytes"))
	}))
	defer server.Close()

	annotator := testutil.NewMockAnnotator()
	svc := New(annotator, testConfig(), nil)

	result, err := svc.ExtractFromURL(context.Background(), server.URL+"/invoice.png", "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FileURL != server.URL+"/invoice.png" {
		t.Errorf("expected file_url to be set, got %q", result.FileURL)
	}
}

func TestExtractFromURL_DownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := New(testutil.NewMockAnnotator(), testConfig(), nil)

	_, err := svc.ExtractFromURL(context.Background(), server.URL+"/missing.png", "image/png")
	if err == nil {
		t.Fatal("expected error for 404 download")
	}
	if !strings.Contains(err.Error(), "unexpected status 404") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExtractFromURL_UsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("fake image bytes"))
	}))
	defer server.Close()

	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	annotator := testutil.NewMockAnnotator()
	svc := New(annotator, testConfig(), cache)

	url := server.URL + "/invoice.png"
	if _, err := svc.ExtractFromURL(context.Background(), url, "image/png"); err != nil {
		t.Fatal(err)
	}
	second, err := svc.ExtractFromURL(context.Background(), url, "image/png")
	if err != nil {
		t.Fatal(err)
	}

	if requests != 1 {
		t.Errorf("expected 1 download, got %d", requests)
	}
	if annotator.Calls() != 1 {
		t.Errorf("expected 1 annotator call, got %d", annotator.Calls())
	}
	if second.FileURL != url {
		t.Errorf("cached result lost file_url: %q", second.FileURL)
	}
}

func TestExtractBatch_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("fake image bytes"))
	}))
	defer server.Close()

	svc := New(testutil.NewMockAnnotator(), testConfig(), nil)

	files := []models.FileRef{
		{Filename: "ok.png", MimeType: "image/png", Link: server.URL + "/ok.png"},
		{Filename: "bad.png", MimeType: "image/png", Link: server.URL + "/bad.png"},
	}

	results := svc.ExtractBatch(context.Background(), files)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("expected first file to succeed: %+v", results[0])
	}
	if results[1].Success {
		t.Error("expected second file to fail")
	}
	if results[1].Error == "" || results[1].Filename != "bad.png" {
		t.Errorf("failed entry missing metadata: %+v", results[1])
	}
}

func TestExtractBatchFunc_ReportsProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake image bytes"))
	}))
	defer server.Close()

	svc := New(testutil.NewMockAnnotator(), testConfig(), nil)

	files := []models.FileRef{
		{Filename: "a.png", MimeType: "image/png", Link: server.URL + "/a.png"},
		{Filename: "b.png", MimeType: "image/png", Link: server.URL + "/b.png"},
	}

	var seen []int
	svc.ExtractBatchFunc(context.Background(), files, func(i int, r models.OCRFileResult) {
		seen = append(seen, i)
	})

	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("unexpected callback sequence: %v", seen)
	}
}

func TestExtractFromBytes_AnnotatorError(t *testing.T) {
	annotator := testutil.NewMockAnnotator()
	annotator.AnnotateFunc = func(ctx context.Context, data []byte) (*models.OCRResult, error) {
		return nil, errors.New("boom")
	}
	svc := New(annotator, testConfig(), nil)

	if _, err := svc.ExtractFromBytes(context.Background(), []byte("x"), "image/jpeg"); err == nil {
		t.Error("expected error from annotator")
	}
}

package ocr

import (
	"testing"
	"time"

	"github.com/invoice-agent/backend/internal/models"
)

func TestCachePutGet(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	result := &models.OCRResult{
		Text:    "cached text",
		Width:   640,
		Height:  480,
		FileURL: "https://example.com/a.png",
		Paragraphs: []models.Paragraph{
			{Text: "cached text", Confidence: 95.5, ParagraphID: 1, BlockType: "TEXT"},
		},
	}
	cache.Put("https://example.com/a.png", result)

	got, ok := cache.Get("https://example.com/a.png")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Text != result.Text || got.Width != 640 {
		t.Errorf("cached result mismatch: %+v", got)
	}
	if len(got.Paragraphs) != 1 || got.Paragraphs[0].Confidence != 95.5 {
		t.Errorf("paragraphs not preserved: %+v", got.Paragraphs)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get("https://example.com/never-seen.png"); ok {
		t.Error("expected cache miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	cache.Put("https://example.com/b.png", &models.OCRResult{Text: "soon stale"})
	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get("https://example.com/b.png"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCacheDistinctURLs(t *testing.T) {
	cache, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	cache.Put("https://example.com/1.png", &models.OCRResult{Text: "one"})
	cache.Put("https://example.com/2.png", &models.OCRResult{Text: "two"})

	one, _ := cache.Get("https://example.com/1.png")
	two, _ := cache.Get("https://example.com/2.png")
	if one == nil || two == nil || one.Text == two.Text {
		t.Errorf("entries collided: %+v vs %+v", one, two)
	}
}

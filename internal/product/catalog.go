// Package product loads the product catalog CSV and matches free-form
// names against it.
package product

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
)

// Catalog holds the product list, loaded lazily from a CSV file with
// the header 品號,品名,單位,幣別.
type Catalog struct {
	mu       sync.RWMutex
	path     string
	products []models.Product
	byName   map[string]models.Product
	loaded   bool
}

// NewCatalog creates a catalog reading from the given CSV path.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path, byName: make(map[string]models.Product)}
}

// Load reads the CSV file, replacing any previously loaded data.
func (c *Catalog) Load() error {
	f, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("opening products file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading products header: %w", err)
	}

	// Tolerate a UTF-8 BOM on the first column.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if len(header) < 4 || !strings.Contains(header[0], "品號") || !strings.Contains(header[1], "品名") {
		return fmt.Errorf("unexpected products header: %v", header)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading products rows: %w", err)
	}

	products := make([]models.Product, 0, len(records))
	byName := make(map[string]models.Product, len(records))
	for _, row := range records {
		if len(row) < 4 {
			continue
		}
		p := models.Product{
			ProductID: strings.TrimSpace(row[0]),
			Name:      strings.TrimSpace(row[1]),
			Unit:      strings.TrimSpace(row[2]),
			Currency:  strings.TrimSpace(row[3]),
		}
		if len(row) > 4 {
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64); err == nil {
				p.Price = v
			}
		}
		products = append(products, p)
		byName[p.Name] = p
	}

	c.mu.Lock()
	c.products = products
	c.byName = byName
	c.loaded = true
	c.mu.Unlock()

	logger.Sugar.Infow("product catalog loaded", "path", c.path, "products", len(products))
	return nil
}

// All returns every product, loading the catalog on first use.
func (c *Catalog) All() ([]models.Product, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

func (c *Catalog) ensureLoaded() error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Load()
}

func (c *Catalog) lookup(name string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	return p, ok
}

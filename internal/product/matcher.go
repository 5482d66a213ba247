package product

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/invoice-agent/backend/internal/models"
)

// Check looks the name up in the catalog. An exact name match is
// reported with score 1.0; the remaining candidates are scored by the
// best of simple, partial and token-sort similarity, filtered by
// threshold, and returned best first, capped at maxResults.
func (c *Catalog) Check(name string, maxResults int, threshold float64) (bool, []models.ProductMatchResult, error) {
	if err := c.ensureLoaded(); err != nil {
		return false, nil, err
	}

	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return false, []models.ProductMatchResult{}, nil
	}

	exactMatch := false
	results := []models.ProductMatchResult{}

	if p, ok := c.lookup(normalized); ok {
		exactMatch = true
		results = append(results, matchResult(p, 1.0, name))
		if maxResults == 1 {
			return exactMatch, results, nil
		}
	}

	c.mu.RLock()
	products := c.products
	c.mu.RUnlock()

	type scored struct {
		product models.Product
		score   float64
	}
	var candidates []scored
	for _, p := range products {
		score := similarity(normalized, p.Name)
		if score >= threshold {
			candidates = append(candidates, scored{p, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	for _, cand := range candidates {
		if len(results) >= maxResults {
			break
		}
		if exactMatch && cand.product.Name == normalized {
			continue
		}
		results = append(results, matchResult(cand.product, cand.score, name))
	}

	return exactMatch, results, nil
}

// similarity is the best of three fuzzy measures, scaled to 0-1.
func similarity(a, b string) float64 {
	best := fuzzy.Ratio(a, b)
	if s := fuzzy.PartialRatio(a, b); s > best {
		best = s
	}
	if s := fuzzy.TokenSortRatio(a, b); s > best {
		best = s
	}
	return float64(best) / 100.0
}

func matchResult(p models.Product, score float64, input string) models.ProductMatchResult {
	return models.ProductMatchResult{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Unit:          p.Unit,
		Currency:      p.Currency,
		Price:         p.Price,
		MatchScore:    score,
		OriginalInput: input,
	}
}

package models

// Product is one row of the product catalog.
type Product struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Currency  string  `json:"currency"`
	Price     float64 `json:"price"`
}

// ProductMatchResult is a catalog entry scored against an input name.
type ProductMatchResult struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Currency      string  `json:"currency"`
	Price         float64 `json:"price"`
	MatchScore    float64 `json:"match_score"` // 0-1
	OriginalInput string  `json:"original_input"`
}

// ProductsResponse lists the whole catalog.
type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// ProductCheckRequest asks whether a product name exists in the catalog.
type ProductCheckRequest struct {
	ProductName string `json:"product_name"`
}

// ProductCheckResponse reports the exact-match flag and the closest
// catalog entries.
type ProductCheckResponse struct {
	ExactMatch       bool                 `json:"exact_match"`
	MatchingProducts []ProductMatchResult `json:"matching_products"`
}

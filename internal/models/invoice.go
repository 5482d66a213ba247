package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvoiceItem is a single line item on an invoice.
type InvoiceItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

// Total returns the line total for the item.
func (it InvoiceItem) Total() float64 {
	return float64(it.Quantity) * it.Price
}

// Invoice is a stored invoice record. Amount is derived from the items
// at creation time.
type Invoice struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	HexID     string             `json:"id" bson:"-"`
	Number    string             `json:"number" bson:"number"`
	Date      string             `json:"date" bson:"date"` // YYYY-MM-DD
	Amount    float64            `json:"amount" bson:"amount"`
	Items     []InvoiceItem      `json:"items,omitempty" bson:"items,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// InvoiceCreate is the request body for creating an invoice.
type InvoiceCreate struct {
	Number string        `json:"number"`
	Date   string        `json:"date"`
	Items  []InvoiceItem `json:"items"`
}

// Amount sums the line totals.
func (c InvoiceCreate) Amount() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Total()
	}
	return total
}

package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/invoice-agent/backend/internal/models"
)

// Invoices is the MongoDB-backed invoice repository.
type Invoices struct {
	col *mongo.Collection
}

// NewInvoices binds the repository to the invoices collection.
func NewInvoices(db *mongo.Database) *Invoices {
	return &Invoices{col: db.Collection("invoices")}
}

// List returns all invoices, most recent first.
func (r *Invoices) List(ctx context.Context) ([]models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].HexID = invoices[i].ID.Hex()
	}
	return invoices, nil
}

// GetByID looks an invoice up by its hex ObjectID. A malformed id is
// treated as not found.
func (r *Invoices) GetByID(ctx context.Context, hexID string) (*models.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, ErrNotFound
	}

	var invoice models.Invoice
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&invoice)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	invoice.HexID = invoice.ID.Hex()
	return &invoice, nil
}

// Create inserts a new invoice built from the request, computing the
// amount from the items.
func (r *Invoices) Create(ctx context.Context, req models.InvoiceCreate) (*models.Invoice, error) {
	invoice := models.Invoice{
		Number:    req.Number,
		Date:      req.Date,
		Amount:    req.Amount(),
		Items:     req.Items,
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.col.InsertOne(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		invoice.ID = oid
		invoice.HexID = oid.Hex()
	}
	return &invoice, nil
}

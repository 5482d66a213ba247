package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/invoice-agent/backend/internal/models"
)

// Extractions is the MongoDB-backed OCR result repository.
type Extractions struct {
	col *mongo.Collection
}

// NewExtractions binds the repository to the extractions collection.
func NewExtractions(db *mongo.Database) *Extractions {
	return &Extractions{col: db.Collection("extractions")}
}

// Insert records one extraction result.
func (r *Extractions) Insert(ctx context.Context, ext *models.Extraction) error {
	if ext.CreatedAt.IsZero() {
		ext.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, ext)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		ext.ID = oid
		ext.HexID = oid.Hex()
	}
	return nil
}

// Recent returns the latest extraction records, newest first.
func (r *Extractions) Recent(ctx context.Context, limit int) ([]models.Extraction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	extractions := []models.Extraction{}
	if err := cursor.All(ctx, &extractions); err != nil {
		return nil, err
	}
	for i := range extractions {
		extractions[i].HexID = extractions[i].ID.Hex()
	}
	return extractions, nil
}

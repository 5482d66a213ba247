package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Extraction is a persisted OCR result, one per processed file.
type Extraction struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	HexID      string             `json:"id" bson:"-"`
	SourceURL  string             `json:"source_url" bson:"source_url"`
	Filename   string             `json:"filename,omitempty" bson:"filename,omitempty"`
	MimeType   string             `json:"mimetype,omitempty" bson:"mimetype,omitempty"`
	Text       string             `json:"text" bson:"text"`
	Width      int                `json:"width,omitempty" bson:"width,omitempty"`
	Height     int                `json:"height,omitempty" bson:"height,omitempty"`
	Paragraphs []Paragraph        `json:"paragraphs,omitempty" bson:"paragraphs,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

package models

// Vertex is a single corner of a bounding polygon, in pixel coordinates.
type Vertex struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// BoundingBox is the four-vertex polygon enclosing a detected region.
type BoundingBox struct {
	Vertices []Vertex `json:"vertices" bson:"vertices"`
}

// Paragraph is a detected text region with its position and confidence.
// Confidence is a percentage (0-100), rounded to two decimals.
type Paragraph struct {
	Text        string      `json:"text" bson:"text"`
	BoundingBox BoundingBox `json:"bounding_box" bson:"bounding_box"`
	Confidence  float64     `json:"confidence" bson:"confidence"`
	ParagraphID int         `json:"paragraph_id" bson:"paragraph_id"`
	BlockType   string      `json:"block_type" bson:"block_type"`
}

// OCRResult is the outcome of extracting text from a single file.
// PDF results carry the joined page text and an empty paragraph list.
type OCRResult struct {
	Text       string      `json:"text"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Paragraphs []Paragraph `json:"paragraphs"`
	FileURL    string      `json:"file_url,omitempty"`
}

// OCRRequest asks for text extraction from a single URL.
type OCRRequest struct {
	ImageURL string `json:"image_url"`
	FileType string `json:"file_type"`
}

// FileRef describes one file in a batch extraction request.
type FileRef struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size,omitempty"`
	Link     string `json:"link"`
}

// OCRBatchRequest asks for text extraction from several files.
type OCRBatchRequest struct {
	Files []FileRef `json:"files"`
}

// OCRFileResult is the per-file outcome of a batch extraction. A failed
// file keeps its slot in the batch with Success false and the error text.
type OCRFileResult struct {
	Filename   string      `json:"filename"`
	MimeType   string      `json:"mimetype"`
	Text       string      `json:"text"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
	FileURL    string      `json:"file_url,omitempty"`
	Success    bool        `json:"success"`
	Error      string      `json:"error,omitempty"`
}

// OCRBatchResponse wraps the per-file results of a batch extraction.
type OCRBatchResponse struct {
	Results []OCRFileResult `json:"results"`
}

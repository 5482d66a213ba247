package vision

import (
	"math"
	"strings"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/invoice-agent/backend/internal/models"
)

// resultFromResponse flattens an annotate response into the OCR result
// shape: the full text plus paragraph-level regions. Paragraphs come
// from the full text annotation; when that yields nothing the
// individual text annotations serve as a fallback (the first one spans
// the whole image and is skipped).
func resultFromResponse(resp *visionpb.AnnotateImageResponse) *models.OCRResult {
	result := &models.OCRResult{Paragraphs: []models.Paragraph{}}

	if anns := resp.GetTextAnnotations(); len(anns) > 0 {
		result.Text = anns[0].GetDescription()
	}

	fta := resp.GetFullTextAnnotation()
	if fta != nil && len(fta.GetPages()) > 0 {
		page := fta.GetPages()[0]
		result.Width = int(page.GetWidth())
		result.Height = int(page.GetHeight())

		count := 0
		for _, block := range page.GetBlocks() {
			blockType := block.GetBlockType().String()
			for _, para := range block.GetParagraphs() {
				count++
				if para.GetBoundingBox() == nil {
					continue
				}
				result.Paragraphs = append(result.Paragraphs, models.Paragraph{
					Text:        paragraphText(para),
					BoundingBox: boxFromPoly(para.GetBoundingBox()),
					Confidence:  confidencePercent(para.GetConfidence()),
					ParagraphID: count,
					BlockType:   blockType,
				})
			}
		}
	}

	if len(result.Paragraphs) == 0 {
		result.Paragraphs = paragraphsFromAnnotations(resp.GetTextAnnotations())
	}

	return result
}

func paragraphText(para *visionpb.Paragraph) string {
	var b strings.Builder
	for _, word := range para.GetWords() {
		for _, sym := range word.GetSymbols() {
			b.WriteString(sym.GetText())
		}
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func paragraphsFromAnnotations(anns []*visionpb.EntityAnnotation) []models.Paragraph {
	paragraphs := []models.Paragraph{}
	if len(anns) < 2 {
		return paragraphs
	}
	for i, ann := range anns[1:] {
		if ann.GetBoundingPoly() == nil {
			continue
		}
		paragraphs = append(paragraphs, models.Paragraph{
			Text:        ann.GetDescription(),
			BoundingBox: boxFromPoly(ann.GetBoundingPoly()),
			Confidence:  confidencePercent(ann.GetConfidence()),
			ParagraphID: i + 1,
			BlockType:   "TEXT_ANNOTATION",
		})
	}
	return paragraphs
}

func boxFromPoly(poly *visionpb.BoundingPoly) models.BoundingBox {
	box := models.BoundingBox{Vertices: make([]models.Vertex, 0, len(poly.GetVertices()))}
	for _, v := range poly.GetVertices() {
		box.Vertices = append(box.Vertices, models.Vertex{X: int(v.GetX()), Y: int(v.GetY())})
	}
	return box
}

// confidencePercent converts the 0-1 confidence to a percentage rounded
// to two decimals; zero stays zero.
func confidencePercent(c float32) float64 {
	if c <= 0 {
		return 0
	}
	return math.Round(float64(c)*100*100) / 100
}

package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Enhance pre-processes a scanned document image for better OCR:
// grayscale, contrast, sharpening, brightness and gamma correction.
// The result is PNG-encoded.
func Enhance(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding enhanced image: %w", err)
	}
	return buf.Bytes(), nil
}

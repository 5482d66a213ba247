// Package vision wraps the Google Cloud Vision document text detection
// API behind a small interface the rest of the service can mock.
package vision

import (
	"context"
	"errors"
	"fmt"
	"os"

	visionapi "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/invoice-agent/backend/internal/logger"
	"github.com/invoice-agent/backend/internal/models"
)

// ErrCredentialsMissing reports that the service account key file is
// not readable. Callers map it to a 503 with remediation hints.
var ErrCredentialsMissing = errors.New("vision credential file missing")

// Annotator extracts text and layout from a single image.
type Annotator interface {
	AnnotateImage(ctx context.Context, data []byte) (*models.OCRResult, error)
	Close() error
}

// Client is the production Annotator backed by the Vision API.
type Client struct {
	api             *visionapi.ImageAnnotatorClient
	credentialsPath string
	languageHints   []string
}

// New creates a Vision client authenticated with the service account
// key at credentialsPath.
func New(ctx context.Context, credentialsPath string, languageHints []string) (*Client, error) {
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCredentialsMissing, credentialsPath)
	}

	api, err := visionapi.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Client{
		api:             api,
		credentialsPath: credentialsPath,
		languageHints:   languageHints,
	}, nil
}

// AnnotateImage runs document text detection on the image bytes.
func (c *Client) AnnotateImage(ctx context.Context, data []byte) (*models.OCRResult, error) {
	// The key file is volume-mounted and can vanish between calls.
	if _, err := os.Stat(c.credentialsPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCredentialsMissing, c.credentialsPath)
	}

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: data},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
		ImageContext: &visionpb.ImageContext{LanguageHints: c.languageHints},
	}

	batch, err := c.api.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("vision annotate: %w", err)
	}
	if len(batch.GetResponses()) == 0 {
		return nil, errors.New("vision annotate: empty batch response")
	}
	resp := batch.GetResponses()[0]
	if respErr := resp.GetError(); respErr != nil && respErr.GetMessage() != "" {
		return nil, fmt.Errorf("vision api error: %s", respErr.GetMessage())
	}

	result := resultFromResponse(resp)
	logger.Sugar.Infow("vision extraction complete",
		"textLength", len(result.Text), "paragraphs", len(result.Paragraphs))
	return result, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.api.Close()
}

package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/mattborgard/reimburse-parser/internal/normalize"
)

// Vision recognizes text with the Google Cloud Vision API using document
// text detection, which handles the dense handwriting on scanned forms
// better than plain text detection.
type Vision struct {
	credentialsFile string
}

func NewVision(credentialsFile string) *Vision {
	return &Vision{credentialsFile: credentialsFile}
}

func (v *Vision) Recognize(ctx context.Context, imagePaths []string) ([]normalize.Page, error) {
	var opts []option.ClientOption
	if v.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(v.credentialsFile))
	}
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, &Error{Provider: "vision", Err: fmt.Errorf("create client: %w", err)}
	}

	requests := make([]*vision.AnnotateImageRequest, 0, len(imagePaths))
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Provider: "vision", Err: fmt.Errorf("read image %s: %w", path, err)}
		}
		requests = append(requests, &vision.AnnotateImageRequest{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(data)},
			Features: []*vision.Feature{{Type: "DOCUMENT_TEXT_DETECTION"}},
		})
	}

	resp, err := svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return nil, &Error{Provider: "vision", Err: err}
	}

	pages := make([]normalize.Page, 0, len(resp.Responses))
	for i, r := range resp.Responses {
		if r.Error != nil {
			return nil, &Error{Provider: "vision", Err: fmt.Errorf("page %d: %s", i+1, r.Error.Message)}
		}
		text := ""
		if r.FullTextAnnotation != nil {
			text = r.FullTextAnnotation.Text
		}
		pages = append(pages, normalize.Page{Index: i, Text: text})
	}
	slog.Info("OCR complete", "provider", "vision", "pages", len(pages))
	return pages, nil
}

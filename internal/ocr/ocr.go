// Package ocr runs page images through a text recognition provider. The
// provider is a black box to the rest of the pipeline: page images in, raw
// text per page out.
package ocr

import (
	"context"
	"fmt"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/normalize"
)

// Error wraps a provider failure. OCR failures are fatal for the item being
// processed; no partial extraction is attempted.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ocr (%s): %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Provider recognizes text in page images, one raw page per input image, in
// input order.
type Provider interface {
	Recognize(ctx context.Context, imagePaths []string) ([]normalize.Page, error)
}

// NewProvider selects the configured OCR backend.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.OCR.Provider {
	case "", "vision":
		return NewVision(cfg.OCR.CredentialsFile), nil
	case "gemini":
		return NewGemini(cfg.OCR.Model), nil
	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s", cfg.OCR.Provider)
	}
}

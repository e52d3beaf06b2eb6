package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mattborgard/reimburse-parser/internal/normalize"
)

const geminiOCRPrompt = `You are performing OCR on a scanned reimbursement request form.

Extract ALL visible text from the image exactly as it appears, preserving
line breaks, capitalization, punctuation, and the order of text elements.
Include handwritten entries. Do not add commentary or interpretation; if a
portion is illegible transcribe what you can and mark the rest with [?].
Output only the transcribed text.`

// Gemini recognizes text with a vision-capable Gemini model. Useful when a
// Vision API service account is not available; only GEMINI_API_KEY is
// needed.
type Gemini struct {
	model string
}

func NewGemini(model string) *Gemini {
	return &Gemini{model: model}
}

func (g *Gemini) Recognize(ctx context.Context, imagePaths []string) ([]normalize.Page, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, &Error{Provider: "gemini", Err: fmt.Errorf("GEMINI_API_KEY environment variable not set")}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &Error{Provider: "gemini", Err: fmt.Errorf("create client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0)

	pages := make([]normalize.Page, 0, len(imagePaths))
	for i, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Provider: "gemini", Err: fmt.Errorf("read image %s: %w", path, err)}
		}

		resp, err := model.GenerateContent(ctx,
			genai.ImageData(imageFormat(path), data),
			genai.Text(geminiOCRPrompt),
		)
		if err != nil {
			return nil, &Error{Provider: "gemini", Err: fmt.Errorf("page %d: %w", i+1, err)}
		}
		text, err := textPart(resp)
		if err != nil {
			return nil, &Error{Provider: "gemini", Err: fmt.Errorf("page %d: %w", i+1, err)}
		}
		pages = append(pages, normalize.Page{Index: i, Text: text})
	}
	slog.Info("OCR complete", "provider", "gemini", "model", g.model, "pages", len(pages))
	return pages, nil
}

func textPart(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned")
	}
	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}
	return "", fmt.Errorf("unexpected response format")
}

func imageFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}

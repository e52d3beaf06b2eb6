// Package pdf renders PDF attachments into per-page PNG images for OCR.
package pdf

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// document is the slice of go-fitz the render loop needs.
type document interface {
	NumPage() int
	Image(pageNumber int) (*image.RGBA, error)
}

// ToImages renders every page of the PDF at path into PNG files in a temp
// directory and returns their paths in page order. A failed render removes
// the directory along with any pages already written.
func ToImages(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer doc.Close()

	paths, err := renderToTemp(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	slog.Debug("pdf rendered", "file", filepath.Base(path), "pages", len(paths))
	return paths, nil
}

func renderToTemp(doc document, name string) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "reimburse-pages-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}

	paths, err := renderPages(doc, tmpDir, name)
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, err
	}
	return paths, nil
}

func renderPages(doc document, tmpDir, name string) ([]string, error) {
	var paths []string
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("render page %d of %s: %w", i+1, name, err)
		}

		dest := filepath.Join(tmpDir, fmt.Sprintf("page_%03d.png", i+1))
		f, err := os.Create(dest)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", dest, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// Cleanup removes rendered page images. Best effort.
func Cleanup(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Warn("could not remove page image", "path", p, "err", err)
		}
	}
}

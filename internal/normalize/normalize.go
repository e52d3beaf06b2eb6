// Package normalize turns raw OCR page text into a canonical line-oriented
// form the extraction engine can scan.
package normalize

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// PageBreak separates pages in the normalized output. Table data can span
// columns within a page but a field never continues across a page break.
const PageBreak = "--- PAGE BREAK ---"

// ErrEmptyInput is returned when there are no pages, or every page is blank.
// It is the normalizer's only failure mode; malformed text is cleaned
// best-effort, never rejected.
var ErrEmptyInput = errors.New("no OCR text to normalize")

// Page is one page of raw OCR output.
type Page struct {
	Index int
	Text  string
}

var (
	reCRLF  = regexp.MustCompile(`\r\n?`)
	reSpace = regexp.MustCompile(`[ \t]+`)
)

// Normalize concatenates pages in order, cleans each line, and applies the
// configured OCR misread substitutions. subs maps literal misread strings to
// their corrections and may be nil.
func Normalize(pages []Page, subs map[string]string) ([]string, error) {
	var lines []string
	for _, page := range pages {
		pageLines := cleanPage(page.Text, subs)
		if len(pageLines) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, PageBreak)
		}
		lines = append(lines, pageLines...)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	return lines, nil
}

func cleanPage(text string, subs map[string]string) []string {
	text = reCRLF.ReplaceAllString(text, "\n")
	// apply in sorted key order so overlapping substitutions behave the
	// same on every run
	keys := make([]string, 0, len(subs))
	for from := range subs {
		keys = append(keys, from)
	}
	sort.Strings(keys)
	for _, from := range keys {
		text = strings.ReplaceAll(text, from, subs[from])
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = reSpace.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

var (
	reDateLabel   = regexp.MustCompile(`(?i)\bDate\b[\s:]*`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`)
	reWrittenDate = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
)

// matchLabeledDate looks for a date token on a line that carries a "Date"
// label. Label proximity beats document order when several dates appear.
func matchLabeledDate(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		if !reDateLabel.MatchString(line) {
			continue
		}
		if got, ok := dateOnLine(line, i); ok {
			return got, true
		}
	}
	return match{}, false
}

// matchBareDate takes the first date-shaped token anywhere in the text.
func matchBareDate(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		if got, ok := dateOnLine(line, i); ok {
			return got, true
		}
	}
	return match{}, false
}

func dateOnLine(line string, idx int) (match, bool) {
	if m := reWrittenDate.FindStringSubmatch(line); m != nil {
		t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", m[1], m[2], m[3]))
		if err == nil {
			// written months are unambiguous
			return match{t.Format(form.ISODate), form.Matched, idx}, true
		}
	}
	if m := reNumericDate.FindStringSubmatch(line); m != nil {
		if got, ok := resolveNumericDate(m[1], m[2], m[3], idx); ok {
			return got, true
		}
	}
	return match{}, false
}

// resolveNumericDate interprets a d/d/d token month-first, which is how the
// forms are filled out. When both leading components could be a month the
// reading is ambiguous and the result is tagged inferred.
func resolveNumericDate(first, second, year string, idx int) (match, bool) {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	y, _ := strconv.Atoi(year)
	if len(year) == 2 {
		y += 2000
	}

	month, day := a, b
	conf := form.Matched
	switch {
	case a >= 1 && a <= 12 && b >= 1 && b <= 12:
		conf = form.Inferred // day/month order ambiguous, month-first default
	case a > 12 && b >= 1 && b <= 12:
		month, day = b, a // day written first, only one valid reading
	case a > 12 && b > 12:
		return match{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return match{}, false
	}

	t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return match{}, false // e.g. 2/30 rolled over
	}
	return match{t.Format(form.ISODate), conf, idx}, true
}

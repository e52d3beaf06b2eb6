package form

import (
	"strings"
	"time"
)

// ISODate is the canonical storage layout for the Date field.
const ISODate = "2006-01-02"

// dateLayouts are tried in order when parsing a date from form text or a
// review edit. Numeric layouts are month-first, matching how the forms are
// filled out in practice; a slash-vs-dash mismatch is tolerated by
// normalizing separators first.
var dateLayouts = []string{
	ISODate,
	"1/2/2006",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// ParseDate parses one of the accepted date layouts into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t := strings.TrimSpace(s)
	t = strings.ReplaceAll(t, "-", "/")
	var lastErr error
	for _, layout := range dateLayouts {
		layout = strings.ReplaceAll(layout, "-", "/")
		d, err := time.Parse(layout, t)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

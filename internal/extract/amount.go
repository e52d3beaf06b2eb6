package extract

import (
	"regexp"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

var (
	// label patterns in strictness order
	reAmountRequested = regexp.MustCompile(`(?i)Amount\s+Requested[\s:]*\$?\s*([\d,]+(?:\.\d{1,2})?)`)
	reAmountLabel     = regexp.MustCompile(`(?i)\bAmount\b[\s:]*\$?\s*([\d,]+(?:\.\d{1,2})?)`)
	reTotalLabel      = regexp.MustCompile(`(?i)\bTotal\b[\s:]*\$?\s*([\d,]+(?:\.\d{1,2})?)`)
	// a bare dollar token must carry both fraction digits to count
	reBareDollar = regexp.MustCompile(`\$\s*([\d,]+\.\d{2})\b`)
)

var amountLabelPatterns = []*regexp.Regexp{reAmountRequested, reAmountLabel, reTotalLabel}

// matchLabeledAmount scans for a currency token next to an amount label,
// skipping the line the Date field already claimed so a date like 4.15 is
// never misread as money.
func matchLabeledAmount(lines []string, rec form.Record, _ *config.Config) (match, bool) {
	dateLine := rec[form.Date].SourceLine
	for _, re := range amountLabelPatterns {
		for i, line := range lines {
			if i == dateLine {
				continue
			}
			if m := re.FindStringSubmatch(line); m != nil {
				if got, ok := amountMatch(m[1], i); ok {
					return got, true
				}
			}
		}
	}
	return match{}, false
}

// matchBareAmount falls back to any "$n.nn" token.
func matchBareAmount(lines []string, rec form.Record, _ *config.Config) (match, bool) {
	dateLine := rec[form.Date].SourceLine
	for i, line := range lines {
		if i == dateLine {
			continue
		}
		if m := reBareDollar.FindStringSubmatch(line); m != nil {
			if got, ok := amountMatch(m[1], i); ok {
				return got, true
			}
		}
	}
	return match{}, false
}

func amountMatch(token string, idx int) (match, bool) {
	cents, err := form.ParseCents(token)
	if err != nil || cents == 0 {
		return match{}, false
	}
	return match{cents.String(), form.Matched, idx}, true
}

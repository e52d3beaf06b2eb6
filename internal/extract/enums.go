package extract

import (
	"regexp"
	"strings"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

// checkbox glyphs plus the plain "x" people write by hand
var roleCheckboxPatterns = []struct {
	re    *regexp.Regexp
	value string
}{
	{regexp.MustCompile(`(?i)(?:☑|✓|✔|\[x\]|\bx\b)\s*home\s*room`), "Home Room Parent"},
	{regexp.MustCompile(`(?i)(?:☑|✓|✔|\[x\]|\bx\b)\s*teacher\b`), "Teacher"},
	{regexp.MustCompile(`(?i)(?:☑|✓|✔|\[x\]|\bx\b)\s*pta\s*program`), "PTA Program"},
}

var rolePhrasePatterns = []struct {
	re    *regexp.Regexp
	value string
}{
	{regexp.MustCompile(`(?i)home\s*room\s*parent\s*reimbursement`), "Home Room Parent"},
	{regexp.MustCompile(`(?i)teacher\s*reimbursement`), "Teacher"},
	{regexp.MustCompile(`(?i)pta\s*program\s*reimbursement`), "PTA Program"},
	{regexp.MustCompile(`(?i)reimbursement\s*type[\s:]*home\s*room`), "Home Room Parent"},
	{regexp.MustCompile(`(?i)reimbursement\s*type[\s:]*teacher`), "Teacher"},
	{regexp.MustCompile(`(?i)reimbursement\s*type[\s:]*pta`), "PTA Program"},
}

func matchCheckedRole(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		for _, p := range roleCheckboxPatterns {
			if p.re.MatchString(line) {
				return match{p.value, form.Matched, i}, true
			}
		}
	}
	return match{}, false
}

func matchPhraseRole(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		for _, p := range rolePhrasePatterns {
			if p.re.MatchString(line) {
				return match{p.value, form.Inferred, i}, true
			}
		}
	}
	return match{}, false
}

// labeledEnum builds a matcher for an enum-constrained field: capture the
// text after the label, then resolve it against the configured allowed list.
// Unresolved captures are kept as-is and tagged inferred; validation flags
// them and review settles the ambiguity. No fuzzy matching.
func labeledEnum(name form.FieldName, label *regexp.Regexp) matcher {
	return func(lines []string, _ form.Record, cfg *config.Config) (match, bool) {
		allowed := AllowedValues(name, cfg)
		for i, line := range lines {
			m := label.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			raw, at := labelValue(lines, i, m[1])
			if raw == "" {
				continue
			}
			if v, ok := ResolveEnum(raw, allowed); ok {
				return match{v, form.Matched, at}, true
			}
			return match{raw, form.Inferred, at}, true
		}
		return match{}, false
	}
}

// ResolveEnum matches raw text against an allowed list case-insensitively:
// exact first, then prefix, then substring. Returns the canonical list entry.
func ResolveEnum(raw string, allowed []string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return "", false
	}
	for _, a := range allowed {
		if strings.ToLower(a) == r {
			return a, true
		}
	}
	for _, a := range allowed {
		if strings.HasPrefix(strings.ToLower(a), r) {
			return a, true
		}
	}
	for _, a := range allowed {
		if strings.Contains(strings.ToLower(a), r) {
			return a, true
		}
	}
	return "", false
}

// ResolveEnumExact checks only case-insensitive exact membership, the rule
// validation applies once a value should already be canonical.
func ResolveEnumExact(raw string, allowed []string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(raw))
	for _, a := range allowed {
		if strings.ToLower(a) == r {
			return a, true
		}
	}
	return "", false
}

// AllowedValues returns the configured list for an enum field, nil otherwise.
func AllowedValues(name form.FieldName, cfg *config.Config) []string {
	switch name {
	case form.PaymentType:
		return cfg.FieldMappings.PaymentTypes
	case form.BudgetCategory:
		return cfg.FieldMappings.BudgetCategories
	case form.BudgetItem:
		return cfg.FieldMappings.BudgetItems
	}
	return nil
}

// matchNotesDefault seeds the Notes field from configuration. Notes are
// never read from OCR text; the field exists for manual annotation during
// review.
func matchNotesDefault(_ []string, _ form.Record, cfg *config.Config) (match, bool) {
	if cfg.NotesDefault == "" {
		return match{}, false
	}
	return match{cfg.NotesDefault, form.Inferred, form.NoSourceLine}, true
}

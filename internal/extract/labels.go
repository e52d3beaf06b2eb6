package extract

import (
	"regexp"
	"strings"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
	"github.com/mattborgard/reimburse-parser/internal/normalize"
)

var (
	requestorLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^Check\s+Request(?:or|er)\b[\s:]*(.*)$`),
		regexp.MustCompile(`(?i)^Request(?:or|er)\b[\s:]*(.*)$`),
		regexp.MustCompile(`(?i)^Name\b[\s:]*(.*)$`),
		regexp.MustCompile(`(?i)^Submitted\s+by\b[\s:]*(.*)$`),
	}

	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	reCombinedTG = regexp.MustCompile(`(?i)^Teacher\s*/\s*Grade\b[\s:]*(.*)$`)
	reTeacherLbl = regexp.MustCompile(`(?i)^Teacher\b[\s:]*(.*)$`)
	reGradeLbl   = regexp.MustCompile(`(?i)^Grade\b[\s:]*(.*)$`)
	reSalutation = regexp.MustCompile(`((?:Mrs?\.?|Ms\.?|Miss)\s+[A-Z][a-z]+)[\s,/-]*((?:Pre-?)?K(?:indergarten)?|[1-5](?:st|nd|rd|th)?(?:\s*[Gg]rade)?)`)

	eventLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^Event\b[\s:]*(.*)$`),
		regexp.MustCompile(`(?i)^For\b[\s:]*(.*)$`),
		regexp.MustCompile(`(?i)^Purpose\b[\s:]*(.*)$`),
	}
	knownEvents = []string{
		"Winter Party", "Fall Party", "Spring Party", "Valentine's Day Party",
		"Halloween Party", "End of Year Party", "Field Day", "Teacher Appreciation",
	}

	rePaymentLabel  = regexp.MustCompile(`(?i)^Payment\s+Type\b[\s:]*(.*)$`)
	reCategoryLabel = regexp.MustCompile(`(?i)^Budget\s+Category\b[\s:]*(.*)$`)
	reItemLabel     = regexp.MustCompile(`(?i)^Budget\s+Item\b[\s:]*(.*)$`)

	// names on the forms: two or more capitalized words
	reNameShape = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z.']+)+$`)
)

// labelValue captures the text after a label, falling back to the next line
// when the label sits alone. Page breaks stop the lookahead.
func labelValue(lines []string, i int, capture string) (string, int) {
	v := strings.TrimSpace(capture)
	if v != "" {
		return v, i
	}
	if i+1 < len(lines) && lines[i+1] != normalize.PageBreak {
		return strings.TrimSpace(lines[i+1]), i + 1
	}
	return "", i
}

func matchEmail(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		if m := reEmail.FindString(line); m != "" {
			return match{strings.ToLower(m), form.Matched, i}, true
		}
	}
	return match{}, false
}

func matchLabeledRequestor(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for _, re := range requestorLabels {
		for i, line := range lines {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v, at := labelValue(lines, i, m[1])
			v = trimNameNoise(v)
			if len(v) > 1 {
				return match{v, form.Matched, at}, true
			}
		}
	}
	return match{}, false
}

// matchTopNameFallback takes the first capitalized multi-word sequence near
// the top of the document, skipping lines other fields already claimed.
func matchTopNameFallback(lines []string, rec form.Record, _ *config.Config) (match, bool) {
	claimed := claimedLines(rec)
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		if claimed[i] || lines[i] == normalize.PageBreak {
			continue
		}
		if reNameShape.MatchString(lines[i]) {
			return match{lines[i], form.Inferred, i}, true
		}
	}
	return match{}, false
}

func matchCombinedTeacherGrade(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		if m := reCombinedTG.FindStringSubmatch(line); m != nil {
			v, at := labelValue(lines, i, m[1])
			if len(v) > 1 {
				return match{v, form.Matched, at}, true
			}
		}
	}
	return match{}, false
}

func matchSeparateTeacherGrade(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	var teacher, grade string
	var at = form.NoSourceLine
	for i, line := range lines {
		if reCombinedTG.MatchString(line) {
			continue
		}
		if m := reTeacherLbl.FindStringSubmatch(line); m != nil && teacher == "" {
			teacher = strings.TrimSpace(m[1])
			at = i
		}
		if m := reGradeLbl.FindStringSubmatch(line); m != nil && grade == "" {
			grade = strings.TrimSpace(m[1])
			if at == form.NoSourceLine {
				at = i
			}
		}
	}
	switch {
	case teacher != "" && grade != "":
		return match{teacher + " - " + grade, form.Matched, at}, true
	case teacher != "":
		return match{teacher, form.Matched, at}, true
	case grade != "":
		return match{grade, form.Matched, at}, true
	}
	return match{}, false
}

func matchSalutationGrade(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		if m := reSalutation.FindStringSubmatch(line); m != nil {
			v := strings.TrimSpace(m[1])
			if g := strings.TrimSpace(m[2]); g != "" {
				v += " - " + g
			}
			return match{v, form.Inferred, i}, true
		}
	}
	return match{}, false
}

func matchLabeledEvent(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for _, re := range eventLabels {
		for i, line := range lines {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v, at := labelValue(lines, i, m[1])
			if len(v) > 2 {
				return match{v, form.Matched, at}, true
			}
		}
	}
	return match{}, false
}

func matchKnownEvent(lines []string, _ form.Record, _ *config.Config) (match, bool) {
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, ev := range knownEvents {
			if strings.Contains(lower, strings.ToLower(ev)) {
				return match{ev, form.Inferred, i}, true
			}
		}
	}
	return match{}, false
}

// trimNameNoise drops trailing label words OCR sometimes glues onto a name
// when a form row runs into the next column.
func trimNameNoise(s string) string {
	for _, stop := range []string{" Email", " Phone", " Date"} {
		if i := strings.Index(s, stop); i > 0 {
			s = s[:i]
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func claimedLines(rec form.Record) map[int]bool {
	claimed := make(map[int]bool)
	for _, name := range form.AllFields {
		if l := rec[name].SourceLine; l != form.NoSourceLine {
			claimed[l] = true
		}
	}
	return claimed
}

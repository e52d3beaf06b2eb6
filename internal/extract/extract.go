// Package extract turns normalized OCR lines into a typed form record.
//
// Each field has an ordered chain of matchers, most specific first, so a
// loose pattern never steals a match a stricter one would tag with higher
// confidence. Matchers are pure functions of the lines and the fields
// extracted so far; extraction itself never fails, a field with no match is
// simply recorded as missing.
package extract

import (
	"log/slog"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

// match is one successful matcher result.
type match struct {
	value string
	conf  form.Confidence
	line  int
}

// matcher inspects the lines, with the partially built record available as
// disambiguation context, and reports whether it found a value.
type matcher func(lines []string, rec form.Record, cfg *config.Config) (match, bool)

// fieldChain binds a field to its ordered matcher list.
type fieldChain struct {
	name     form.FieldName
	matchers []matcher
}

// chains run in this order so later fields can consult earlier ones: the
// Amount matchers skip the line the Date claimed, and the Requestor fallback
// avoids lines already consumed by other fields.
var chains = []fieldChain{
	{form.Date, []matcher{matchLabeledDate, matchBareDate}},
	{form.Amount, []matcher{matchLabeledAmount, matchBareAmount}},
	{form.Email, []matcher{matchEmail}},
	{form.TeacherGrade, []matcher{matchCombinedTeacherGrade, matchSeparateTeacherGrade, matchSalutationGrade}},
	{form.Requestor, []matcher{matchLabeledRequestor, matchTopNameFallback}},
	{form.RequestorRoleType, []matcher{matchCheckedRole, matchPhraseRole}},
	{form.Event, []matcher{matchLabeledEvent, matchKnownEvent}},
	{form.PaymentType, []matcher{labeledEnum(form.PaymentType, rePaymentLabel)}},
	{form.BudgetCategory, []matcher{labeledEnum(form.BudgetCategory, reCategoryLabel)}},
	{form.BudgetItem, []matcher{labeledEnum(form.BudgetItem, reItemLabel)}},
	{form.Notes, []matcher{matchNotesDefault}},
}

// Extract applies every field's matcher chain to the normalized lines. The
// returned record always contains all eleven fields; unmatched ones carry
// confidence missing.
func Extract(lines []string, cfg *config.Config) form.Record {
	rec := form.NewRecord()
	for _, chain := range chains {
		for _, m := range chain.matchers {
			if got, ok := m(lines, rec, cfg); ok {
				rec.Set(chain.name, got.value, got.conf, got.line)
				break
			}
		}
	}

	found := 0
	for _, name := range form.AllFields {
		if !rec[name].IsMissing() {
			found++
		}
	}
	slog.Debug("extraction complete", "fields_found", found, "lines", len(lines))
	return rec
}

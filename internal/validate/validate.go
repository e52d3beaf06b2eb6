// Package validate checks an extracted record against the field schema and
// the configured enum lists. Validation is a pure function: same record and
// config in, same report out, no side effects.
package validate

import (
	"time"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/extract"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

// Status classifies one field of a validated record.
type Status string

const (
	OK          Status = "ok"
	Missing     Status = "missing"
	InvalidEnum Status = "invalid-enum-value"
	Malformed   Status = "malformed"
)

// Advisory reports whether a status should warn but not block finalize.
func (s Status) Advisory() bool {
	return s == InvalidEnum || s == Malformed
}

// Report maps every field to its validation status. Reports are regenerated
// after each edit and never persisted.
type Report map[form.FieldName]Status

// date sanity window: school years cross calendar years, so the past bound
// is generous; dates past next year are suspect
const (
	maxYearsPast   = 3
	maxYearsFuture = 1
)

// Validate produces a report for rec. now anchors the date sanity window.
func Validate(rec form.Record, cfg *config.Config, now time.Time) Report {
	report := make(Report, len(form.AllFields))
	for _, name := range form.AllFields {
		report[name] = fieldStatus(name, rec[name], cfg, now)
	}
	return report
}

func fieldStatus(name form.FieldName, f form.Field, cfg *config.Config, now time.Time) Status {
	// an enum field is ok only when its value is a list member, so an
	// empty value is invalid-enum-value, not ok or missing
	if allowed := extract.AllowedValues(name, cfg); allowed != nil {
		if _, ok := exactMember(f.Value, allowed); !ok {
			return InvalidEnum
		}
		return OK
	}

	if f.IsMissing() {
		if required(name) {
			return Missing
		}
		return OK
	}

	switch name {
	case form.Amount:
		cents, err := form.ParseCents(f.Value)
		if err != nil || cents <= 0 {
			return Malformed
		}
	case form.Date:
		d, err := form.ParseDate(f.Value)
		if err != nil {
			return Malformed
		}
		if d.Before(now.AddDate(-maxYearsPast, 0, 0)) || d.After(now.AddDate(maxYearsFuture, 0, 0)) {
			return Malformed
		}
	}
	return OK
}

// BlocksFinalize reports whether the record may not be finalized yet. Only
// missing required fields block; invalid enum values and malformed dates are
// advisory, the reviewer is the final authority.
func (r Report) BlocksFinalize() bool {
	for _, name := range form.RequiredFields {
		if r[name] == Missing {
			return true
		}
	}
	return false
}

func required(name form.FieldName) bool {
	for _, n := range form.RequiredFields {
		if n == name {
			return true
		}
	}
	return false
}

// exactMember checks case-insensitive membership without the prefix and
// substring leniency extraction applies; by validation time the value must
// be the canonical list entry.
func exactMember(v string, allowed []string) (string, bool) {
	return extract.ResolveEnumExact(v, allowed)
}

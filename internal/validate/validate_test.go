package validate

import (
	"reflect"
	"testing"
	"time"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/form"
)

var testNow = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func completeRecord() form.Record {
	rec := form.NewRecord()
	rec.Set(form.Requestor, "Jane Doe", form.Matched, 0)
	rec.Set(form.Date, "2025-03-04", form.Matched, 1)
	rec.Set(form.Amount, "45.00", form.Matched, 2)
	return rec
}

func TestValidateCompleteRecord(t *testing.T) {
	rec := completeRecord()
	rec.Set(form.PaymentType, "Check", form.Matched, 4)
	report := Validate(rec, config.Default(), testNow)
	if len(report) != len(form.AllFields) {
		t.Fatalf("report covers %d fields, want %d", len(report), len(form.AllFields))
	}
	for _, name := range form.AllFields {
		if report[name] != OK {
			t.Errorf("%s = %s, want ok", name, report[name])
		}
	}
	if report.BlocksFinalize() {
		t.Error("complete record should finalize")
	}
}

func TestValidateMissingRequiredBlocks(t *testing.T) {
	for _, name := range form.RequiredFields {
		rec := completeRecord()
		rec.Set(name, "", form.Missing, form.NoSourceLine)
		report := Validate(rec, config.Default(), testNow)
		if report[name] != Missing {
			t.Errorf("%s = %s, want missing", name, report[name])
		}
		if !report.BlocksFinalize() {
			t.Errorf("missing %s should block finalize", name)
		}
	}
}

func TestValidateOptionalMissingDoesNotBlock(t *testing.T) {
	rec := completeRecord()
	report := Validate(rec, config.Default(), testNow)
	if report[form.Event] != OK {
		t.Errorf("missing optional Event = %s, want ok", report[form.Event])
	}
	if report.BlocksFinalize() {
		t.Error("missing optional fields should not block finalize")
	}
}

func TestValidateMissingEnumIsInvalid(t *testing.T) {
	// an ok enum status must mean list membership, and "" is never a member
	rec := completeRecord()
	report := Validate(rec, config.Default(), testNow)
	if report[form.PaymentType] != InvalidEnum {
		t.Errorf("missing PaymentType = %s, want invalid-enum-value", report[form.PaymentType])
	}
	if report.BlocksFinalize() {
		t.Error("enum problems are advisory, must not block")
	}
}

func TestValidateEnumMembership(t *testing.T) {
	cfg := config.Default() // payment types Check, Debit, Amazon

	tests := []struct {
		name  string
		value string
		want  Status
	}{
		{name: "canonical value", value: "Check", want: OK},
		{name: "case insensitive", value: "check", want: OK},
		{name: "not in list", value: "Venmo", want: InvalidEnum},
		{name: "prefix not enough at validation time", value: "Che", want: InvalidEnum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			rec.Set(form.PaymentType, tt.value, form.Inferred, 4)
			report := Validate(rec, cfg, testNow)
			if report[form.PaymentType] != tt.want {
				t.Errorf("PaymentType %q = %s, want %s", tt.value, report[form.PaymentType], tt.want)
			}
			if report.BlocksFinalize() {
				t.Error("enum problems are advisory, must not block")
			}
		})
	}
}

func TestValidateUnconfiguredEnumIsFreeText(t *testing.T) {
	rec := completeRecord()
	rec.Set(form.BudgetCategory, "anything at all", form.Inferred, 5)
	report := Validate(rec, config.Default(), testNow)
	if report[form.BudgetCategory] != OK {
		t.Errorf("unconfigured enum = %s, want ok", report[form.BudgetCategory])
	}
}

func TestValidateMalformed(t *testing.T) {
	tests := []struct {
		name  string
		field form.FieldName
		value string
	}{
		{name: "negative amount", field: form.Amount, value: "-5.00"},
		{name: "unparseable amount", field: form.Amount, value: "lots"},
		{name: "unparseable date", field: form.Date, value: "sometime in March"},
		{name: "date too far past", field: form.Date, value: "2019-01-01"},
		{name: "date too far future", field: form.Date, value: "2027-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			rec.Set(tt.field, tt.value, form.Matched, 1)
			report := Validate(rec, config.Default(), testNow)
			if report[tt.field] != Malformed {
				t.Errorf("%s %q = %s, want malformed", tt.field, tt.value, report[tt.field])
			}
			if !report[tt.field].Advisory() {
				t.Error("malformed must be advisory")
			}
			if report.BlocksFinalize() {
				t.Error("malformed values must not block finalize")
			}
		})
	}
}

func TestValidateIdempotent(t *testing.T) {
	rec := completeRecord()
	rec.Set(form.PaymentType, "Venmo", form.Inferred, 4)
	first := Validate(rec, config.Default(), testNow)
	second := Validate(rec, config.Default(), testNow)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation not idempotent: %v vs %v", first, second)
	}
}

package pipeline

import (
	"context"
	"testing"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/email"
	"github.com/mattborgard/reimburse-parser/internal/form"
	"github.com/mattborgard/reimburse-parser/internal/validate"
)

// declinePrompter answers no to every confirmation.
type declinePrompter struct {
	said []string
}

func (p *declinePrompter) ShowRecord(form.Record, validate.Report) {}
func (p *declinePrompter) ShowRaw(string)                          {}
func (p *declinePrompter) Prompt(string) (string, error)           { return "", nil }
func (p *declinePrompter) Say(format string, args ...any)          { p.said = append(p.said, format) }
func (p *declinePrompter) Confirm(string, bool) bool               { return false }

func TestPublishDeclinedWritesNothing(t *testing.T) {
	p := &Processor{cfg: config.Default(), prompter: &declinePrompter{}}

	rec := form.NewRecord()
	rec.Set(form.Requestor, "Jane Doe", form.Matched, 0)
	rec.Set(form.Amount, "45.00", form.Matched, 1)

	// declining the confirmation must return cleanly before any client is
	// built; reaching the sheets client would fail on the empty config
	if err := p.publish(context.Background(), rec, &email.Message{}); err != nil {
		t.Errorf("declined publish should be a no-op, got %v", err)
	}
}

func TestSeedFromSender(t *testing.T) {
	p := &Processor{}

	t.Run("fills missing fields as inferred", func(t *testing.T) {
		rec := form.NewRecord()
		msg := &email.Message{SenderName: "Jane Doe", SenderEmail: "Jane.Doe@Example.com"}
		p.seedFromSender(rec, msg)

		if f := rec[form.Email]; f.Value != "jane.doe@example.com" || f.Confidence != form.Inferred {
			t.Errorf("Email = %+v", f)
		}
		if f := rec[form.Requestor]; f.Value != "Jane Doe" || f.Confidence != form.Inferred {
			t.Errorf("Requestor = %+v", f)
		}
	})

	t.Run("never overwrites extracted values", func(t *testing.T) {
		rec := form.NewRecord()
		rec.Set(form.Requestor, "Sam Smith", form.Matched, 1)
		rec.Set(form.Email, "sam@example.com", form.Matched, 2)
		msg := &email.Message{SenderName: "Jane Doe", SenderEmail: "jane@example.com"}
		p.seedFromSender(rec, msg)

		if rec[form.Requestor].Value != "Sam Smith" || rec[form.Email].Value != "sam@example.com" {
			t.Errorf("sender metadata overwrote form values: %+v", rec)
		}
	})

	t.Run("empty metadata leaves fields missing", func(t *testing.T) {
		rec := form.NewRecord()
		p.seedFromSender(rec, &email.Message{})
		if !rec[form.Requestor].IsMissing() || !rec[form.Email].IsMissing() {
			t.Errorf("empty metadata should not fill anything: %+v", rec)
		}
	})
}

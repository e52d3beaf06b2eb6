// Package review drives the human-in-the-loop correction loop over an
// extracted record. The loop is an explicit state machine, decoupled from
// the console, so scripted prompters can exercise it in tests.
package review

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/anggasct/fluo"

	"github.com/mattborgard/reimburse-parser/internal/config"
	"github.com/mattborgard/reimburse-parser/internal/extract"
	"github.com/mattborgard/reimburse-parser/internal/form"
	"github.com/mattborgard/reimburse-parser/internal/validate"
)

// session states
const (
	statePresenting   = "presenting"
	stateEditing      = "editing"
	stateRevalidating = "revalidating"
	stateFinalized    = "finalized"
	stateAborted      = "aborted"
)

// session events
const (
	eventSelect      = "SELECT_FIELD"
	eventFinalize    = "FINALIZE"
	eventAbort       = "ABORT"
	eventApply       = "APPLY"
	eventRevalidated = "REVALIDATED"
)

// Prompter is the session's only I/O channel.
type Prompter interface {
	ShowRecord(rec form.Record, report validate.Report)
	ShowRaw(text string)
	// Prompt reads one line of user input. io.EOF aborts the session.
	Prompt(label string) (string, error)
	Say(format string, args ...any)
	// Confirm asks a yes/no question, defaulting on a blank answer.
	Confirm(prompt string, def bool) bool
}

// Outcome is what survives a terminated session. An aborted session leaves
// Finalized false and Record nil.
type Outcome struct {
	Finalized bool
	Record    form.Record
}

// Session owns one record for its lifetime. It is the record's sole mutator
// and is not re-entrant: call Run once.
type Session struct {
	cfg      *config.Config
	prompter Prompter
	now      func() time.Time

	rec     form.Record
	report  validate.Report
	rawText string

	machine fluo.Machine
	editing form.FieldName
}

// NewSession copies rec so the caller's extraction result stays untouched.
// rawText is the combined OCR text, shown on request during review.
func NewSession(rec form.Record, rawText string, cfg *config.Config, p Prompter) (*Session, error) {
	s := &Session{
		cfg:      cfg,
		prompter: p,
		now:      time.Now,
		rec:      rec.Clone(),
		rawText:  rawText,
	}
	s.report = validate.Validate(s.rec, cfg, s.now())

	def := fluo.NewMachine().
		State(statePresenting).Initial().
		To(stateEditing).On(eventSelect).Do(s.rememberField).
		To(stateFinalized).On(eventFinalize).When(s.canFinalize).
		To(stateAborted).On(eventAbort).
		State(stateEditing).
		To(stateRevalidating).On(eventApply).
		To(statePresenting).On(eventRevalidated). // no-op edit skips revalidation
		State(stateRevalidating).
		To(statePresenting).On(eventRevalidated).
		State(stateFinalized).Final().
		State(stateAborted).Final().
		Build()

	s.machine = def.CreateInstance()
	if err := s.machine.Start(); err != nil {
		return nil, fmt.Errorf("start review session: %w", err)
	}
	return s, nil
}

func (s *Session) rememberField(ctx fluo.Context) error {
	name, ok := ctx.GetEventData().(form.FieldName)
	if !ok {
		return fmt.Errorf("select event without a field name")
	}
	s.editing = name
	return nil
}

func (s *Session) canFinalize(fluo.Context) bool {
	return !s.report.BlocksFinalize()
}

// Run loops the state machine until the session terminates. Prompter EOF and
// context cancellation both abort.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		var err error
		switch s.machine.CurrentState() {
		case statePresenting:
			err = s.present(ctx)
		case stateEditing:
			err = s.edit(ctx)
		case stateRevalidating:
			s.report = validate.Validate(s.rec, s.cfg, s.now())
			s.machine.HandleEventWithContext(ctx, eventRevalidated, nil)
		case stateFinalized:
			slog.Info("record finalized", "requestor", s.rec[form.Requestor].Value)
			return Outcome{Finalized: true, Record: s.rec}, nil
		case stateAborted:
			slog.Info("review aborted, record discarded")
			return Outcome{}, nil
		default:
			return Outcome{}, fmt.Errorf("unexpected session state %q", s.machine.CurrentState())
		}
		if err == io.EOF {
			s.machine.HandleEventWithContext(ctx, eventAbort, nil)
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
	}
}

// present shows the record and handles one command: finalize, abort, raw, or
// a field name to edit.
func (s *Session) present(ctx context.Context) error {
	s.prompter.ShowRecord(s.rec, s.report)
	input, err := s.prompter.Prompt("Edit a field, 'ok' to finalize, 'raw', or 'quit'")
	if err != nil {
		return err
	}

	switch cmd := strings.ToLower(strings.TrimSpace(input)); cmd {
	case "", "ok", "done", "finalize":
		res := s.machine.HandleEventWithContext(ctx, eventFinalize, nil)
		if !res.StateChanged {
			s.prompter.Say("Cannot finalize: required fields are still missing.")
		}
	case "quit", "abort":
		s.machine.HandleEventWithContext(ctx, eventAbort, nil)
	case "raw":
		s.prompter.ShowRaw(s.rawText)
	default:
		name, ok := fieldByName(cmd)
		if !ok {
			s.prompter.Say("Unknown field %q. Fields: %s", input, fieldNames())
			return nil
		}
		s.machine.HandleEventWithContext(ctx, eventSelect, name)
	}
	return nil
}

// edit handles one field edit to completion: it keeps re-prompting inside
// the editing state until the input parses (or the user keeps the current
// value), then applies and triggers revalidation.
func (s *Session) edit(ctx context.Context) error {
	name := s.editing
	current := s.rec[name].Value
	if current == "" {
		current = "(empty)"
	}
	s.prompter.Say("Editing %s (current: %s)", name, current)

	var changed bool
	var err error
	if allowed := extract.AllowedValues(name, s.cfg); allowed != nil {
		changed, err = s.editEnum(name, allowed)
	} else {
		changed, err = s.editFreeForm(name)
	}
	if err != nil {
		return err
	}

	if changed {
		s.machine.HandleEventWithContext(ctx, eventApply, nil)
	} else {
		s.machine.HandleEventWithContext(ctx, eventRevalidated, nil)
	}
	return nil
}

// editEnum presents the configured list as a numbered choice. Free text that
// is not a list member is rejected and re-prompted; selection is the only
// way out besides keeping the current value.
func (s *Session) editEnum(name form.FieldName, allowed []string) (bool, error) {
	for i, v := range allowed {
		s.prompter.Say("  %d. %s", i+1, v)
	}
	for {
		input, err := s.prompter.Prompt("Select by number (blank keeps current)")
		if err != nil {
			return false, err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return false, nil
		}
		if idx, err := strconv.Atoi(input); err == nil {
			if idx >= 1 && idx <= len(allowed) {
				s.rec.Set(name, allowed[idx-1], form.Matched, form.NoSourceLine)
				return true, nil
			}
			s.prompter.Say("Enter a number between 1 and %d.", len(allowed))
			continue
		}
		// typing the option name exactly also counts as selecting it
		if v, ok := extract.ResolveEnumExact(input, allowed); ok {
			s.rec.Set(name, v, form.Matched, form.NoSourceLine)
			return true, nil
		}
		s.prompter.Say("%q is not in the list; pick one of the numbered options.", input)
	}
}

// editFreeForm reads text and parses it into the field's type, re-prompting
// on parse failure. Parse failures are local and recoverable, never fatal.
func (s *Session) editFreeForm(name form.FieldName) (bool, error) {
	for {
		input, err := s.prompter.Prompt("New value (blank keeps current)")
		if err != nil {
			return false, err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return false, nil
		}

		value, perr := parseTyped(name, input)
		if perr != nil {
			s.prompter.Say("Invalid %s: %v", name, perr)
			continue
		}
		s.rec.Set(name, value, form.Matched, form.NoSourceLine)
		return true, nil
	}
}

// parseTyped canonicalizes edits for typed fields; plain string fields pass
// through untouched.
func parseTyped(name form.FieldName, input string) (string, error) {
	switch name {
	case form.Amount:
		cents, err := form.ParseCents(input)
		if err != nil {
			return "", err
		}
		return cents.String(), nil
	case form.Date:
		d, err := form.ParseDate(input)
		if err != nil {
			return "", fmt.Errorf("unrecognized date %q", input)
		}
		return d.Format(form.ISODate), nil
	}
	return input, nil
}

func fieldByName(input string) (form.FieldName, bool) {
	for _, name := range form.AllFields {
		if strings.EqualFold(string(name), input) {
			return name, true
		}
	}
	// allow the short forms people actually type
	aliases := map[string]form.FieldName{
		"teacher":  form.TeacherGrade,
		"grade":    form.TeacherGrade,
		"role":     form.RequestorRoleType,
		"type":     form.PaymentType,
		"payment":  form.PaymentType,
		"category": form.BudgetCategory,
		"item":     form.BudgetItem,
	}
	name, ok := aliases[strings.ToLower(input)]
	return name, ok
}

func fieldNames() string {
	names := make([]string, len(form.AllFields))
	for i, n := range form.AllFields {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}

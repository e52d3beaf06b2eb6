package form

import (
	"strings"
	"time"
)

// SheetRow is one row of the "Income and Expenses" sheet, columns A through
// T. Columns the parser never fills (amount paid, check number, bank
// reconciliation flags) stay blank for the treasurer to complete.
type SheetRow struct {
	ID              int64  // A
	IncomeExpense   string // B, always "Expense"
	Year            int    // C, from the form date
	Month           string // D, full month name from the form date
	DateReceived    string // E, from email metadata, not OCR
	SubmittedBy     string // F
	Grade           string // G
	Type            string // H, payment type
	BudgetCategory  string // I
	BudgetItem      string // J
	AmountSubmitted string // K
	AmountPaid      string // L
	CheckNumber     string // M
	MyPTEZ          string // N
	Bank            string // O
	Reconcile       string // P
	Report          string // Q
	AllMatsPrinted  string // R
	DoubleSigned    string // S
	Notes           string // T
}

// Values returns the row in column order for a sheet append call.
func (r SheetRow) Values() []any {
	return []any{
		r.ID, r.IncomeExpense, r.Year, r.Month, r.DateReceived,
		r.SubmittedBy, r.Grade, r.Type, r.BudgetCategory, r.BudgetItem,
		r.AmountSubmitted, r.AmountPaid, r.CheckNumber, r.MyPTEZ, r.Bank,
		r.Reconcile, r.Report, r.AllMatsPrinted, r.DoubleSigned, r.Notes,
	}
}

// BuildSheetRow maps a finalized record onto a sheet row.
func BuildSheetRow(rec Record, emailDate time.Time, id int64) SheetRow {
	row := SheetRow{
		ID:              id,
		IncomeExpense:   "Expense",
		SubmittedBy:     rec[Requestor].Value,
		Grade:           gradePart(rec[TeacherGrade].Value),
		Type:            rec[PaymentType].Value,
		BudgetCategory:  rec[BudgetCategory].Value,
		BudgetItem:      rec[BudgetItem].Value,
		AmountSubmitted: strings.TrimPrefix(rec[Amount].Value, "$"),
	}

	if d, err := ParseDate(rec[Date].Value); err == nil {
		row.Year = d.Year()
		row.Month = d.Month().String()
	}
	if !emailDate.IsZero() {
		row.DateReceived = emailDate.Format("01/02/2006")
	}
	row.Notes = buildNotes(rec)
	return row
}

// buildNotes seeds the notes column with the treasurer's follow-up reminder
// for the payment type, then appends form details and any review notes.
func buildNotes(rec Record) string {
	var parts []string
	switch strings.ToLower(rec[PaymentType].Value) {
	case "check", "cheque":
		parts = append(parts, "TODO: WRITE CHECK")
	case "amazon", "debit":
		parts = append(parts, "TODO: ORDER ON AMAZON")
	}
	if v := rec[Event].Value; v != "" {
		parts = append(parts, "Event: "+v)
	}
	if v := rec[RequestorRoleType].Value; v != "" {
		parts = append(parts, "Role: "+v)
	}
	if v := rec[Notes].Value; v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, "; ")
}

// gradePart pulls the grade portion out of a combined "Teacher / Grade"
// value. The sheet tracks grade alone.
func gradePart(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// ArchiveFolder names the Drive folder a finalized record's attachments are
// filed under: the form date's month name, uppercased.
func ArchiveFolder(rec Record) string {
	d, err := ParseDate(rec[Date].Value)
	if err != nil {
		return "UNDATED"
	}
	return strings.ToUpper(d.Month().String())
}

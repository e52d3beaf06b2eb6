package form

// FieldName identifies one of the fields extracted from a reimbursement form.
type FieldName string

const (
	Requestor         FieldName = "Requestor"
	Date              FieldName = "Date"
	Amount            FieldName = "Amount"
	Email             FieldName = "Email"
	TeacherGrade      FieldName = "Teacher/Grade"
	RequestorRoleType FieldName = "Role Type"
	Event             FieldName = "Event"
	PaymentType       FieldName = "Payment Type"
	BudgetCategory    FieldName = "Budget Category"
	BudgetItem        FieldName = "Budget Item"
	Notes             FieldName = "Notes"
)

// AllFields lists every field in display order. A Record always carries
// exactly one entry per name in this list.
var AllFields = []FieldName{
	Requestor,
	Date,
	Amount,
	Email,
	TeacherGrade,
	RequestorRoleType,
	Event,
	PaymentType,
	BudgetCategory,
	BudgetItem,
	Notes,
}

// RequiredFields must be present before a record can be finalized.
var RequiredFields = []FieldName{Requestor, Date, Amount}

// EnumFields take their values from externally configured lists.
var EnumFields = []FieldName{PaymentType, BudgetCategory, BudgetItem}

// Confidence records how a field value was obtained.
type Confidence string

const (
	// Matched means an exact pattern or label match produced the value.
	Matched Confidence = "matched"
	// Inferred means a fallback heuristic produced the value.
	Inferred Confidence = "inferred"
	// Missing means no matcher produced a value.
	Missing Confidence = "missing"
)

// NoSourceLine marks a field with no originating line in the OCR text.
const NoSourceLine = -1

// Field holds one extracted value in canonical text form. Amount values are
// stored as exact fixed-point text ("45.67"), dates as ISO ("2025-01-15").
// Invariant: Value is empty iff Confidence is Missing.
type Field struct {
	Value      string
	Confidence Confidence
	SourceLine int
}

// IsMissing reports whether the field has no value.
func (f Field) IsMissing() bool {
	return f.Confidence == Missing
}

// Record maps every field name to its extracted field. Use NewRecord so the
// totality invariant holds: all eleven fields present, missing ones tagged.
type Record map[FieldName]Field

// NewRecord returns a record with every field present and missing.
func NewRecord() Record {
	r := make(Record, len(AllFields))
	for _, name := range AllFields {
		r[name] = Field{Confidence: Missing, SourceLine: NoSourceLine}
	}
	return r
}

// Set stores a value for name. An empty value resets the field to missing,
// keeping the value/confidence invariant intact.
func (r Record) Set(name FieldName, value string, conf Confidence, line int) {
	if value == "" {
		r[name] = Field{Confidence: Missing, SourceLine: NoSourceLine}
		return
	}
	r[name] = Field{Value: value, Confidence: conf, SourceLine: line}
}

// Clone returns an independent copy. Review sessions edit the clone so the
// original extraction result is never aliased.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

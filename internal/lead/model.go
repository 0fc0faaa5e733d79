package lead

import "strings"

// Record holds the lead data captured during a single conversation
// session. It is created empty at session start, mutated only through
// the Tracker, and discarded when the session ends.
type Record struct {
	Name    string
	Company string
	Intent  string
	Email   string
	Phone   string

	// EmailVerified is meaningful only while Email is non-empty. It is
	// reset to false whenever Email changes.
	EmailVerified bool

	// Submitted flips false->true exactly once, after the CRM has
	// acknowledged a submission. It is never reset.
	Submitted bool

	// Notes are free-text annotations appended during the session and
	// joined into the submission summary.
	Notes []string
}

// NewRecord returns an empty per-session record.
func NewRecord() *Record {
	return &Record{}
}

// HasRequiredFields reports whether name, company, and intent are all set.
func (r *Record) HasRequiredFields() bool {
	return r.Name != "" && r.Company != "" && r.Intent != ""
}

// MissingFields lists which of the required fields are still empty.
func (r *Record) MissingFields() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Company == "" {
		missing = append(missing, "company")
	}
	if r.Intent == "" {
		missing = append(missing, "intent")
	}
	return missing
}

// HasContact reports whether at least one of email or phone is set.
func (r *Record) HasContact() bool {
	return r.Email != "" || r.Phone != ""
}

// ExitGate reports why the record does not qualify for the automatic
// end-of-session submission, or nil when it does. Checked in order:
// an accepted submission wins over any later state.
func (r *Record) ExitGate() error {
	if r.Submitted {
		return ErrAlreadySubmitted
	}
	if !r.HasRequiredFields() {
		return ErrMissingFields
	}
	if r.Email != "" && !r.EmailVerified {
		return ErrUnverifiedEmail
	}
	return nil
}

// JoinNotes joins the conversation notes into a single summary line.
func (r *Record) JoinNotes() string {
	return strings.Join(r.Notes, "; ")
}

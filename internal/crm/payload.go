package crm

import "time"

// NotProvided is the sentinel written in place of absent email/phone.
const NotProvided = "Not provided"

// DefaultSummary is written when no conversation summary was captured.
const DefaultSummary = "No summary provided"

// Payload is the JSON body POSTed to the CRM webhook.
type Payload struct {
	Source    string `json:"source"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Intent    string `json:"intent"`
	Summary   string `json:"summary"`
	Timestamp string `json:"timestamp"`
}

// NewPayload builds a submission payload, substituting the sentinel
// values for absent contact details and summary, and stamping the
// submission time in UTC ISO-8601 form with a trailing "Z".
func NewPayload(source, name, company, intent, email, phone, summary string) Payload {
	if email == "" {
		email = NotProvided
	}
	if phone == "" {
		phone = NotProvided
	}
	if summary == "" {
		summary = DefaultSummary
	}
	return Payload{
		Source:    source,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Company:   company,
		Intent:    intent,
		Summary:   summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

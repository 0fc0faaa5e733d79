// Package lead tracks the lead fields captured during one conversation
// session and decides whether and what to submit to the CRM.
package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synctrack/sylvia/internal/crm"
	"github.com/synctrack/sylvia/internal/observability/metrics"
	"github.com/synctrack/sylvia/pkg/logging"
)

// End states reported by Finalize.
const (
	EndStateSubmitted        = "submitted"
	EndStateFailed           = "crm_failed"
	EndStateAlreadySubmitted = "already_submitted"
	EndStateMissingFields    = "missing_fields"
	EndStateUnverifiedEmail  = "unverified_email"
)

// Submission trigger labels.
const (
	TriggerExplicit   = "explicit"
	TriggerSessionEnd = "session_end"
)

// Notifier is told about leads the CRM has accepted.
type Notifier interface {
	LeadCaptured(ctx context.Context, p crm.Payload)
}

// TrackerConfig carries the per-deployment knobs of a Tracker.
type TrackerConfig struct {
	// SourceTag is written into the payload "source" field.
	SourceTag string
	// CompanyName is the business the agent speaks for.
	CompanyName string
	// FallbackContact is read to leads who left no email or phone.
	FallbackContact string
	// Notifier and Metrics are optional.
	Notifier Notifier
	Metrics  *metrics.AgentMetrics
}

// Tracker owns one session's Record. All mutations go through it; the
// surrounding runtime invokes one operation at a time, so no locking
// is needed on the record itself.
type Tracker struct {
	record          *Record
	crm             crm.Submitter
	notifier        Notifier
	metrics         *metrics.AgentMetrics
	logger          *logging.Logger
	sourceTag       string
	companyName     string
	fallbackContact string
}

// NewTracker creates a tracker with an empty record.
func NewTracker(submitter crm.Submitter, cfg TrackerConfig, logger *logging.Logger) *Tracker {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SourceTag == "" {
		cfg.SourceTag = "voice"
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Synctrack"
	}
	return &Tracker{
		record:          NewRecord(),
		crm:             submitter,
		notifier:        cfg.Notifier,
		metrics:         cfg.Metrics,
		logger:          logger,
		sourceTag:       cfg.SourceTag,
		companyName:     cfg.CompanyName,
		fallbackContact: cfg.FallbackContact,
	}
}

// Record exposes the underlying record for inspection.
func (t *Tracker) Record() *Record {
	return t.record
}

// SetName stores the visitor's name and returns a spoken acknowledgment.
func (t *Tracker) SetName(name string) string {
	t.record.Name = name
	t.logger.Debug("lead: name captured", "name", name)
	return fmt.Sprintf("Great to meet you, %s!", name)
}

// SetCompany stores the visitor's company.
func (t *Tracker) SetCompany(company string) string {
	t.record.Company = company
	t.logger.Debug("lead: company captured", "company", company)
	return fmt.Sprintf("Got it — %s. What's keeping the team busiest right now?", company)
}

// SetIntent stores the visitor's main interest or pain point.
func (t *Tracker) SetIntent(intent string) string {
	t.record.Intent = intent
	t.logger.Debug("lead: intent captured", "intent", intent)
	return fmt.Sprintf("Noted — %s is exactly the kind of thing we help with.", intent)
}

// SetPhone stores the visitor's phone number. No verification flow.
func (t *Tracker) SetPhone(phone string) string {
	t.record.Phone = phone
	t.logger.Debug("lead: phone captured")
	return "Perfect, I've got your number down."
}

// SetEmail stores the raw address, resets verification, and returns a
// read-back prompt embedding the spelled-out address.
func (t *Tracker) SetEmail(email string) string {
	t.record.Email = email
	t.record.EmailVerified = false
	t.logger.Debug("lead: email captured, awaiting confirmation")
	return fmt.Sprintf("Let me read that back to you: %s. Did I get that right?", SpellOut(email))
}

// ConfirmEmail records the visitor's answer to the read-back prompt.
// The stored email is kept either way.
func (t *Tracker) ConfirmEmail(isCorrect bool) string {
	if isCorrect {
		t.record.EmailVerified = true
		t.logger.Debug("lead: email verified")
		return "Great, thanks for confirming!"
	}
	t.record.EmailVerified = false
	t.logger.Debug("lead: email rejected, asking for respell")
	return "No problem — could you spell it out for me one more time?"
}

// AddNote appends a free-text annotation to the conversation notes.
func (t *Tracker) AddNote(note string) {
	if note = strings.TrimSpace(note); note == "" {
		return
	}
	t.record.Notes = append(t.record.Notes, note)
}

// SubmitLead sends the lead to the CRM on explicit request. It refuses
// with a remediation message when neither email nor phone was given;
// any webhook failure is logged and answered with a reassurance, never
// surfaced as an error to the visitor.
func (t *Tracker) SubmitLead(ctx context.Context, name, company, intent, email, phone, summary string) string {
	if email == "" && phone == "" {
		t.logger.Warn("lead: submit requested without contact details", "error", ErrMissingContact)
		return "I'd love to pass this along, but I need either an email address or a phone number so our team can reach you. Which works best for you?"
	}

	t.record.Name = name
	t.record.Company = company
	t.record.Intent = intent
	if email != "" && email != t.record.Email {
		t.record.Email = email
		t.record.EmailVerified = false
	}
	if phone != "" {
		t.record.Phone = phone
	}
	if summary == "" {
		summary = t.record.JoinNotes()
	}

	payload := crm.NewPayload(t.sourceTag, name, company, intent, email, phone, summary)
	res := t.send(ctx, payload, TriggerExplicit)
	if res.Accepted {
		return fmt.Sprintf("Perfect! I've sent your information to our team. Someone from %s will follow up soon to show you exactly how we can help %s with %s. Thanks for chatting with me today!",
			t.companyName, company, intent)
	}
	return fmt.Sprintf("I've captured your information and will make sure our team reaches out to you. Thanks for your interest in %s!", t.companyName)
}

// Finalize runs the end-of-session submission decision exactly as the
// session tears down. It never blocks teardown on a slow CRM beyond
// the client timeout and never reports failure beyond the log.
func (t *Tracker) Finalize(ctx context.Context) string {
	switch err := t.record.ExitGate(); {
	case errors.Is(err, ErrAlreadySubmitted):
		t.logger.Debug("lead: already submitted, skipping end-of-session send")
		return EndStateAlreadySubmitted
	case errors.Is(err, ErrMissingFields):
		t.logger.Info("lead: session ended without a submittable lead",
			"missing", strings.Join(t.record.MissingFields(), ","),
		)
		return EndStateMissingFields
	case errors.Is(err, ErrUnverifiedEmail):
		t.logger.Info("lead: email never verified, skipping automatic submission")
		return EndStateUnverifiedEmail
	}

	summary := t.record.JoinNotes()
	switch {
	case t.record.Email == "" && t.record.Phone == "":
		summary = prependNote(summary, fmt.Sprintf("No contact details captured; direct this lead to %s.", t.fallbackContact))
	case t.record.Phone != "" && t.record.Email == "":
		summary = prependNote(summary, "Phone contact only; no email captured.")
	}

	payload := crm.NewPayload(t.sourceTag, t.record.Name, t.record.Company, t.record.Intent,
		t.record.Email, t.record.Phone, summary)
	res := t.send(ctx, payload, TriggerSessionEnd)
	if res.Accepted {
		t.logger.Info("lead: end-of-session submission accepted",
			"name", t.record.Name,
			"company", t.record.Company,
		)
		return EndStateSubmitted
	}
	return EndStateFailed
}

// send performs the single submission attempt shared by both triggers.
func (t *Tracker) send(ctx context.Context, p crm.Payload, trigger string) crm.Result {
	start := time.Now()
	res := t.crm.Submit(ctx, p)
	t.metrics.ObserveSubmissionLatency(trigger, time.Since(start).Seconds())

	if res.Accepted {
		t.record.Submitted = true
		t.metrics.ObserveSubmission("accepted", trigger)
		if t.notifier != nil {
			t.notifier.LeadCaptured(ctx, p)
		}
		return res
	}

	t.metrics.ObserveSubmission("failed", trigger)
	t.logger.Error("lead: crm submission failed",
		"trigger", trigger,
		"reason", res.Reason(),
	)
	return res
}

func prependNote(summary, note string) string {
	if summary == "" {
		return note
	}
	return note + " " + summary
}

// Package notify emails the sales team when the CRM accepts a lead.
package notify

import (
	"context"
	"fmt"

	"github.com/synctrack/sylvia/internal/crm"
	"github.com/synctrack/sylvia/pkg/logging"
)

// Service sends an internal heads-up email for each captured lead.
// Failures are logged and swallowed; the visitor never sees them.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. Returns nil when there is
// nothing to send with or nobody to send to, so callers can wire it
// unconditionally.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if email == nil || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		recipients: recipients,
		logger:     logger,
	}
}

// LeadCaptured emails a summary of the accepted lead to every
// configured recipient.
func (s *Service) LeadCaptured(ctx context.Context, p crm.Payload) {
	if s == nil {
		return
	}

	subject := fmt.Sprintf("New voice lead - %s (%s)", p.Name, p.Company)
	body := fmt.Sprintf(`Sylvia just captured a new lead!

Name: %s
Company: %s
Interest: %s
Email: %s
Phone: %s
Summary: %s
Captured: %s

— Sylvia`, p.Name, p.Company, p.Intent, p.Email, p.Phone, p.Summary, p.Timestamp)

	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send lead email", "error", err, "to", recipient)
			continue
		}
		s.logger.Info("notify: lead email sent", "to", recipient, "lead", p.Name)
	}
}

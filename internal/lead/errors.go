package lead

import "errors"

var (
	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrMissingFields is returned when name, company, or intent is missing
	ErrMissingFields = errors.New("name, company, and intent are required")

	// ErrUnverifiedEmail is returned when an email is set but was never confirmed
	ErrUnverifiedEmail = errors.New("email has not been verified")

	// ErrAlreadySubmitted is returned when the lead was already sent to the CRM
	ErrAlreadySubmitted = errors.New("lead already submitted")
)

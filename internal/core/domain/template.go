package domain

import "time"

// EmailTemplate is a stored transactional email, looked up by its unique
// code. Placeholders in Message use the #name# token syntax.
type EmailTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	Subject   string    `json:"subject"`
	FromName  string    `json:"from_name"`
	FromEmail string    `json:"from_email"`
	CC        string    `json:"cc,omitempty"`
	BCC       string    `json:"bcc,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateVar is one named substitution for an email template. Variables
// are applied in order; later values may themselves contain tokens that
// are not re-expanded.
type TemplateVar struct {
	Item  string
	Value string
}

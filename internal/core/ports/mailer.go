package ports

import (
	"context"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// MailJob is one templated email to deliver.
type MailJob struct {
	To           string
	TemplateCode string
	Vars         []domain.TemplateVar
}

// Mailer renders a stored template and delivers the message. An unknown
// template code fails with domain.ErrTemplateNotFound.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailQueue accepts jobs for asynchronous delivery. Submission never
// blocks the caller on delivery; failures are logged and counted, never
// surfaced and never retried.
type MailQueue interface {
	Enqueue(job MailJob)
}

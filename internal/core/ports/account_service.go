package ports

import (
	"context"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// CreateAccountInput is the validated payload for admin user creation.
// Password is optional; when set together with StatusActive the account
// receives the hash immediately and the temporary password is mailed.
type CreateAccountInput struct {
	FirstName     string
	LastName      string
	Email         string
	Mobile        string
	Gender        string
	Status        domain.Status
	Password      string
	IsPasswordSet bool
	CreatedBy     string
}

// UpdateAccountInput is the validated payload for admin user updates.
type UpdateAccountInput struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Gender    string
	Status    domain.Status
}

// AccountAdminService implements administrative account management for
// the admin user collection.
type AccountAdminService interface {
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, input UpdateAccountInput) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, q ListQuery) (*Page, error)
	// Approve processes ids sequentially in input order and returns the
	// number of accounts successfully approved. Per-account failures are
	// logged and skipped; they do not roll back prior successes.
	Approve(ctx context.Context, ids []string) (int, error)
	ResendToken(ctx context.Context, ids []string) (int, error)
	// ChangeStatus applies a bulk transition. domain.StatusDelete
	// soft-deletes without notification; activating an account that has
	// no password re-routes it into the Pending invite path instead.
	ChangeStatus(ctx context.Context, ids []string, status string) error
	ResetDefaultPassword(ctx context.Context, id string) error
}

// RegisterCustomerInput is the validated payload for public customer
// registration.
type RegisterCustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Password  string
}

// CustomerService implements the public web registration flow.
type CustomerService interface {
	Register(ctx context.Context, input RegisterCustomerInput) (*domain.Account, error)
}

// TemplateService manages the stored system email templates.
type TemplateService interface {
	Create(ctx context.Context, tpl *domain.EmailTemplate) (*domain.EmailTemplate, error)
	Update(ctx context.Context, tpl *domain.EmailTemplate) error
	GetByID(ctx context.Context, id string) (*domain.EmailTemplate, error)
	List(ctx context.Context, q TemplateListQuery) (*TemplatePage, error)
}

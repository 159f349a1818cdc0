package ports

import (
	"context"
	"time"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// ListQuery captures filter, sort and paging parameters for account listings.
type ListQuery struct {
	Keyword     string
	Name        string
	Status      domain.Status
	CreatedFrom time.Time
	CreatedTo   time.Time
	SortBy      string
	SortDesc    bool
	Page        int
	Limit       int
}

// Page is the uniform paginated result shape.
type Page struct {
	Docs    []*domain.Account `json:"docs"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	HasNext bool              `json:"next"`
}

// StatusUpdate describes the fields applied by a bulk status change.
// Nil fields are left untouched.
type StatusUpdate struct {
	Status  *domain.Status
	Deleted *bool
}

// AccountRepository defines the persistence contract for one account
// collection (admin users or customers). Finders exclude soft-deleted
// records; secret fields (password hash, reuse history) are only loaded
// by the WithSecrets variants.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string, includeSecrets bool) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByIDWithSecrets(ctx context.Context, id string) (*domain.Account, error)
	FindByIDAndCode(ctx context.Context, id, code string, statuses []domain.Status) (*domain.Account, error)
	// FindByIDs returns the matched accounts in the order of the input ids.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	Create(ctx context.Context, acct *domain.Account) (*domain.Account, error)
	// Update persists the full account. An account read without secrets
	// must not flow back through Update unless the caller rewrites the
	// credential fields itself.
	Update(ctx context.Context, acct *domain.Account) error
	// SetResetCode stores a fresh verification code and expiry with a
	// targeted write. Credential fields are never touched, so callers may
	// issue codes from a secretless read.
	SetResetCode(ctx context.Context, id, code string, expires time.Time) error
	// UpdateStatusMany applies a single multi-document update and returns
	// the number of matched accounts.
	UpdateStatusMany(ctx context.Context, ids []string, update StatusUpdate) (int64, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, q ListQuery) (*Page, error)
}

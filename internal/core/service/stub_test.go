package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// stubRepo is an in-memory ports.AccountRepository for service tests.
type stubRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int
	countErr error
}

func newStubRepo(accounts ...*domain.Account) *stubRepo {
	r := &stubRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		cp := *a
		r.accounts[a.ID] = &cp
	}
	return r
}

func (r *stubRepo) get(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

// redact mirrors the secret-field projection of the real store: reads
// without secrets never carry the hash or the reuse history.
func redact(a *domain.Account) *domain.Account {
	a.PasswordHash = ""
	a.OldPasswords = nil
	return a
}

func (r *stubRepo) FindByEmail(_ context.Context, email string, includeSecrets bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email && !a.Deleted {
			cp := *a
			if !includeSecrets {
				return redact(&cp), nil
			}
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a := r.get(id); a != nil && !a.Deleted {
		return redact(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) FindByIDWithSecrets(_ context.Context, id string) (*domain.Account, error) {
	if a := r.get(id); a != nil && !a.Deleted {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubRepo) FindByIDAndCode(_ context.Context, id, code string, statuses []domain.Status) (*domain.Account, error) {
	a := r.get(id)
	if a == nil || a.Deleted || a.ResetVerificationCode == "" || a.ResetVerificationCode != code {
		return nil, domain.ErrAccountNotFound
	}
	if len(statuses) > 0 {
		ok := false
		for _, s := range statuses {
			if a.Status == s {
				ok = true
			}
		}
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
	}
	return redact(a), nil
}

func (r *stubRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a := r.get(id); a != nil && !a.Deleted {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubRepo) Create(_ context.Context, acct *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == acct.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	acct.ID = "acct-" + strconv.Itoa(r.nextID)
	cp := *acct
	r.accounts[acct.ID] = &cp
	return acct, nil
}

func (r *stubRepo) Update(_ context.Context, acct *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[acct.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	cp := *acct
	r.accounts[acct.ID] = &cp
	return nil
}

func (r *stubRepo) SetResetCode(_ context.Context, id, code string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.Deleted {
		return domain.ErrAccountNotFound
	}
	a.ResetVerificationCode = code
	a.ResetTokenExpires = expires
	return nil
}

func (r *stubRepo) UpdateStatusMany(_ context.Context, ids []string, update ports.StatusUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		a, ok := r.accounts[id]
		if !ok {
			continue
		}
		if update.Status != nil {
			a.Status = *update.Status
		}
		if update.Deleted != nil {
			a.Deleted = *update.Deleted
		}
		n++
	}
	return n, nil
}

func (r *stubRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

func (r *stubRepo) List(_ context.Context, _ ports.ListQuery) (*ports.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	page := &ports.Page{Page: 1}
	for _, a := range r.accounts {
		cp := *a
		page.Docs = append(page.Docs, &cp)
	}
	page.Total = int64(len(page.Docs))
	return page, nil
}

// stubQueue records enqueued mail jobs instead of dispatching them.
type stubQueue struct {
	mu   sync.Mutex
	jobs []ports.MailJob
}

func (q *stubQueue) Enqueue(job ports.MailJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

func (q *stubQueue) sent() []ports.MailJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ports.MailJob(nil), q.jobs...)
}

func testLinks() Links {
	return Links{
		ControlPanelURL: "https://panel.example.com",
		SiteURL:         "https://example.com",
		CompanyName:     "HubCRM",
		SetPasswordPath: "/set-password/",
		VerifyEmailPath: "/users/verify-email/",
		LogoPath:        "/assets/images/logo.png",
	}
}

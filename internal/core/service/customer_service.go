package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// CustomerService implements the public web registration flow over the
// customer collection.
type CustomerService struct {
	repo   ports.AccountRepository
	mail   ports.MailQueue
	links  Links
	now    func() time.Time
	logger zerolog.Logger
}

func NewCustomerService(repo ports.AccountRepository, mail ports.MailQueue, links Links, logger zerolog.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		mail:   mail,
		links:  links,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Register creates a Pending customer with a sequential customer code,
// a verification code with 24h expiry, and enqueues the email
// verification mail.
func (s *CustomerService) Register(ctx context.Context, input ports.RegisterCustomerInput) (*domain.Account, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	seq, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	code, expires := IssueCodeAt(now)
	acct := &domain.Account{
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		FullName:              input.FirstName + " " + input.LastName,
		Email:                 input.Email,
		Mobile:                input.Mobile,
		CustomerCode:          fmt.Sprintf("HB-%04d", seq+1),
		Status:                domain.StatusPending,
		PasswordHash:          hash,
		OldPasswords:          []string{hash},
		ResetVerificationCode: code,
		ResetTokenExpires:     expires,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	created, err := s.repo.Create(ctx, acct)
	if err != nil {
		return nil, err
	}

	s.mail.Enqueue(ports.MailJob{
		To:           created.Email,
		TemplateCode: TemplateCustomerVerify,
		Vars:         s.links.inviteVars(created, s.links.VerifyEmailLink(code, created.ID)),
	})

	s.logger.Info().Str("account_id", created.ID).Str("customer_code", created.CustomerCode).Msg("customer registered")
	return created, nil
}

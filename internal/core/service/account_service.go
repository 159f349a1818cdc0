package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// AccountService implements administrative management of the admin user
// collection: creation with invite or temporary-password mail, profile
// updates with status re-routing, bulk approve/resend/status flows and
// paginated listing.
type AccountService struct {
	repo   ports.AccountRepository
	mail   ports.MailQueue
	links  Links
	now    func() time.Time
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, mail ports.MailQueue, links Links, logger zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		mail:   mail,
		links:  links,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create inserts a sub-admin. A requested Active status is downgraded to
// Pending: either the supplied temporary password is hashed and mailed,
// or a set-password invite is sent. Inactive accounts are created
// without credentials or code.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	now := s.now()
	acct := &domain.Account{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		FullName:  input.FirstName + " " + input.LastName,
		Email:     input.Email,
		Mobile:    input.Mobile,
		Gender:    input.Gender,
		Role:      domain.RoleSubAdmin,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Status != domain.StatusInactive {
		code, expires := IssueCodeAt(now)
		acct.ResetVerificationCode = code
		acct.ResetTokenExpires = expires
	}

	sendInvite := false
	if input.Status == domain.StatusActive {
		acct.Status = domain.StatusPending
		if input.IsPasswordSet && input.Password != "" {
			hash, err := HashPassword(input.Password)
			if err != nil {
				return nil, err
			}
			acct.PasswordHash = hash
			acct.OldPasswords = []string{hash}
		} else {
			sendInvite = true
		}
	}

	created, err := s.repo.Create(ctx, acct)
	if err != nil {
		return nil, err
	}

	if created.Status == domain.StatusPending {
		if sendInvite {
			link := s.links.SetPasswordLink(created.ResetVerificationCode, created.ID)
			s.mail.Enqueue(ports.MailJob{
				To:           created.Email,
				TemplateCode: TemplateForgotPasswordAdmin,
				Vars:         s.links.inviteVars(created, link),
			})
		} else {
			s.mail.Enqueue(ports.MailJob{
				To:           created.Email,
				TemplateCode: TemplateUserRegistration,
				Vars: append(s.links.CompanyVars(),
					domain.TemplateVar{Item: "firstName", Value: created.FirstName},
					domain.TemplateVar{Item: "lastName", Value: created.LastName},
					domain.TemplateVar{Item: "email", Value: created.Email},
					domain.TemplateVar{Item: "tmpPwd", Value: input.Password},
				),
			})
		}
	}

	s.logger.Info().Str("account_id", created.ID).Str("created_by", input.CreatedBy).Msg("admin user created")
	return created, nil
}

// Update applies profile changes. Re-activating an inactive super admin
// that never set a password re-routes it into the Pending invite path;
// a Pending account requested Active stays Pending until it redeems its
// invite.
func (s *AccountService) Update(ctx context.Context, input ports.UpdateAccountInput) (*domain.Account, error) {
	acct, err := s.repo.FindByIDWithSecrets(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	acct.FirstName = input.FirstName
	acct.LastName = input.LastName
	acct.FullName = input.FirstName + " " + input.LastName
	acct.Email = input.Email
	acct.Mobile = input.Mobile
	if input.Gender != "" {
		acct.Gender = input.Gender
	}

	switch {
	case acct.Status == domain.StatusInactive && input.Status == domain.StatusActive &&
		acct.Role == domain.RoleSuperAdmin && acct.PasswordHash == "":
		code, expires := IssueCodeAt(s.now())
		acct.Status = domain.StatusPending
		acct.ResetVerificationCode = code
		acct.ResetTokenExpires = expires
		s.mail.Enqueue(ports.MailJob{
			To:           acct.Email,
			TemplateCode: TemplateForgotPasswordAdmin,
			Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
		})
	case acct.Status == domain.StatusPending && input.Status == domain.StatusActive:
		// stays Pending
	default:
		acct.Status = input.Status
	}

	acct.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context, q ports.ListQuery) (*ports.Page, error) {
	return s.repo.List(ctx, q)
}

// Approve activates Pending accounts one at a time, in the order of the
// input id list. Only super admins are valid recipients of the approval
// mail; any other role is logged and skipped. Partial success is
// intentional: a failed account does not roll back prior ones.
func (s *AccountService) Approve(ctx context.Context, ids []string) (int, error) {
	accounts, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, acct := range accounts {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if acct.Status != domain.StatusPending {
			continue
		}
		if acct.Role != domain.RoleSuperAdmin {
			s.logger.Warn().Str("account_id", acct.ID).Str("role", acct.Role).Msg("approve skipped: invalid role")
			continue
		}

		code, expires := IssueCodeAt(s.now())
		acct.Status = domain.StatusActive
		acct.ResetVerificationCode = code
		acct.ResetTokenExpires = expires
		if err := s.repo.Update(ctx, acct); err != nil {
			s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("approve failed")
			continue
		}

		s.mail.Enqueue(ports.MailJob{
			To:           acct.Email,
			TemplateCode: TemplateUserApprove,
			Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
		})
		count++
	}

	s.logger.Info().Int("approved", count).Int("requested", len(ids)).Msg("bulk approve finished")
	return count, nil
}

// ResendToken reissues approval codes following the same sequential,
// role-gated pattern as Approve.
func (s *AccountService) ResendToken(ctx context.Context, ids []string) (int, error) {
	accounts, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, acct := range accounts {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if acct.Role != domain.RoleSuperAdmin {
			s.logger.Warn().Str("account_id", acct.ID).Str("role", acct.Role).Msg("resend skipped: invalid role")
			continue
		}

		code, expires := IssueCodeAt(s.now())
		acct.Status = domain.StatusActive
		acct.ResetVerificationCode = code
		acct.ResetTokenExpires = expires
		if err := s.repo.Update(ctx, acct); err != nil {
			s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("resend failed")
			continue
		}

		s.mail.Enqueue(ports.MailJob{
			To:           acct.Email,
			TemplateCode: TemplateResendUserApproval,
			Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
		})
		count++
	}
	return count, nil
}

// ChangeStatus applies a bulk transition. Delete soft-deletes the whole
// set with no notification. Activating an account that has no password
// re-routes it to Pending with a fresh invite instead; an account
// already Pending is left out of the bulk update entirely.
func (s *AccountService) ChangeStatus(ctx context.Context, ids []string, status string) error {
	if status == domain.StatusDelete {
		deleted := true
		_, err := s.repo.UpdateStatusMany(ctx, ids, ports.StatusUpdate{Deleted: &deleted})
		return err
	}

	target := domain.Status(status)
	remaining := ids

	if target == domain.StatusActive {
		accounts, err := s.repo.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		remaining = make([]string, 0, len(accounts))
		for _, acct := range accounts {
			if acct.Status == domain.StatusPending {
				continue
			}
			if acct.PasswordHash == "" {
				code, expires := IssueCodeAt(s.now())
				acct.Status = domain.StatusPending
				acct.ResetVerificationCode = code
				acct.ResetTokenExpires = expires
				if err := s.repo.Update(ctx, acct); err != nil {
					s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("re-invite failed")
					continue
				}
				s.mail.Enqueue(ports.MailJob{
					To:           acct.Email,
					TemplateCode: TemplateForgotPasswordAdmin,
					Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
				})
				continue
			}
			remaining = append(remaining, acct.ID)
		}
	}

	if len(remaining) == 0 {
		return nil
	}
	_, err := s.repo.UpdateStatusMany(ctx, remaining, ports.StatusUpdate{Status: &target})
	return err
}

// ResetDefaultPassword clears the credentials of an account and puts it
// back through the Pending invite path. Refused on inactive accounts.
func (s *AccountService) ResetDefaultPassword(ctx context.Context, id string) error {
	acct, err := s.repo.FindByIDWithSecrets(ctx, id)
	if err != nil {
		return err
	}
	if acct.Status == domain.StatusInactive {
		return domain.ErrAccountNotActive
	}

	code, expires := IssueCodeAt(s.now())
	acct.PasswordHash = ""
	acct.Status = domain.StatusPending
	acct.ResetVerificationCode = code
	acct.ResetTokenExpires = expires

	if err := s.repo.Update(ctx, acct); err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{
		To:           acct.Email,
		TemplateCode: TemplateForgotPasswordAdmin,
		Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
	})
	return nil
}

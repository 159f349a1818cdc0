package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// AuthService implements the credential lifecycle for one account
// collection: login, forgot-password, token verification, set-password
// and change-password. The admin panel and the public web each get their
// own instance with their own token TTL and mail template.
type AuthService struct {
	repo           ports.AccountRepository
	tokens         *TokenService
	mail           ports.MailQueue
	links          Links
	forgotTemplate string
	now            func() time.Time
	logger         zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, tokens *TokenService, mail ports.MailQueue, links Links, forgotTemplate string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:           repo,
		tokens:         tokens,
		mail:           mail,
		links:          links,
		forgotTemplate: forgotTemplate,
		now:            func() time.Time { return time.Now().UTC() },
		logger:         logger,
	}
}

// Login authenticates by email and password. Failures are deliberately
// uninformative: unknown email, wrong password and (for non-admin
// pending accounts) most status problems all surface as
// domain.ErrInvalidLogin so callers cannot probe for registered emails.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	acct, err := s.repo.FindByEmail(ctx, input.Email, true)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidLogin
		}
		return nil, err
	}

	// Admin first login: the account is still Pending but carries a
	// temporary password. Verification succeeds without issuing a
	// session token; the caller must set a permanent password next.
	if acct.Status == domain.StatusPending && acct.IsAdmin() {
		if input.Password != "" && acct.PasswordHash != "" && VerifyPassword(input.Password, acct.PasswordHash) {
			return &ports.LoginResult{TemporaryPassword: true, Account: acct}, nil
		}
		return nil, domain.ErrInvalidLogin
	}

	if acct.Status != domain.StatusActive {
		return nil, domain.ErrAccountNotActive
	}

	if input.Password == "" || acct.PasswordHash == "" || !VerifyPassword(input.Password, acct.PasswordHash) {
		return nil, domain.ErrInvalidLogin
	}

	token, err := s.tokens.Sign(acct, input.IP, input.UserAgent)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", acct.ID).Msg("login succeeded")
	return &ports.LoginResult{Token: token, Account: acct}, nil
}

// ForgotPassword issues a fresh verification code, persists it onto the
// matching account and enqueues the reset mail. An unmatched email
// returns domain.ErrAccountNotFound and nothing else.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	acct, err := s.repo.FindByEmail(ctx, email, false)
	if err != nil {
		return "", err
	}

	code, expires := IssueCodeAt(s.now())
	if err := s.repo.SetResetCode(ctx, acct.ID, code, expires); err != nil {
		return "", err
	}

	s.mail.Enqueue(ports.MailJob{
		To:           acct.Email,
		TemplateCode: s.forgotTemplate,
		Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(code, acct.ID)),
	})

	s.logger.Info().Str("account_id", acct.ID).Msg("password reset code issued")
	return code, nil
}

// VerifyToken checks an id+code pair against Active or Pending accounts.
// A valid, unexpired code succeeds immediately. An expired code is
// auto-recovered: a fresh code is issued, persisted and mailed, and the
// call still reports success with Expired set.
func (s *AuthService) VerifyToken(ctx context.Context, id, code string, changePasswordIntent bool) (*ports.VerifyTokenResult, error) {
	acct, err := s.repo.FindByIDAndCode(ctx, id, code, []domain.Status{domain.StatusActive, domain.StatusPending})
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if s.now().Before(acct.ResetTokenExpires) {
		if changePasswordIntent {
			return &ports.VerifyTokenResult{}, nil
		}
		return &ports.VerifyTokenResult{Account: acct}, nil
	}

	fresh, expires := IssueCodeAt(s.now())
	if err := s.repo.SetResetCode(ctx, acct.ID, fresh, expires); err != nil {
		return nil, err
	}

	s.mail.Enqueue(ports.MailJob{
		To:           acct.Email,
		TemplateCode: s.forgotTemplate,
		Vars:         s.links.inviteVars(acct, s.links.SetPasswordLink(fresh, acct.ID)),
	})

	s.logger.Info().Str("account_id", acct.ID).Msg("expired reset code reissued")
	return &ports.VerifyTokenResult{Expired: true, Account: acct}, nil
}

// VerifyApproveToken checks an approval code with no auto-recovery:
// mismatched or expired codes fail outright.
func (s *AuthService) VerifyApproveToken(ctx context.Context, id, code string) error {
	acct, err := s.repo.FindByIDAndCode(ctx, id, code, nil)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	if !s.now().Before(acct.ResetTokenExpires) {
		return domain.ErrTokenInvalid
	}
	return nil
}

// SetPassword completes an invite or reset: the new password becomes the
// only entry in the reuse history, the verification code is cleared and
// a Pending account activates.
func (s *AuthService) SetPassword(ctx context.Context, id, code, newPassword string) (string, error) {
	acct, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	if acct.Status == domain.StatusPending {
		acct.Status = domain.StatusActive
	}
	acct.PasswordHash = hash
	acct.ResetVerificationCode = ""
	acct.ResetTokenExpires = time.Time{}
	acct.OldPasswords = []string{hash}

	if err := s.repo.Update(ctx, acct); err != nil {
		return "", err
	}

	s.logger.Info().Str("account_id", acct.ID).Msg("password set")
	return acct.ID, nil
}

// ChangePassword verifies the old password, rejects reuse of any of the
// last three passwords and rotates the reuse history.
func (s *AuthService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	acct, err := s.repo.FindByIDWithSecrets(ctx, id)
	if err != nil {
		return err
	}

	if !VerifyPassword(oldPassword, acct.PasswordHash) {
		return domain.ErrOldPasswordMismatch
	}

	for _, prior := range acct.OldPasswords {
		if VerifyPassword(newPassword, prior) {
			return domain.ErrPasswordReused
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	acct.PushOldPassword(hash)
	acct.PasswordHash = hash

	if err := s.repo.Update(ctx, acct); err != nil {
		return err
	}

	s.logger.Info().Str("account_id", acct.ID).Msg("password changed")
	return nil
}

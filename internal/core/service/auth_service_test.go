package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func newAuthFixture(t *testing.T, accounts ...*domain.Account) (*AuthService, *stubRepo, *stubQueue) {
	t.Helper()
	repo := newStubRepo(accounts...)
	queue := &stubQueue{}
	svc := NewAuthService(repo, NewTokenService("test-secret", AdminTokenTTL), queue, testLinks(), TemplateForgotPasswordAdmin, zerolog.Nop())
	return svc, repo, queue
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "known@example.com",
		Role:         domain.RoleSubAdmin,
		Status:       domain.StatusActive,
		PasswordHash: mustHash(t, "correct-horse"),
	})

	_, errUnknown := svc.Login(context.Background(), ports.LoginInput{Email: "nobody@example.com", Password: "x"})
	_, errWrongPwd := svc.Login(context.Background(), ports.LoginInput{Email: "known@example.com", Password: "wrong"})

	if !errors.Is(errUnknown, domain.ErrInvalidLogin) {
		t.Fatalf("unknown email: got %v", errUnknown)
	}
	if !errors.Is(errWrongPwd, domain.ErrInvalidLogin) {
		t.Fatalf("wrong password: got %v", errWrongPwd)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Role:         domain.RoleSubAdmin,
		Status:       domain.StatusInactive,
		PasswordHash: mustHash(t, "password123"),
	})

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "user@example.com", Password: "password123"})
	if !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestLogin_PendingAdminTemporaryPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "admin@example.com",
		Role:         domain.RoleSubAdmin,
		Status:       domain.StatusPending,
		PasswordHash: mustHash(t, "temp-secret"),
	})

	result, err := svc.Login(context.Background(), ports.LoginInput{Email: "admin@example.com", Password: "temp-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !result.TemporaryPassword {
		t.Fatalf("expected temporary password result")
	}
	if result.Token != "" {
		t.Fatalf("no session token may be issued for a pending account")
	}

	// Wrong temporary password must be indistinguishable from an
	// unknown account.
	_, err = svc.Login(context.Background(), ports.LoginInput{Email: "admin@example.com", Password: "wrong"})
	if !errors.Is(err, domain.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}
}

func TestLogin_PendingCustomerRejected(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "c1",
		Email:        "customer@example.com",
		Status:       domain.StatusPending,
		PasswordHash: mustHash(t, "password123"),
	})

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "customer@example.com", Password: "password123"})
	if !errors.Is(err, domain.ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Role:         domain.RoleSuperAdmin,
		Status:       domain.StatusActive,
		PasswordHash: mustHash(t, "password123"),
	})

	result, err := svc.Login(context.Background(), ports.LoginInput{
		Email: "user@example.com", Password: "password123", IP: "10.0.0.1", UserAgent: "go-test",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected a session token")
	}
	if result.TemporaryPassword {
		t.Fatalf("unexpected temporary password flag")
	}
}

func TestForgotPassword_IssuesAndMailsCode(t *testing.T) {
	svc, repo, queue := newAuthFixture(t, &domain.Account{
		ID:     "a1",
		Email:  "user@example.com",
		Role:   domain.RoleSubAdmin,
		Status: domain.StatusActive,
	})

	code, err := svc.ForgotPassword(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if len(code) != 50 {
		t.Fatalf("expected a 50 character code, got %d", len(code))
	}

	stored := repo.get("a1")
	if stored.ResetVerificationCode != code {
		t.Fatalf("code was not persisted")
	}
	if !stored.ResetTokenExpires.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expiry not ~24h out: %v", stored.ResetTokenExpires)
	}

	jobs := queue.sent()
	if len(jobs) != 1 || jobs[0].TemplateCode != TemplateForgotPasswordAdmin {
		t.Fatalf("unexpected mail jobs: %+v", jobs)
	}
	link := ""
	for _, v := range jobs[0].Vars {
		if v.Item == "verificationLink" {
			link = v.Value
		}
	}
	want := "https://panel.example.com/set-password/" + code + "/a1"
	if link != want {
		t.Fatalf("link = %q, want %q", link, want)
	}
}

func TestForgotPassword_PreservesStoredCredentials(t *testing.T) {
	hash := mustHash(t, "password123")
	svc, repo, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Role:         domain.RoleSubAdmin,
		Status:       domain.StatusActive,
		PasswordHash: hash,
		OldPasswords: []string{"h1", "h2", hash},
	})

	if _, err := svc.ForgotPassword(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	stored := repo.get("a1")
	if stored.PasswordHash != hash {
		t.Fatalf("stored hash changed: %q", stored.PasswordHash)
	}
	if len(stored.OldPasswords) != 3 {
		t.Fatalf("reuse history changed: %v", stored.OldPasswords)
	}

	// The account must still be able to log in with its old password
	// until the reset is actually redeemed.
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "user@example.com", Password: "password123"}); err != nil {
		t.Fatalf("login after forgot password: %v", err)
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, _, queue := newAuthFixture(t)

	_, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if len(queue.sent()) != 0 {
		t.Fatalf("no mail may be sent for an unknown email")
	}
}

func TestVerifyToken_ValidCode(t *testing.T) {
	svc, _, queue := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		ResetVerificationCode: "code-1",
		ResetTokenExpires:     time.Now().Add(time.Hour),
	})

	result, err := svc.VerifyToken(context.Background(), "a1", "code-1", false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Expired {
		t.Fatalf("unexpired code reported expired")
	}
	if result.Account == nil || result.Account.ID != "a1" {
		t.Fatalf("expected account in result")
	}
	if len(queue.sent()) != 0 {
		t.Fatalf("valid code must not trigger mail")
	}
}

func TestVerifyToken_ChangePasswordIntentOmitsAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		ResetVerificationCode: "code-1",
		ResetTokenExpires:     time.Now().Add(time.Hour),
	})

	result, err := svc.VerifyToken(context.Background(), "a1", "code-1", true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Account != nil {
		t.Fatalf("change-password verification must not return the account")
	}
}

func TestVerifyToken_ExpiredCodeReissues(t *testing.T) {
	svc, repo, queue := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusPending,
		ResetVerificationCode: "stale-code",
		ResetTokenExpires:     time.Now().Add(-time.Minute),
	})

	result, err := svc.VerifyToken(context.Background(), "a1", "stale-code", false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Expired {
		t.Fatalf("expected expired result")
	}

	stored := repo.get("a1")
	if stored.ResetVerificationCode == "stale-code" || stored.ResetVerificationCode == "" {
		t.Fatalf("a fresh code must replace the stale one")
	}
	if !time.Now().Before(stored.ResetTokenExpires) {
		t.Fatalf("fresh code must carry a future expiry")
	}

	jobs := queue.sent()
	if len(jobs) != 1 || jobs[0].To != "user@example.com" {
		t.Fatalf("reissue mail missing: %+v", jobs)
	}
}

func TestVerifyToken_PreservesStoredCredentials(t *testing.T) {
	hash := mustHash(t, "password123")
	svc, repo, _ := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		PasswordHash:          hash,
		OldPasswords:          []string{hash},
		ResetVerificationCode: "stale-code",
		ResetTokenExpires:     time.Now().Add(-time.Minute),
	})

	result, err := svc.VerifyToken(context.Background(), "a1", "stale-code", false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Expired {
		t.Fatalf("expected expired result")
	}

	stored := repo.get("a1")
	if stored.PasswordHash != hash {
		t.Fatalf("reissue changed the stored hash: %q", stored.PasswordHash)
	}
	if len(stored.OldPasswords) != 1 {
		t.Fatalf("reissue changed the reuse history: %v", stored.OldPasswords)
	}
}

func TestVerifyToken_ExactExpiryInstantIsExpired(t *testing.T) {
	deadline := time.Now().Add(time.Hour).Truncate(time.Second)
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		ResetVerificationCode: "code-1",
		ResetTokenExpires:     deadline,
	})
	svc.now = func() time.Time { return deadline }

	result, err := svc.VerifyToken(context.Background(), "a1", "code-1", false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Expired {
		t.Fatalf("now == expiry must count as expired")
	}
}

func TestVerifyToken_WrongCode(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		ResetVerificationCode: "code-1",
		ResetTokenExpires:     time.Now().Add(time.Hour),
	})

	_, err := svc.VerifyToken(context.Background(), "a1", "other", false)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyApproveToken_NoReissueOnExpiry(t *testing.T) {
	svc, repo, queue := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusActive,
		ResetVerificationCode: "approve-code",
		ResetTokenExpires:     time.Now().Add(-time.Minute),
	})

	err := svc.VerifyApproveToken(context.Background(), "a1", "approve-code")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if repo.get("a1").ResetVerificationCode != "approve-code" {
		t.Fatalf("approval check must not touch the stored code")
	}
	if len(queue.sent()) != 0 {
		t.Fatalf("approval check must not mail")
	}
}

func TestSetPassword_ActivatesAndSeedsHistory(t *testing.T) {
	svc, repo, _ := newAuthFixture(t, &domain.Account{
		ID:                    "a1",
		Email:                 "user@example.com",
		Status:                domain.StatusPending,
		ResetVerificationCode: "code-1",
		ResetTokenExpires:     time.Now().Add(time.Hour),
		OldPasswords:          []string{"h1", "h2", "h3"},
	})

	id, err := svc.SetPassword(context.Background(), "a1", "code-1", "brand-new-password")
	if err != nil {
		t.Fatalf("set password: %v", err)
	}
	if id != "a1" {
		t.Fatalf("id = %q", id)
	}

	stored := repo.get("a1")
	if stored.Status != domain.StatusActive {
		t.Fatalf("pending account must activate, got %s", stored.Status)
	}
	if stored.ResetVerificationCode != "" || !stored.ResetTokenExpires.IsZero() {
		t.Fatalf("verification code must be cleared")
	}
	if len(stored.OldPasswords) != 1 {
		t.Fatalf("history must reset to the single new hash, got %d entries", len(stored.OldPasswords))
	}
	if !VerifyPassword("brand-new-password", stored.PasswordHash) {
		t.Fatalf("new password does not verify")
	}
}

func TestChangePassword_OldPasswordMismatch(t *testing.T) {
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Status:       domain.StatusActive,
		PasswordHash: mustHash(t, "current"),
	})

	err := svc.ChangePassword(context.Background(), "a1", "not-current", "next-password")
	if !errors.Is(err, domain.ErrOldPasswordMismatch) {
		t.Fatalf("expected ErrOldPasswordMismatch, got %v", err)
	}
}

func TestChangePassword_RejectsRecentReuse(t *testing.T) {
	current := mustHash(t, "pw-three")
	svc, _, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Status:       domain.StatusActive,
		PasswordHash: current,
		OldPasswords: []string{mustHash(t, "pw-one"), mustHash(t, "pw-two"), current},
	})

	for _, reused := range []string{"pw-one", "pw-two", "pw-three"} {
		if err := svc.ChangePassword(context.Background(), "a1", "pw-three", reused); !errors.Is(err, domain.ErrPasswordReused) {
			t.Fatalf("reuse of %q: expected ErrPasswordReused, got %v", reused, err)
		}
	}
}

func TestChangePassword_RotatesHistoryCap(t *testing.T) {
	current := mustHash(t, "pw-three")
	oldest := mustHash(t, "pw-one")
	svc, repo, _ := newAuthFixture(t, &domain.Account{
		ID:           "a1",
		Email:        "user@example.com",
		Status:       domain.StatusActive,
		PasswordHash: current,
		OldPasswords: []string{oldest, mustHash(t, "pw-two"), current},
	})

	if err := svc.ChangePassword(context.Background(), "a1", "pw-three", "pw-four"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored := repo.get("a1")
	if len(stored.OldPasswords) != domain.MaxOldPasswords {
		t.Fatalf("history size = %d, want %d", len(stored.OldPasswords), domain.MaxOldPasswords)
	}
	for _, h := range stored.OldPasswords {
		if h == oldest {
			t.Fatalf("oldest hash must be evicted")
		}
	}
	if !VerifyPassword("pw-four", stored.PasswordHash) {
		t.Fatalf("new password does not verify")
	}

	// pw-one fell out of the history, so it is acceptable again.
	if err := svc.ChangePassword(context.Background(), "a1", "pw-four", "pw-one"); err != nil {
		t.Fatalf("evicted password must be reusable: %v", err)
	}
}

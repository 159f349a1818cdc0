package ports

import (
	"context"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// LoginInput carries the already-validated login request plus the client
// attributes bound into the session fingerprint.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// LoginResult is returned on a successful login. TemporaryPassword marks
// the Pending-admin first-login path: the temporary password verified but
// no session token is issued until a permanent password is set.
type LoginResult struct {
	Token             string
	TemporaryPassword bool
	Account           *domain.Account
}

// VerifyTokenResult reports the outcome of a verification-code check.
// Expired means the original code had lapsed and a fresh one was issued
// and mailed; the operation still counts as a success.
type VerifyTokenResult struct {
	Expired bool
	Account *domain.Account
}

// AuthService implements the account credential lifecycle for one realm
// (admin panel or public web).
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// ForgotPassword returns the issued code. domain.ErrAccountNotFound
	// signals an unmatched email; callers must not reveal more than that.
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyToken(ctx context.Context, id, code string, changePasswordIntent bool) (*VerifyTokenResult, error)
	VerifyApproveToken(ctx context.Context, id, code string) error
	SetPassword(ctx context.Context, id, code, newPassword string) (string, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
}

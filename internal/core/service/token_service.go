package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

const (
	// AdminTokenTTL is the session lifetime for admin panel logins.
	AdminTokenTTL = 2 * time.Hour
	// WebTokenTTL is the session lifetime for public web logins.
	WebTokenTTL = 5 * time.Hour
)

// TokenService signs session tokens carrying the account claims plus a
// replay-binding fingerprint derived from client IP, user agent and
// account id.
type TokenService struct {
	secret   string
	tokenTTL time.Duration
}

func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = AdminTokenTTL
	}
	return &TokenService{secret: secret, tokenTTL: tokenTTL}
}

// Sign issues a compact session token for the account. ip and userAgent
// are hashed into the "loc" claim; the auth middleware re-derives the
// fingerprint on every request.
func (t *TokenService) Sign(acct *domain.Account, ip, userAgent string) (string, error) {
	loc, err := bcrypt.GenerateFromPassword([]byte(Fingerprint(ip, userAgent, acct.ID)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":                    acct.ID,
		"firstName":             acct.FirstName,
		"lastName":              acct.LastName,
		"email":                 acct.Email,
		"role":                  acct.Role,
		"status":                string(acct.Status),
		"resetVerificationCode": acct.ResetVerificationCode,
		"profileImg":            acct.ProfileImg,
		"loc":                   string(loc),
		"exp":                   time.Now().Add(t.tokenTTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(t.secret))
}

// Fingerprint is the plaintext bound into the "loc" claim.
func Fingerprint(ip, userAgent, accountID string) string {
	return ip + userAgent + accountID
}

// VerifyFingerprint checks a request's client attributes against the
// hashed "loc" claim from its token.
func VerifyFingerprint(loc, ip, userAgent, accountID string) bool {
	return bcrypt.CompareHashAndPassword([]byte(loc), []byte(Fingerprint(ip, userAgent, accountID))) == nil
}

package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

func TestTokenSign_ClaimsAndExpiry(t *testing.T) {
	svc := NewTokenService("test-secret", AdminTokenTTL)
	acct := &domain.Account{
		ID:        "a1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      domain.RoleSuperAdmin,
		Status:    domain.StatusActive,
	}

	signed, err := svc.Sign(acct, "10.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v", err)
	}

	if claims["id"] != "a1" || claims["email"] != "ada@example.com" || claims["role"] != domain.RoleSuperAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims["status"] != string(domain.StatusActive) {
		t.Fatalf("status claim = %v", claims["status"])
	}

	exp, _ := claims["exp"].(float64)
	until := time.Until(time.Unix(int64(exp), 0))
	if until <= 0 || until > AdminTokenTTL {
		t.Fatalf("expiry %v outside (0, %v]", until, AdminTokenTTL)
	}

	loc, _ := claims["loc"].(string)
	if !VerifyFingerprint(loc, "10.0.0.1", "go-test", "a1") {
		t.Fatalf("fingerprint does not verify for the original client")
	}
	if VerifyFingerprint(loc, "10.0.0.2", "go-test", "a1") {
		t.Fatalf("fingerprint must fail for another IP")
	}
	if VerifyFingerprint(loc, "10.0.0.1", "other-agent", "a1") {
		t.Fatalf("fingerprint must fail for another user agent")
	}
}

func TestTokenSign_RejectsTamperedSecret(t *testing.T) {
	svc := NewTokenService("secret-one", WebTokenTTL)
	signed, err := svc.Sign(&domain.Account{ID: "a1"}, "ip", "ua")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret-two"), nil
	})
	if err == nil {
		t.Fatalf("token verified under the wrong secret")
	}
}

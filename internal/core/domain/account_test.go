package domain

import (
	"testing"
	"time"
)

func TestCodeValid(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	acct := &Account{ResetVerificationCode: "abc", ResetTokenExpires: now.Add(time.Hour)}

	if !acct.CodeValid("abc", now) {
		t.Fatalf("matching unexpired code must be valid")
	}
	if acct.CodeValid("xyz", now) {
		t.Fatalf("mismatched code must be invalid")
	}
	if acct.CodeValid("abc", now.Add(time.Hour)) {
		t.Fatalf("now == expiry must be invalid")
	}
	if acct.CodeValid("abc", now.Add(2*time.Hour)) {
		t.Fatalf("past expiry must be invalid")
	}

	empty := &Account{}
	if empty.CodeValid("", now) {
		t.Fatalf("empty stored code must never validate, even against empty input")
	}
}

func TestPushOldPassword_EvictsOldest(t *testing.T) {
	acct := &Account{}
	for _, h := range []string{"h1", "h2", "h3", "h4"} {
		acct.PushOldPassword(h)
	}

	if len(acct.OldPasswords) != MaxOldPasswords {
		t.Fatalf("history size = %d, want %d", len(acct.OldPasswords), MaxOldPasswords)
	}
	want := []string{"h2", "h3", "h4"}
	for i, h := range want {
		if acct.OldPasswords[i] != h {
			t.Fatalf("history[%d] = %s, want %s", i, acct.OldPasswords[i], h)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	if !(&Account{Role: RoleSuperAdmin}).IsAdmin() {
		t.Fatalf("super_admin is admin")
	}
	if !(&Account{Role: RoleSubAdmin}).IsAdmin() {
		t.Fatalf("sub_admin is admin")
	}
	if (&Account{}).IsAdmin() {
		t.Fatalf("customer accounts carry no admin role")
	}
}

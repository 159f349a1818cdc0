package domain

import "time"

// Status represents the lifecycle state of an account.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// StatusDelete is accepted on bulk status changes and soft-deletes the
// matched accounts instead of transitioning their status.
const StatusDelete = "Delete"

const (
	RoleSuperAdmin = "super_admin"
	RoleSubAdmin   = "sub_admin"
)

// MaxOldPasswords bounds the password-reuse history kept per account.
const MaxOldPasswords = 3

// Account models an admin user or a public customer. Both kinds share the
// credential and status state; customers carry no role.
type Account struct {
	ID                    string    `json:"id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	FullName              string    `json:"full_name"`
	Email                 string    `json:"email"`
	Mobile                string    `json:"mobile,omitempty"`
	Gender                string    `json:"gender,omitempty"`
	Role                  string    `json:"role,omitempty"`
	CustomerCode          string    `json:"customer_code,omitempty"`
	Status                Status    `json:"status"`
	Deleted               bool      `json:"-"`
	ProfileImg            string    `json:"profile_img,omitempty"`
	PasswordHash          string    `json:"-"`
	OldPasswords          []string  `json:"-"`
	ResetVerificationCode string    `json:"-"`
	ResetTokenExpires     time.Time `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account belongs to the admin realm.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleSuperAdmin || a.Role == RoleSubAdmin
}

// CodeValid reports whether the stored verification code matches and is
// strictly unexpired at the given instant.
func (a *Account) CodeValid(code string, now time.Time) bool {
	return a.ResetVerificationCode != "" &&
		a.ResetVerificationCode == code &&
		now.Before(a.ResetTokenExpires)
}

// PushOldPassword appends a hash to the reuse history, oldest first,
// evicting the oldest entry once the history is full.
func (a *Account) PushOldPassword(hash string) {
	if len(a.OldPasswords) >= MaxOldPasswords {
		a.OldPasswords = a.OldPasswords[len(a.OldPasswords)-MaxOldPasswords+1:]
	}
	a.OldPasswords = append(a.OldPasswords, hash)
}

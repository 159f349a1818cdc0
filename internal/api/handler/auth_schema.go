package handler

// --- Request types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyTokenRequest struct {
	ID string `json:"id" validate:"required"`
	// Code is the verification token the account owner followed from the
	// mailed link.
	Code string `json:"verification_code" validate:"required"`
	// ChangePassword marks the verify call that precedes a password form
	// submission; it suppresses the account payload in the response.
	ChangePassword bool `json:"change_password"`
}

type setPasswordRequest struct {
	ID       string `json:"id"                validate:"required"`
	Code     string `json:"verification_code" validate:"required"`
	Password string `json:"password"          validate:"required,min=8,max=128"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// --- Response types ---

type loginResponse struct {
	Token   string          `json:"token,omitempty"`
	Account accountResponse `json:"account"`
	// TemporaryPassword marks the pending first-login path: the temporary
	// password verified but no session exists until a password is set.
	TemporaryPassword bool `json:"temporary_password,omitempty"`
}

type verifyTokenResponse struct {
	Expired bool             `json:"expired"`
	Account *accountResponse `json:"account,omitempty"`
}

type setPasswordResponse struct {
	ID string `json:"id"`
}

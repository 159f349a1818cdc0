package handler

import "github.com/labstack/echo/v4"

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// respond renders the uniform envelope. Business failures (unknown
// account, invalid code, rejected password) are success=false envelopes,
// not HTTP errors; only transport and unexpected conditions use non-2xx
// codes.
func respond(c echo.Context, status int, success bool, message string, data any) error {
	if data == nil {
		data = map[string]any{}
	}
	return c.JSON(status, envelope{Status: status, Success: success, Data: data, Message: message})
}

// User-facing messages. Login and forgot-password failures come from a
// small fixed set regardless of cause, so responses cannot be used to
// probe for registered emails.
const (
	msgInvalidLogin   = "Invalid email or password."
	msgNotActive      = "Your account is not active."
	msgLoggedIn       = "Logged in successfully."
	msgTempPassword   = "Temporary password verified successfully. Please set your password."
	msgForgotSent     = "Email has been sent to your registered email address to set password."
	msgEmailNotFound  = "Email not found!"
	msgTokenInvalid   = "Verification token is not valid, please retry forgot password!"
	msgTokenValid     = "Verification token is valid."
	msgTokenExpired   = "Verification token is expired, the refresh token is sent to your registered email. Please check mail and try again."
	msgPasswordSet    = "Password set successfully."
	msgPasswordSetErr = "Error occurred while password update."
	msgUserNotFound   = "User not found!"
	msgOldPwdMismatch = "Your old password does not match"
	msgPwdReused      = "You can not set your last three passwords as a new password."
	msgPwdChanged     = "Password reset successfully"
	msgApproveValid   = "User successfully verified."
	msgApproveInvalid = "Account activation link is not valid."
	msgInsertSuccess  = "Record added successfully."
	msgUpdateSuccess  = "Record updated successfully."
	msgListSuccess    = "Records fetched successfully."
	msgDetailsSuccess = "Record details fetched successfully."
	msgNotFound       = "Record not found!"
	msgStatusUpdated  = "Status updated successfully."
	msgApproved       = "Accounts approved successfully."
	msgTokenResent    = "Approval tokens resent successfully."
	msgEmailTaken     = "The email you entered is already in our system."
	msgRegistered     = "Registration successful. Please check your email to verify your account."
	msgPwdResetDone   = "Password Reset Successfully."
	msgInvalidPayload = "invalid payload"
)

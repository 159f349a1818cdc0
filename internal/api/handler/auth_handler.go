package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/api/metrics"
	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// AuthHandler handles credential lifecycle requests for one realm. Two
// instances exist: one bound to the admin user collection, one to the
// public customer collection.
type AuthHandler struct {
	service ports.AuthService
	realm   string
	log     zerolog.Logger
}

func NewAuthHandler(service ports.AuthService, realm string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		realm:   realm,
		log:     log.With().Str("handler", "auth").Str("realm", realm).Logger(),
	}
}

// Login handles POST /{realm}/auth/login.
//
// @Summary      Authenticate an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope{data=loginResponse}
// @Failure      400   {object}  envelope
// @Router       /admin/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	result, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidLogin):
			metrics.LoginsTotal.WithLabelValues(h.realm, "invalid").Inc()
			return respond(c, http.StatusOK, false, msgInvalidLogin, nil)
		case errors.Is(err, domain.ErrAccountNotActive):
			metrics.LoginsTotal.WithLabelValues(h.realm, "not_active").Inc()
			return respond(c, http.StatusOK, false, msgNotActive, nil)
		}
		return err
	}

	if result.TemporaryPassword {
		metrics.LoginsTotal.WithLabelValues(h.realm, "temporary_password").Inc()
		return respond(c, http.StatusOK, true, msgTempPassword, loginResponse{
			Account:           toAccountResponse(result.Account),
			TemporaryPassword: true,
		})
	}

	metrics.LoginsTotal.WithLabelValues(h.realm, "success").Inc()
	return respond(c, http.StatusOK, true, msgLoggedIn, loginResponse{
		Token:   result.Token,
		Account: toAccountResponse(result.Account),
	})
}

// ForgotPassword handles POST /{realm}/auth/forgot-password.
//
// @Summary      Start the password reset flow
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Registered email"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /admin/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	if _, err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return respond(c, http.StatusOK, false, msgEmailNotFound, nil)
		}
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues("forgot_password").Inc()
	return respond(c, http.StatusOK, true, msgForgotSent, nil)
}

// VerifyToken handles POST /{realm}/auth/verify-token.
//
// @Summary      Check a mailed verification token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyTokenRequest  true  "Account id and token"
// @Success      200   {object}  envelope{data=verifyTokenResponse}
// @Failure      400   {object}  envelope
// @Router       /admin/auth/verify-token [post]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	var req verifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	result, err := h.service.VerifyToken(c.Request().Context(), req.ID, req.Code, req.ChangePassword)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrAccountNotFound) {
			return respond(c, http.StatusOK, false, msgTokenInvalid, nil)
		}
		return err
	}

	if result.Expired {
		metrics.CodesIssuedTotal.WithLabelValues("verify_reissue").Inc()
		return respond(c, http.StatusOK, true, msgTokenExpired, verifyTokenResponse{Expired: true})
	}

	resp := verifyTokenResponse{}
	if result.Account != nil {
		acct := toAccountResponse(result.Account)
		resp.Account = &acct
	}
	return respond(c, http.StatusOK, true, msgTokenValid, resp)
}

// VerifyApproveToken handles POST /{realm}/auth/verify-approve-token.
// Unlike VerifyToken, an expired approval link is simply invalid; no
// replacement code is issued.
//
// @Summary      Check an account approval token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyTokenRequest  true  "Account id and token"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /admin/auth/verify-approve-token [post]
func (h *AuthHandler) VerifyApproveToken(c echo.Context) error {
	var req verifyTokenRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	if err := h.service.VerifyApproveToken(c.Request().Context(), req.ID, req.Code); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrAccountNotFound) {
			return respond(c, http.StatusOK, false, msgApproveInvalid, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgApproveValid, nil)
}

// SetPassword handles POST /{realm}/auth/set-password.
//
// @Summary      Set a password using a verification token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      setPasswordRequest  true  "Account id, token and new password"
// @Success      200   {object}  envelope{data=setPasswordResponse}
// @Failure      400   {object}  envelope
// @Router       /admin/auth/set-password [post]
func (h *AuthHandler) SetPassword(c echo.Context) error {
	var req setPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	id, err := h.service.SetPassword(c.Request().Context(), req.ID, req.Code, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrAccountNotFound) {
			return respond(c, http.StatusOK, false, msgPasswordSetErr, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgPasswordSet, setPasswordResponse{ID: id})
}

// ChangePassword handles POST /{realm}/auth/change-password. Requires
// an authenticated session; the target account comes from the token
// claims, never from the payload.
//
// @Summary      Change the password of the authenticated account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /admin/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	accountID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	if err := h.service.ChangePassword(c.Request().Context(), accountID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrOldPasswordMismatch):
			return respond(c, http.StatusOK, false, msgOldPwdMismatch, nil)
		case errors.Is(err, domain.ErrPasswordReused):
			return respond(c, http.StatusOK, false, msgPwdReused, nil)
		case errors.Is(err, domain.ErrAccountNotFound):
			return respond(c, http.StatusOK, false, msgUserNotFound, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgPwdChanged, nil)
}

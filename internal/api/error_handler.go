package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// errorEnvelope mirrors the handler response envelope so error paths and
// success paths look the same to clients.
type errorEnvelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

// NewHTTPErrorHandler returns the central echo.HTTPErrorHandler. Handlers
// translate the business failures they expect; anything that escapes is
// mapped here to a deterministic status, and unexpected errors are logged
// without leaking their cause to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorEnvelope{Status: code, Success: false, Data: map[string]any{}, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, 401 from middleware).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "Record not found!"
	case errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound, "Record not found!"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "The email you entered is already in our system."
	case errors.Is(err, domain.ErrTemplateExists):
		return http.StatusConflict, "A template with this code already exists."
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusForbidden, "You are not allowed to perform this action."
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

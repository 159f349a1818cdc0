package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/api/metrics"
	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// UserHandler handles administrative account management for the admin
// user collection. All routes are session-gated; most mutations are
// additionally restricted to super admins by the RBAC middleware.
type UserHandler struct {
	service ports.AccountAdminService
	log     zerolog.Logger
}

func NewUserHandler(service ports.AccountAdminService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log.With().Str("handler", "user").Logger()}
}

// Create handles POST /admin/users.
//
// @Summary      Create a sub-admin account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account"
// @Success      200   {object}  envelope{data=accountResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	accountID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateAccountInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Mobile:        req.Mobile,
		Gender:        req.Gender,
		Status:        parseStatus(req.Status),
		Password:      req.Password,
		IsPasswordSet: req.IsPasswordSet,
		CreatedBy:     accountID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return respond(c, http.StatusConflict, false, msgEmailTaken, nil)
		}
		return err
	}

	if created.Status == domain.StatusPending {
		metrics.CodesIssuedTotal.WithLabelValues("invite").Inc()
	}
	return respond(c, http.StatusOK, true, msgInsertSuccess, toAccountResponse(created))
}

// Update handles PUT /admin/users/:id.
//
// @Summary      Update an account profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Changed profile"
// @Success      200   {object}  envelope{data=accountResponse}
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	updated, err := h.service.Update(c.Request().Context(), ports.UpdateAccountInput{
		ID:        c.Param("id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Gender:    req.Gender,
		Status:    parseStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return respond(c, http.StatusNotFound, false, msgNotFound, nil)
		case errors.Is(err, domain.ErrEmailTaken):
			return respond(c, http.StatusConflict, false, msgEmailTaken, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgUpdateSuccess, toAccountResponse(updated))
}

// Get handles GET /admin/users/:id.
//
// @Summary      Get one account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account id"
// @Success      200  {object}  envelope{data=accountResponse}
// @Failure      404  {object}  envelope
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	acct, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return respond(c, http.StatusNotFound, false, msgNotFound, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgDetailsSuccess, toAccountResponse(acct))
}

// List handles GET /admin/users.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        keyword       query     string  false  "Match against name, email or mobile"
// @Param        name          query     string  false  "Name filter"
// @Param        status        query     string  false  "Status filter"  Enums(active, inactive, pending)
// @Param        created_from  query     string  false  "Creation date lower bound (YYYY-MM-DD)"
// @Param        created_to    query     string  false  "Creation date upper bound (YYYY-MM-DD)"
// @Param        sort_by       query     string  false  "Sort field"  Enums(full_name, email, status, created_at)
// @Param        order         query     string  false  "Sort order"  Enums(asc, desc)
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200  {object}  envelope{data=pageResponse}
// @Failure      400  {object}  envelope
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var req listUsersRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	q := ports.ListQuery{
		Keyword:  req.Keyword,
		Name:     req.Name,
		Status:   parseStatus(req.Status),
		SortBy:   req.SortBy,
		SortDesc: req.Order == "desc",
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if req.CreatedFrom != "" {
		q.CreatedFrom, _ = time.Parse("2006-01-02", req.CreatedFrom)
	}
	if req.CreatedTo != "" {
		// inclusive upper bound: the whole requested day
		to, _ := time.Parse("2006-01-02", req.CreatedTo)
		q.CreatedTo = to.Add(24 * time.Hour)
	}

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, true, msgListSuccess, toPageResponse(page))
}

// Approve handles POST /admin/users/approve.
//
// @Summary      Approve pending accounts in bulk
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkIDsRequest  true  "Account ids"
// @Success      200   {object}  envelope{data=bulkCountResponse}
// @Failure      400   {object}  envelope
// @Router       /admin/users/approve [post]
func (h *UserHandler) Approve(c echo.Context) error {
	var req bulkIDsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	count, err := h.service.Approve(c.Request().Context(), req.IDs)
	if err != nil {
		return err
	}
	metrics.CodesIssuedTotal.WithLabelValues("approve").Add(float64(count))
	return respond(c, http.StatusOK, true, msgApproved, bulkCountResponse{Requested: len(req.IDs), Processed: count})
}

// ResendToken handles POST /admin/users/resend-token.
//
// @Summary      Resend approval tokens in bulk
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkIDsRequest  true  "Account ids"
// @Success      200   {object}  envelope{data=bulkCountResponse}
// @Failure      400   {object}  envelope
// @Router       /admin/users/resend-token [post]
func (h *UserHandler) ResendToken(c echo.Context) error {
	var req bulkIDsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	count, err := h.service.ResendToken(c.Request().Context(), req.IDs)
	if err != nil {
		return err
	}
	metrics.CodesIssuedTotal.WithLabelValues("resend").Add(float64(count))
	return respond(c, http.StatusOK, true, msgTokenResent, bulkCountResponse{Requested: len(req.IDs), Processed: count})
}

// ChangeStatus handles POST /admin/users/change-status.
//
// @Summary      Change account status in bulk
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changeStatusRequest  true  "Account ids and target status"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /admin/users/change-status [post]
func (h *UserHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	status := string(parseStatus(req.Status))
	if req.Status == "delete" {
		status = domain.StatusDelete
	}
	if err := h.service.ChangeStatus(c.Request().Context(), req.IDs, status); err != nil {
		return err
	}
	return respond(c, http.StatusOK, true, msgStatusUpdated, nil)
}

// ResetPassword handles POST /admin/users/:id/reset-password. Clears
// the account credentials and sends a fresh set-password invite.
//
// @Summary      Reset an account to the invite flow
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /admin/users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c echo.Context) error {
	err := h.service.ResetDefaultPassword(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return respond(c, http.StatusNotFound, false, msgNotFound, nil)
		case errors.Is(err, domain.ErrAccountNotActive):
			return respond(c, http.StatusOK, false, msgNotActive, nil)
		}
		return err
	}
	metrics.CodesIssuedTotal.WithLabelValues("invite").Inc()
	return respond(c, http.StatusOK, true, msgPwdResetDone, nil)
}

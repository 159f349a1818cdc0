package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// TemplateHandler manages the stored system email templates.
type TemplateHandler struct {
	service ports.TemplateService
	log     zerolog.Logger
}

func NewTemplateHandler(service ports.TemplateService, log zerolog.Logger) *TemplateHandler {
	return &TemplateHandler{service: service, log: log.With().Str("handler", "template").Logger()}
}

// Create handles POST /admin/system-emails.
//
// @Summary      Create an email template
// @Tags         system-emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      templateRequest  true  "New template"
// @Success      200   {object}  envelope{data=domain.EmailTemplate}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /admin/system-emails [post]
func (h *TemplateHandler) Create(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	created, err := h.service.Create(c.Request().Context(), req.toDomain(""))
	if err != nil {
		if errors.Is(err, domain.ErrTemplateExists) {
			return respond(c, http.StatusConflict, false, "A template with this code already exists.", nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgInsertSuccess, created)
}

// Update handles PUT /admin/system-emails/:id.
//
// @Summary      Update an email template
// @Tags         system-emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Template id"
// @Param        body  body      templateRequest  true  "Changed template"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /admin/system-emails/{id} [put]
func (h *TemplateHandler) Update(c echo.Context) error {
	var req templateRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	if err := h.service.Update(c.Request().Context(), req.toDomain(c.Param("id"))); err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return respond(c, http.StatusNotFound, false, msgNotFound, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgUpdateSuccess, nil)
}

// Get handles GET /admin/system-emails/:id.
//
// @Summary      Get one email template
// @Tags         system-emails
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Template id"
// @Success      200  {object}  envelope{data=domain.EmailTemplate}
// @Failure      404  {object}  envelope
// @Router       /admin/system-emails/{id} [get]
func (h *TemplateHandler) Get(c echo.Context) error {
	tpl, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			return respond(c, http.StatusNotFound, false, msgNotFound, nil)
		}
		return err
	}
	return respond(c, http.StatusOK, true, msgDetailsSuccess, tpl)
}

// List handles GET /admin/system-emails.
//
// @Summary      List email templates
// @Tags         system-emails
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  false  "Match against title, code, subject or sender"
// @Param        sort_by  query     string  false  "Sort field"  Enums(title, code, subject, created_at)
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200  {object}  envelope{data=ports.TemplatePage}
// @Failure      400  {object}  envelope
// @Router       /admin/system-emails [get]
func (h *TemplateHandler) List(c echo.Context) error {
	var req listTemplatesRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	q := ports.TemplateListQuery{Keyword: req.Keyword, SortBy: req.SortBy, Page: req.Page, Limit: req.Limit}
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, true, msgListSuccess, page)
}

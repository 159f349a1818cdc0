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

// CustomerHandler handles the public web registration flow. The rest of
// the customer credential lifecycle is served by an AuthHandler bound to
// the customer collection.
type CustomerHandler struct {
	service ports.CustomerService
	log     zerolog.Logger
}

func NewCustomerHandler(service ports.CustomerService, log zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{service: service, log: log.With().Str("handler", "customer").Logger()}
}

// Register handles POST /web/customers/register.
//
// @Summary      Register a customer account
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      registerCustomerRequest  true  "New customer"
// @Success      200   {object}  envelope{data=registerCustomerResponse}
// @Failure      400   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /web/customers/register [post]
func (h *CustomerHandler) Register(c echo.Context) error {
	var req registerCustomerRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, msgInvalidPayload, nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, false, err.Error(), nil)
	}

	created, err := h.service.Register(c.Request().Context(), ports.RegisterCustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Mobile:    req.Mobile,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return respond(c, http.StatusConflict, false, msgEmailTaken, nil)
		}
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues("invite").Inc()
	return respond(c, http.StatusOK, true, msgRegistered, registerCustomerResponse{
		ID:           created.ID,
		CustomerCode: created.CustomerCode,
		Email:        created.Email,
		Status:       string(created.Status),
	})
}

package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

type stubAccountService struct {
	createFn       func(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error)
	updateFn       func(ctx context.Context, input ports.UpdateAccountInput) (*domain.Account, error)
	getFn          func(ctx context.Context, id string) (*domain.Account, error)
	listFn         func(ctx context.Context, q ports.ListQuery) (*ports.Page, error)
	approveFn      func(ctx context.Context, ids []string) (int, error)
	resendFn       func(ctx context.Context, ids []string) (int, error)
	changeStatusFn func(ctx context.Context, ids []string, status string) error
	resetFn        func(ctx context.Context, id string) error
}

func (s *stubAccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *stubAccountService) Update(ctx context.Context, input ports.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, input)
}

func (s *stubAccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) List(ctx context.Context, q ports.ListQuery) (*ports.Page, error) {
	return s.listFn(ctx, q)
}

func (s *stubAccountService) Approve(ctx context.Context, ids []string) (int, error) {
	return s.approveFn(ctx, ids)
}

func (s *stubAccountService) ResendToken(ctx context.Context, ids []string) (int, error) {
	return s.resendFn(ctx, ids)
}

func (s *stubAccountService) ChangeStatus(ctx context.Context, ids []string, status string) error {
	return s.changeStatusFn(ctx, ids, status)
}

func (s *stubAccountService) ResetDefaultPassword(ctx context.Context, id string) error {
	return s.resetFn(ctx, id)
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(_ context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
			if input.CreatedBy != "admin-1" {
				t.Fatalf("created_by must come from claims, got %q", input.CreatedBy)
			}
			if input.Status != domain.StatusActive {
				t.Fatalf("status = %s", input.Status)
			}
			return &domain.Account{ID: "a2", Email: input.Email, Status: domain.StatusPending}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users",
		`{"first_name":"Ada","last_name":"Byron","email":"ada@example.com","status":"active"}`)
	c.Set("account_id", "admin-1")
	c.Set("role", domain.RoleSuperAdmin)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec)
	if resp["success"] != true || resp["message"] != msgInsertSuccess {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(context.Context, ports.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users",
		`{"first_name":"Ada","last_name":"Byron","email":"taken@example.com","status":"active"}`)
	c.Set("account_id", "admin-1")
	c.Set("role", domain.RoleSuperAdmin)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp["message"] != msgEmailTaken {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_Create_RejectsInvalidStatus(t *testing.T) {
	stub := &stubAccountService{
		createFn: func(context.Context, ports.CreateAccountInput) (*domain.Account, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users",
		`{"first_name":"Ada","last_name":"Byron","email":"ada@example.com","status":"pending"}`)
	c.Set("account_id", "admin-1")
	c.Set("role", domain.RoleSuperAdmin)

	_ = h.Create(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_List_AppliesDefaults(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(_ context.Context, q ports.ListQuery) (*ports.Page, error) {
			if q.Page != 1 || q.Limit != 10 {
				t.Fatalf("defaults not applied: page=%d limit=%d", q.Page, q.Limit)
			}
			if q.Status != domain.StatusPending {
				t.Fatalf("status filter lost: %q", q.Status)
			}
			return &ports.Page{Page: 1, Total: 0}, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodGet, "/admin/users?status=pending", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	if resp["success"] != true {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubAccountService{
		getFn: func(context.Context, string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodGet, "/admin/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandler_Approve_ReportsPartialCount(t *testing.T) {
	stub := &stubAccountService{
		approveFn: func(_ context.Context, ids []string) (int, error) {
			if len(ids) != 3 {
				t.Fatalf("ids = %v", ids)
			}
			return 2, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/approve", `{"ids":["a1","a2","a3"]}`)
	if err := h.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decodeEnvelope(t, rec)
	data, _ := resp["data"].(map[string]any)
	if data["requested"] != float64(3) || data["processed"] != float64(2) {
		t.Fatalf("unexpected counts: %+v", data)
	}
}

func TestUserHandler_Approve_EmptyIDsRejected(t *testing.T) {
	stub := &stubAccountService{
		approveFn: func(context.Context, []string) (int, error) {
			t.Fatalf("service must not be called")
			return 0, nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/approve", `{"ids":[]}`)
	_ = h.Approve(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_ChangeStatus_Delete(t *testing.T) {
	var gotStatus string
	stub := &stubAccountService{
		changeStatusFn: func(_ context.Context, ids []string, status string) error {
			gotStatus = status
			return nil
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/change-status", `{"ids":["a1"],"status":"delete"}`)
	if err := h.ChangeStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotStatus != domain.StatusDelete {
		t.Fatalf("status = %q", gotStatus)
	}
	resp := decodeEnvelope(t, rec)
	if resp["message"] != msgStatusUpdated {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestUserHandler_ResetPassword_Inactive(t *testing.T) {
	stub := &stubAccountService{
		resetFn: func(context.Context, string) error {
			return domain.ErrAccountNotActive
		},
	}
	h := NewUserHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/users/a1/reset-password", "")
	c.SetParamNames("id")
	c.SetParamValues("a1")

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || resp["success"] != false || resp["message"] != msgNotActive {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

package handler

import "github.com/hubcrm/accounts-api/internal/core/domain"

// parseStatus maps the lowercase wire values onto the canonical domain
// statuses. Unknown values (already rejected by validation) map to the
// empty status.
func parseStatus(s string) domain.Status {
	switch s {
	case "active":
		return domain.StatusActive
	case "inactive":
		return domain.StatusInactive
	case "pending":
		return domain.StatusPending
	}
	return domain.Status("")
}

// --- Request types ---

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name"  validate:"required,max=60"`
	Email     string `json:"email"      validate:"required,email"`
	Mobile    string `json:"mobile"     validate:"omitempty,min=7,max=20"`
	Gender    string `json:"gender"     validate:"omitempty,oneof=male female other"`
	Status    string `json:"status"     validate:"required,oneof=active inactive"`
	// Password is the optional temporary password. When set together with
	// is_password_set the account is created with credentials and the
	// temporary password is mailed instead of a set-password invite.
	Password      string `json:"password" validate:"omitempty,min=8,max=128"`
	IsPasswordSet bool   `json:"is_password_set"`
}

type updateUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name"  validate:"required,max=60"`
	Email     string `json:"email"      validate:"required,email"`
	Mobile    string `json:"mobile"     validate:"omitempty,min=7,max=20"`
	Gender    string `json:"gender"     validate:"omitempty,oneof=male female other"`
	Status    string `json:"status"     validate:"required,oneof=active inactive pending"`
}

type listUsersRequest struct {
	Keyword     string `query:"keyword"`
	Name        string `query:"name"`
	Status      string `query:"status"       validate:"omitempty,oneof=active inactive pending"`
	CreatedFrom string `query:"created_from" validate:"omitempty,datetime=2006-01-02"`
	CreatedTo   string `query:"created_to"   validate:"omitempty,datetime=2006-01-02"`
	SortBy      string `query:"sort_by"      validate:"omitempty,oneof=full_name email status created_at"`
	Order       string `query:"order"        validate:"omitempty,oneof=asc desc"`
	Page        int    `query:"page"         validate:"omitempty,min=1"`
	Limit       int    `query:"limit"        validate:"omitempty,min=1,max=100"`
}

type bulkIDsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type changeStatusRequest struct {
	IDs    []string `json:"ids"    validate:"required,min=1,dive,required"`
	Status string   `json:"status" validate:"required,oneof=active inactive delete"`
}

// --- Response types ---

type bulkCountResponse struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`
}

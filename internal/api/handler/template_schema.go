package handler

import "github.com/hubcrm/accounts-api/internal/core/domain"

type templateRequest struct {
	Title     string `json:"title"      validate:"required,max=120"`
	Code      string `json:"code"       validate:"required,max=60"`
	Subject   string `json:"subject"    validate:"required,max=200"`
	FromName  string `json:"from_name"  validate:"required,max=120"`
	FromEmail string `json:"from_email" validate:"required,email"`
	CC        string `json:"cc"         validate:"omitempty,email"`
	BCC       string `json:"bcc"        validate:"omitempty,email"`
	Message   string `json:"message"    validate:"required"`
}

type listTemplatesRequest struct {
	Keyword string `query:"keyword"`
	SortBy  string `query:"sort_by" validate:"omitempty,oneof=title code subject created_at"`
	Page    int    `query:"page"    validate:"omitempty,min=1"`
	Limit   int    `query:"limit"   validate:"omitempty,min=1,max=100"`
}

func (r templateRequest) toDomain(id string) *domain.EmailTemplate {
	return &domain.EmailTemplate{
		ID:        id,
		Title:     r.Title,
		Code:      r.Code,
		Subject:   r.Subject,
		FromName:  r.FromName,
		FromEmail: r.FromEmail,
		CC:        r.CC,
		BCC:       r.BCC,
		Message:   r.Message,
	}
}

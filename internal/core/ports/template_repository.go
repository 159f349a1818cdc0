package ports

import (
	"context"

	"github.com/hubcrm/accounts-api/internal/core/domain"
)

// TemplatePage is the paginated result shape for template listings.
type TemplatePage struct {
	Docs    []*domain.EmailTemplate `json:"docs"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	HasNext bool                    `json:"next"`
}

// TemplateListQuery filters template listings by keyword over
// title/code/subject/from fields.
type TemplateListQuery struct {
	Keyword string
	SortBy  string
	Page    int
	Limit   int
}

// TemplateRepository persists system email templates.
type TemplateRepository interface {
	FindByCode(ctx context.Context, code string) (*domain.EmailTemplate, error)
	FindByID(ctx context.Context, id string) (*domain.EmailTemplate, error)
	Create(ctx context.Context, tpl *domain.EmailTemplate) (*domain.EmailTemplate, error)
	Update(ctx context.Context, tpl *domain.EmailTemplate) error
	List(ctx context.Context, q TemplateListQuery) (*TemplatePage, error)
}

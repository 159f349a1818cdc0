package service

import (
	"context"

	"github.com/hubcrm/accounts-api/internal/core/domain"
	"github.com/hubcrm/accounts-api/internal/core/ports"
)

// TemplateService manages the stored system email templates.
type TemplateService struct {
	repo ports.TemplateRepository
}

func NewTemplateService(repo ports.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

func (s *TemplateService) Create(ctx context.Context, tpl *domain.EmailTemplate) (*domain.EmailTemplate, error) {
	return s.repo.Create(ctx, tpl)
}

func (s *TemplateService) Update(ctx context.Context, tpl *domain.EmailTemplate) error {
	return s.repo.Update(ctx, tpl)
}

func (s *TemplateService) GetByID(ctx context.Context, id string) (*domain.EmailTemplate, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TemplateService) List(ctx context.Context, q ports.TemplateListQuery) (*ports.TemplatePage, error) {
	return s.repo.List(ctx, q)
}

package processor

import (
	"context"

	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
)

// Store is the persistence surface for template management.
type Store interface {
	CreateTemplate(ctx context.Context, params store.CreateTemplateParams) (store.MessageTemplate, error)
	GetTemplateByID(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error)
	ListTemplates(ctx context.Context) ([]store.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, templateID uuid.UUID, params store.UpdateTemplateParams) (store.MessageTemplate, error)
	DeleteTemplate(ctx context.Context, templateID uuid.UUID) error
}

type TemplateProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) *TemplateProcessor {
	return &TemplateProcessor{
		store:  store,
		logger: logger,
	}
}

func (p *TemplateProcessor) CreateTemplate(ctx context.Context, params store.CreateTemplateParams) (store.MessageTemplate, error) {
	return p.store.CreateTemplate(ctx, params)
}

func (p *TemplateProcessor) GetTemplate(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error) {
	return p.store.GetTemplateByID(ctx, templateID)
}

func (p *TemplateProcessor) ListTemplates(ctx context.Context) ([]store.MessageTemplate, error) {
	return p.store.ListTemplates(ctx)
}

func (p *TemplateProcessor) UpdateTemplate(ctx context.Context, templateID uuid.UUID, params store.UpdateTemplateParams) (store.MessageTemplate, error) {
	return p.store.UpdateTemplate(ctx, templateID, params)
}

func (p *TemplateProcessor) DeleteTemplate(ctx context.Context, templateID uuid.UUID) error {
	return p.store.DeleteTemplate(ctx, templateID)
}

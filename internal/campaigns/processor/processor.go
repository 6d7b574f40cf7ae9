package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
)

// Store is the persistence surface the campaign processor depends on.
type Store interface {
	CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	ListCampaigns(ctx context.Context) ([]store.Campaign, error)
	UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignParams) (store.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error
	GetCampaignsDueForExecution(ctx context.Context, now time.Time) ([]store.Campaign, error)
	MarkCampaignExecuted(ctx context.Context, campaignID uuid.UUID, executedAt time.Time) error

	GetTemplateByID(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error)
	GetLeadsByCampaignTarget(ctx context.Context, targetStatus *store.LeadStatus, targetSource *store.LeadSource) ([]store.Lead, error)

	CreateCampaignResult(ctx context.Context, params store.CreateCampaignResultParams) (store.CampaignResult, error)
	GetCampaignResultStats(ctx context.Context, campaignID uuid.UUID) (store.CampaignResultStats, error)
	CountCampaignResponses(ctx context.Context, campaignID uuid.UUID) (int, error)
}

// Dispatcher sends one rendered message to one lead.
type Dispatcher interface {
	Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult
}

type CampaignProcessor struct {
	store      Store
	dispatcher Dispatcher
	logger     *observability.Logger
}

func New(store Store, dispatcher Dispatcher, logger *observability.Logger) *CampaignProcessor {
	return &CampaignProcessor{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateCampaign validates the template reference before persisting.
func (p *CampaignProcessor) CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error) {
	if _, err := p.store.GetTemplateByID(ctx, params.TemplateID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, fmt.Errorf("template %s: %w", params.TemplateID, store.ErrNotFound)
		}
		return store.Campaign{}, err
	}
	return p.store.CreateCampaign(ctx, params)
}

func (p *CampaignProcessor) GetCampaign(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	return p.store.GetCampaignByID(ctx, campaignID)
}

func (p *CampaignProcessor) ListCampaigns(ctx context.Context) ([]store.Campaign, error) {
	return p.store.ListCampaigns(ctx)
}

func (p *CampaignProcessor) UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignParams) (store.Campaign, error) {
	if params.TemplateID != nil {
		if _, err := p.store.GetTemplateByID(ctx, *params.TemplateID); err != nil {
			return store.Campaign{}, err
		}
	}
	return p.store.UpdateCampaign(ctx, campaignID, params)
}

func (p *CampaignProcessor) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	return p.store.DeleteCampaign(ctx, campaignID)
}

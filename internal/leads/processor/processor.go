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

// defaultWelcomeTemplate greets new website leads when no active
// welcome template exists.
const defaultWelcomeTemplate = `🏗️ ¡Hola! Gracias por tu interés en Nexa Constructora.

Somos especialistas en construcción y desarrollo inmobiliario con más de 10 años de experiencia.

¿En qué proyecto estás pensando? Te ayudo a hacerlo realidad.

📞 Llámanos: +54 9 11 1234-5678
🌐 Visítanos: https://nexaconstructora.com.ar

Saludos,
Equipo Nexa Constructora`

// Store is the persistence surface the lead processor depends on.
type Store interface {
	CreateLead(ctx context.Context, params store.CreateLeadParams) (store.Lead, error)
	GetLeadByID(ctx context.Context, leadID uuid.UUID) (store.Lead, error)
	GetLeadByPhone(ctx context.Context, phoneNumber string) (store.Lead, error)
	ListLeads(ctx context.Context, filter store.ListLeadsFilter) ([]store.Lead, error)
	UpdateLead(ctx context.Context, leadID uuid.UUID, params store.UpdateLeadParams) (store.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status store.LeadStatus, notes *string) (store.Lead, error)
	DeleteLead(ctx context.Context, leadID uuid.UUID) error

	CreateInteraction(ctx context.Context, params store.CreateInteractionParams) (store.Interaction, error)
	ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]store.Interaction, error)
	ListMessagesByLead(ctx context.Context, leadID uuid.UUID) ([]store.Message, error)

	GetActiveTemplateByCategory(ctx context.Context, category store.TemplateCategory) (store.MessageTemplate, error)
	GetTemplateByID(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error)

	GetLeadStatusDistribution(ctx context.Context) ([]store.StatusCount, error)
	GetLeadSourceDistribution(ctx context.Context) ([]store.SourceCount, error)
	CountLeads(ctx context.Context) (int, error)
	CountLeadsByStatus(ctx context.Context, status store.LeadStatus) (int, error)
}

// Dispatcher sends one rendered message to one lead.
type Dispatcher interface {
	Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult
}

type LeadProcessor struct {
	store              Store
	dispatcher         Dispatcher
	defaultCountryCode string
	logger             *observability.Logger
}

func New(store Store, dispatcher Dispatcher, defaultCountryCode string, logger *observability.Logger) *LeadProcessor {
	return &LeadProcessor{
		store:              store,
		dispatcher:         dispatcher,
		defaultCountryCode: defaultCountryCode,
		logger:             logger,
	}
}

// CreateLead registers a lead keyed by normalized phone number. An
// existing phone returns the existing lead untouched. Website leads get
// an immediate welcome message; its failure never fails the create.
func (p *LeadProcessor) CreateLead(ctx context.Context, params store.CreateLeadParams) (store.Lead, bool, error) {
	params.PhoneNumber = messaging.NormalizePhone(params.PhoneNumber, p.defaultCountryCode)
	ctx = observability.WithFields(ctx, observability.Field{Key: "phone_number", Value: params.PhoneNumber})

	existing, err := p.store.GetLeadByPhone(ctx, params.PhoneNumber)
	if err == nil {
		p.logger.Info(ctx, "lead already exists, returning existing")
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return store.Lead{}, false, err
	}

	lead, err := p.store.CreateLead(ctx, params)
	if err != nil {
		return store.Lead{}, false, err
	}
	p.logger.Info(ctx, "lead created")

	if lead.Source == store.LeadSourceWebsite {
		p.sendWelcome(ctx, lead)
	}
	return lead, true, nil
}

// sendWelcome greets a fresh website lead with the active welcome
// template, or the built-in default when none exists.
func (p *LeadProcessor) sendWelcome(ctx context.Context, lead store.Lead) {
	content := defaultWelcomeTemplate
	template, err := p.store.GetActiveTemplateByCategory(ctx, store.TemplateCategoryWelcome)
	if err == nil {
		content = template.Content
	} else if !errors.Is(err, store.ErrNotFound) {
		p.logger.Error(ctx, "failed to load welcome template", err)
	}

	rendered := messaging.RenderTemplate(content, lead, time.Now().UTC())
	result := p.dispatcher.Send(ctx, lead, rendered, nil)
	if !result.Success {
		p.logger.Warn(ctx, fmt.Sprintf("welcome message not delivered: %s", result.ErrorKind))
	}
}

func (p *LeadProcessor) GetLead(ctx context.Context, leadID uuid.UUID) (store.Lead, error) {
	return p.store.GetLeadByID(ctx, leadID)
}

func (p *LeadProcessor) ListLeads(ctx context.Context, filter store.ListLeadsFilter) ([]store.Lead, error) {
	return p.store.ListLeads(ctx, filter)
}

func (p *LeadProcessor) UpdateLead(ctx context.Context, leadID uuid.UUID, params store.UpdateLeadParams) (store.Lead, error) {
	return p.store.UpdateLead(ctx, leadID, params)
}

// UpdateStatus moves a lead through the pipeline, stamping the contact
// date and recording a status_change interaction.
func (p *LeadProcessor) UpdateStatus(ctx context.Context, leadID uuid.UUID, status store.LeadStatus, notes *string) (store.Lead, error) {
	lead, err := p.store.UpdateLeadStatus(ctx, leadID, status, notes)
	if err != nil {
		return store.Lead{}, err
	}

	description := fmt.Sprintf("Estado cambiado a %s", status)
	outcome := string(status)
	_, err = p.store.CreateInteraction(ctx, store.CreateInteractionParams{
		LeadID:          leadID,
		InteractionType: "status_change",
		Description:     &description,
		Outcome:         &outcome,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to record status change interaction", err)
	}
	return lead, nil
}

// DeleteLead removes a lead; messages and interactions cascade with it.
func (p *LeadProcessor) DeleteLead(ctx context.Context, leadID uuid.UUID) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "lead_id", Value: leadID.String()})
	if err := p.store.DeleteLead(ctx, leadID); err != nil {
		return err
	}
	p.logger.Info(ctx, "lead deleted")
	return nil
}

func (p *LeadProcessor) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]store.Interaction, error) {
	return p.store.ListInteractionsByLead(ctx, leadID)
}

func (p *LeadProcessor) ListMessages(ctx context.Context, leadID uuid.UUID) ([]store.Message, error) {
	return p.store.ListMessagesByLead(ctx, leadID)
}

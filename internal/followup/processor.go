package followup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
)

// followUpInterval is how far out the next follow-up is pushed after a
// reminder goes out.
const followUpInterval = 7 * 24 * time.Hour

// defaultFollowUpTemplate is used when no active follow_up template
// exists. Placeholders are rendered like any stored template.
const defaultFollowUpTemplate = `🏗️ Hola {name},

Esperamos que estés bien. Te escribimos para recordarte que estamos aquí para ayudarte con tu proyecto de construcción.

¿Has tenido tiempo de revisar nuestras propuestas? ¿Tienes alguna pregunta?

Estamos disponibles para una consulta gratuita.

Saludos,
Equipo Nexa Constructora`

// Store is the subset of persistence the follow-up engine needs.
type Store interface {
	GetLeadsDueForFollowUp(ctx context.Context, now time.Time) ([]store.Lead, error)
	GetActiveTemplateByCategory(ctx context.Context, category store.TemplateCategory) (store.MessageTemplate, error)
	UpdateLeadFollowUpState(ctx context.Context, leadID uuid.UUID, status store.LeadStatus, lastContact time.Time, nextFollowUp time.Time) error
	CountLeadsCreatedSince(ctx context.Context, since time.Time, source *store.LeadSource) (int, error)
	CountLeadsConvertedSince(ctx context.Context, since time.Time) (int, error)
	GetScheduledMessagesDue(ctx context.Context, now time.Time) ([]store.Message, error)
	GetLeadByID(ctx context.Context, leadID uuid.UUID) (store.Lead, error)
	MarkMessageSent(ctx context.Context, messageID uuid.UUID, twilioSID string, sentAt time.Time) error
	MarkMessageFailed(ctx context.Context, messageID uuid.UUID) error
}

// Dispatcher sends a rendered message to a lead.
type Dispatcher interface {
	Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult
}

// Mailer sends the administrator's email copy of the weekly summary.
type Mailer interface {
	SendEmail(ctx context.Context, from, to, subject, htmlContent string) (string, error)
}

// Processor runs the recurring follow-up work: due reminders, the
// weekly summary, and dispatch of messages whose schedule has arrived.
// A nil channel or mailer disables that delivery path without failing
// the run.
type Processor struct {
	store              Store
	dispatcher         Dispatcher
	channel            messaging.Channel
	mailer             Mailer
	adminWhatsApp      string
	adminEmail         string
	emailSender        string
	defaultCountryCode string
	logger             *observability.Logger
}

type Config struct {
	AdminWhatsApp      string
	AdminEmail         string
	EmailSender        string
	DefaultCountryCode string
}

func New(store Store, dispatcher Dispatcher, channel messaging.Channel, mailer Mailer, cfg Config, logger *observability.Logger) *Processor {
	return &Processor{
		store:              store,
		dispatcher:         dispatcher,
		channel:            channel,
		mailer:             mailer,
		adminWhatsApp:      cfg.AdminWhatsApp,
		adminEmail:         cfg.AdminEmail,
		emailSender:        cfg.EmailSender,
		defaultCountryCode: cfg.DefaultCountryCode,
		logger:             logger,
	}
}

// RunFollowUpReminders sends a follow-up message to every lead whose
// next_follow_up has passed. A lead that fails does not stop the rest;
// successful sends push the lead's next follow-up out by a week.
func (p *Processor) RunFollowUpReminders(ctx context.Context) error {
	now := time.Now().UTC()

	leads, err := p.store.GetLeadsDueForFollowUp(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query leads due for follow-up: %w", err)
	}
	if len(leads) == 0 {
		return nil
	}
	p.logger.Info(ctx, fmt.Sprintf("Sending follow-up reminders to %d leads", len(leads)))

	content := defaultFollowUpTemplate
	template, err := p.store.GetActiveTemplateByCategory(ctx, store.TemplateCategoryFollowUp)
	if err == nil {
		content = template.Content
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load follow-up template: %w", err)
	}

	for _, lead := range leads {
		leadCtx := observability.WithFields(ctx, observability.Field{Key: "lead_id", Value: lead.ID.String()})

		rendered := messaging.RenderTemplate(content, lead, now)
		result := p.dispatcher.Send(leadCtx, lead, rendered, nil)
		if !result.Success {
			p.logger.Warn(leadCtx, fmt.Sprintf("follow-up send failed: %s", result.ErrorKind))
			continue
		}

		status := lead.Status
		if status == store.LeadStatusNew {
			status = store.LeadStatusContacted
		}
		if err := p.store.UpdateLeadFollowUpState(leadCtx, lead.ID, status, now, now.Add(followUpInterval)); err != nil {
			p.logger.Error(leadCtx, "failed to update follow-up state after send", err)
		}
	}
	return nil
}

// RunWeeklySummary sends the administrator a seven-day recap of new
// website leads and conversions over WhatsApp, with an email copy when
// a mailer is configured. Delivery failures are logged, not returned.
func (p *Processor) RunWeeklySummary(ctx context.Context) error {
	weekAgo := time.Now().UTC().Add(-7 * 24 * time.Hour)

	website := store.LeadSourceWebsite
	newLeads, err := p.store.CountLeadsCreatedSince(ctx, weekAgo, &website)
	if err != nil {
		return fmt.Errorf("failed to count new leads: %w", err)
	}
	converted, err := p.store.CountLeadsConvertedSince(ctx, weekAgo)
	if err != nil {
		return fmt.Errorf("failed to count converted leads: %w", err)
	}

	var rate float64
	if newLeads > 0 {
		rate = float64(converted) / float64(newLeads) * 100
	}

	summary := fmt.Sprintf(`📊 Resumen Semanal - Nexa Constructora

Nuevos leads: %d
Leads convertidos: %d
Tasa de conversión: %.1f%%

Revisa el dashboard para más detalles:
https://nexaconstructora.com.ar/dashboard`, newLeads, converted, rate)

	if p.channel != nil && p.adminWhatsApp != "" {
		to := messaging.NormalizePhone(p.adminWhatsApp, p.defaultCountryCode)
		if _, err := p.channel.SendWhatsApp(ctx, to, summary); err != nil {
			p.logger.Error(ctx, "failed to send weekly summary over WhatsApp", err)
		}
	}

	if p.mailer != nil && p.adminEmail != "" {
		html := "<pre>" + strings.ReplaceAll(summary, "\n", "<br>") + "</pre>"
		if _, err := p.mailer.SendEmail(ctx, p.emailSender, p.adminEmail, "Resumen Semanal - Nexa Constructora", html); err != nil {
			p.logger.Error(ctx, "failed to send weekly summary email", err)
		}
	}
	return nil
}

// RunScheduledDispatch delivers outbound messages whose scheduled time
// has arrived. Without a configured channel the messages stay scheduled
// and are retried once a channel exists.
func (p *Processor) RunScheduledDispatch(ctx context.Context) error {
	now := time.Now().UTC()

	messages, err := p.store.GetScheduledMessagesDue(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query scheduled messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}
	if p.channel == nil {
		p.logger.Warn(ctx, fmt.Sprintf("%d scheduled messages due but no channel configured", len(messages)))
		return nil
	}

	for _, message := range messages {
		msgCtx := observability.WithFields(ctx,
			observability.Field{Key: "message_id", Value: message.ID.String()},
			observability.Field{Key: "lead_id", Value: message.LeadID.String()},
		)

		lead, err := p.store.GetLeadByID(msgCtx, message.LeadID)
		if err != nil {
			p.logger.Error(msgCtx, "failed to load lead for scheduled message", err)
			if markErr := p.store.MarkMessageFailed(msgCtx, message.ID); markErr != nil {
				p.logger.Error(msgCtx, "failed to mark scheduled message failed", markErr)
			}
			continue
		}

		to := messaging.NormalizePhone(lead.PhoneNumber, p.defaultCountryCode)
		sid, err := p.channel.SendWhatsApp(msgCtx, to, message.Content)
		if err != nil {
			p.logger.Error(msgCtx, "scheduled message send failed", err)
			if markErr := p.store.MarkMessageFailed(msgCtx, message.ID); markErr != nil {
				p.logger.Error(msgCtx, "failed to mark scheduled message failed", markErr)
			}
			continue
		}

		if err := p.store.MarkMessageSent(msgCtx, message.ID, sid, time.Now().UTC()); err != nil {
			p.logger.Error(msgCtx, "failed to mark scheduled message sent", err)
		}
	}
	return nil
}

package messaging

import (
	"context"
	"fmt"
	"time"

	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"
)

// ErrorKind classifies dispatch failures for the caller.
type ErrorKind string

const (
	ErrorKindNone                ErrorKind = ""
	ErrorKindChannelUnconfigured ErrorKind = "channel_unconfigured"
	ErrorKindSendFailed          ErrorKind = "send_failed"
	ErrorKindPersistenceFailed   ErrorKind = "persistence_failed"
)

// SendResult is the structured outcome of one dispatch attempt. There is
// no automatic retry; the caller decides what to do with a failure.
type SendResult struct {
	Success   bool
	Message   store.Message
	ErrorKind ErrorKind
}

// Channel is the external messaging channel. A send returns the channel's
// message id.
type Channel interface {
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

// Store is the subset of persistence the dispatcher needs.
type Store interface {
	CreateMessage(ctx context.Context, params store.CreateMessageParams) (store.Message, error)
	CreateInteraction(ctx context.Context, params store.CreateInteractionParams) (store.Interaction, error)
}

// Dispatcher sends rendered messages to leads over the WhatsApp channel.
// A nil channel means the channel is not configured; sends are recorded
// as failed instead of crashing.
type Dispatcher struct {
	store              Store
	channel            Channel
	defaultCountryCode string
	logger             *observability.Logger
}

func NewDispatcher(store Store, channel Channel, defaultCountryCode string, logger *observability.Logger) *Dispatcher {
	return &Dispatcher{
		store:              store,
		channel:            channel,
		defaultCountryCode: defaultCountryCode,
		logger:             logger,
	}
}

// Send dispatches rendered content to a lead. A future scheduledAt
// persists the message as scheduled without sending; the scheduled
// dispatch job picks it up later. An immediate send calls the channel
// and persists the outcome. An Interaction is always appended, success
// or failure.
func (d *Dispatcher) Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) SendResult {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "lead_id", Value: lead.ID.String()},
	)

	now := time.Now().UTC()
	if scheduledAt != nil && scheduledAt.After(now) {
		message, err := d.store.CreateMessage(ctx, store.CreateMessageParams{
			LeadID:      lead.ID,
			Content:     content,
			Direction:   store.MessageDirectionOutbound,
			Status:      store.MessageStatusScheduled,
			ScheduledAt: scheduledAt,
		})
		if err != nil {
			d.logger.Error(ctx, "failed to persist scheduled message", err)
			return SendResult{ErrorKind: ErrorKindPersistenceFailed}
		}
		d.recordInteraction(ctx, lead, "scheduled", fmt.Sprintf("Mensaje programado para %s", scheduledAt.Format(time.RFC3339)))
		return SendResult{Success: true, Message: message}
	}

	if d.channel == nil {
		d.logger.Warn(ctx, "messaging channel not configured, recording failed send")
		message, err := d.store.CreateMessage(ctx, store.CreateMessageParams{
			LeadID:    lead.ID,
			Content:   content,
			Direction: store.MessageDirectionOutbound,
			Status:    store.MessageStatusFailed,
		})
		if err != nil {
			d.logger.Error(ctx, "failed to persist message", err)
			return SendResult{ErrorKind: ErrorKindPersistenceFailed}
		}
		d.recordInteraction(ctx, lead, "failed", "Canal de WhatsApp no configurado")
		return SendResult{Message: message, ErrorKind: ErrorKindChannelUnconfigured}
	}

	to := NormalizePhone(lead.PhoneNumber, d.defaultCountryCode)
	sid, sendErr := d.channel.SendWhatsApp(ctx, to, content)
	if sendErr != nil {
		d.logger.Error(ctx, "channel send failed", sendErr)
		message, err := d.store.CreateMessage(ctx, store.CreateMessageParams{
			LeadID:    lead.ID,
			Content:   content,
			Direction: store.MessageDirectionOutbound,
			Status:    store.MessageStatusFailed,
		})
		if err != nil {
			d.logger.Error(ctx, "failed to persist failed message", err)
			return SendResult{ErrorKind: ErrorKindPersistenceFailed}
		}
		d.recordInteraction(ctx, lead, "failed", fmt.Sprintf("Error al enviar mensaje: %v", sendErr))
		return SendResult{Message: message, ErrorKind: ErrorKindSendFailed}
	}

	sentAt := time.Now().UTC()
	message, err := d.store.CreateMessage(ctx, store.CreateMessageParams{
		LeadID:    lead.ID,
		Content:   content,
		Direction: store.MessageDirectionOutbound,
		Status:    store.MessageStatusSent,
		TwilioSID: &sid,
		SentAt:    &sentAt,
	})
	if err != nil {
		// The channel accepted the message but the record is lost.
		d.logger.Error(ctx, "failed to persist sent message", err)
		return SendResult{ErrorKind: ErrorKindPersistenceFailed}
	}

	d.recordInteraction(ctx, lead, "sent", "Mensaje de WhatsApp enviado")
	return SendResult{Success: true, Message: message}
}

// recordInteraction appends the audit entry for a dispatch attempt.
// Interaction persistence failures are logged, never propagated.
func (d *Dispatcher) recordInteraction(ctx context.Context, lead store.Lead, outcome, description string) {
	_, err := d.store.CreateInteraction(ctx, store.CreateInteractionParams{
		LeadID:          lead.ID,
		InteractionType: "whatsapp",
		Description:     &description,
		Outcome:         &outcome,
	})
	if err != nil {
		d.logger.Error(ctx, "failed to record interaction", err)
	}
}

package webhooks

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	aiprocessor "nexa-crm/internal/ai/processor"
	"nexa-crm/internal/bot"
	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/gin-gonic/gin"
)

// emptyTwiML acknowledges the webhook without instructing Twilio to
// reply; replies go out through the dispatcher instead.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// LeadRegistry resolves or registers the lead behind an inbound number.
type LeadRegistry interface {
	CreateLead(ctx context.Context, params store.CreateLeadParams) (store.Lead, bool, error)
}

// Store persists the inbound message and its audit trail.
type Store interface {
	CreateMessage(ctx context.Context, params store.CreateMessageParams) (store.Message, error)
	CreateInteraction(ctx context.Context, params store.CreateInteractionParams) (store.Interaction, error)
}

// Dispatcher sends the reply back to the lead.
type Dispatcher interface {
	Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult
}

// Estimator answers messages the keyword table cannot.
type Estimator interface {
	AnalyzeIntent(ctx context.Context, messageContent string, lead store.Lead) aiprocessor.IntentAnalysis
}

// Handler receives Twilio's inbound WhatsApp callbacks. Every inbound
// message is persisted; the reply is the bot's canned answer when a
// keyword matches, otherwise the estimator's suggested response.
type Handler struct {
	leads      LeadRegistry
	store      Store
	dispatcher Dispatcher
	estimator  Estimator
	logger     *observability.Logger
}

func New(leads LeadRegistry, store Store, dispatcher Dispatcher, estimator Estimator, logger *observability.Logger) Handler {
	return Handler{
		leads:      leads,
		store:      store,
		dispatcher: dispatcher,
		estimator:  estimator,
		logger:     logger,
	}
}

func (h Handler) HandleInboundWhatsApp(c *gin.Context) {
	ctx := c.Request.Context()

	from := strings.TrimPrefix(c.PostForm("From"), "whatsapp:")
	body := strings.TrimSpace(c.PostForm("Body"))
	messageSID := c.PostForm("MessageSid")
	profileName := strings.TrimSpace(c.PostForm("ProfileName"))

	if from == "" || body == "" {
		c.Data(http.StatusBadRequest, "text/xml", []byte(emptyTwiML))
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "whatsapp_from", Value: from})

	lead, created, err := h.leads.CreateLead(ctx, store.CreateLeadParams{
		Name:          profileName,
		PhoneNumber:   from,
		Status:        store.LeadStatusNew,
		Source:        store.LeadSourceWhatsApp,
		InterestLevel: 1,
		Priority:      store.LeadPriorityMedium,
	})
	if err != nil {
		h.logger.Error(ctx, "failed to resolve inbound lead", err)
		c.Data(http.StatusInternalServerError, "text/xml", []byte(emptyTwiML))
		return
	}

	h.recordInbound(ctx, lead, body, messageSID)

	reply := h.replyFor(ctx, lead, body, created)
	result := h.dispatcher.Send(ctx, lead, reply, nil)
	if !result.Success {
		h.logger.Warn(ctx, fmt.Sprintf("failed to answer inbound message: %s", result.ErrorKind))
	}

	c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
}

// replyFor picks the answer for an inbound message. First contact gets
// the welcome menu; explicit agent requests get the transfer notice;
// keyword hits get the canned reply; everything else is answered by the
// estimator.
func (h Handler) replyFor(ctx context.Context, lead store.Lead, body string, firstContact bool) string {
	if firstContact {
		return bot.WelcomeMessage
	}
	if bot.IsTransferRequest(body) {
		return bot.TransferMessage
	}
	if reply, ok := bot.ResponseFor(body); ok {
		return reply
	}
	analysis := h.estimator.AnalyzeIntent(ctx, body, lead)
	return analysis.SuggestedResponse
}

func (h Handler) recordInbound(ctx context.Context, lead store.Lead, body, messageSID string) {
	params := store.CreateMessageParams{
		LeadID:    lead.ID,
		Content:   body,
		Direction: store.MessageDirectionInbound,
		Status:    store.MessageStatusDelivered,
	}
	if messageSID != "" {
		params.TwilioSID = &messageSID
	}
	if _, err := h.store.CreateMessage(ctx, params); err != nil {
		h.logger.Error(ctx, "failed to persist inbound message", err)
	}

	description := fmt.Sprintf("Mensaje recibido: %s", truncate(body, 120))
	outcome := "received"
	_, err := h.store.CreateInteraction(ctx, store.CreateInteractionParams{
		LeadID:          lead.ID,
		InteractionType: "whatsapp",
		Description:     &description,
		Outcome:         &outcome,
	})
	if err != nil {
		h.logger.Error(ctx, "failed to record inbound interaction", err)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

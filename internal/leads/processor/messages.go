package processor

import (
	"context"
	"fmt"
	"time"

	"nexa-crm/internal/messaging"

	"github.com/google/uuid"
)

// SendMessageParams describes a manual send to one lead. Content and
// TemplateID are mutually exclusive; a template is rendered with the
// lead's data before sending. A future ScheduledAt defers the send.
type SendMessageParams struct {
	LeadID      uuid.UUID
	Content     string
	TemplateID  *uuid.UUID
	ScheduledAt *time.Time
}

// SendMessage dispatches a one-off message to a lead.
func (p *LeadProcessor) SendMessage(ctx context.Context, params SendMessageParams) (messaging.SendResult, error) {
	lead, err := p.store.GetLeadByID(ctx, params.LeadID)
	if err != nil {
		return messaging.SendResult{}, err
	}

	content := params.Content
	if params.TemplateID != nil {
		template, err := p.store.GetTemplateByID(ctx, *params.TemplateID)
		if err != nil {
			return messaging.SendResult{}, fmt.Errorf("failed to load template: %w", err)
		}
		content = template.Content
	}
	if content == "" {
		return messaging.SendResult{}, fmt.Errorf("message content is empty")
	}

	rendered := messaging.RenderTemplate(content, lead, time.Now().UTC())
	return p.dispatcher.Send(ctx, lead, rendered, params.ScheduledAt), nil
}

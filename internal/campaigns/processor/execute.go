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

// ExecutionSummary reports one campaign run. Executed is false when the
// campaign was missing or inactive and nothing happened.
type ExecutionSummary struct {
	Executed   bool `json:"executed"`
	TotalLeads int  `json:"total_leads"`
	Sent       int  `json:"sent"`
	Failed     int  `json:"failed"`
}

// ExecuteCampaign sends the campaign template to every lead matching
// the target filters. A missing or inactive campaign is a quiet no-op.
// Each lead is handled independently; a CampaignResult row is recorded
// only for successful sends. Nothing stops a campaign from being
// executed twice by hand; only the scheduler's poll path checks
// executed_at.
func (p *CampaignProcessor) ExecuteCampaign(ctx context.Context, campaignID uuid.UUID) (ExecutionSummary, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.logger.Warn(ctx, "campaign not found, skipping execution")
			return ExecutionSummary{}, nil
		}
		return ExecutionSummary{}, err
	}
	if !campaign.IsActive {
		p.logger.Info(ctx, "campaign is inactive, skipping execution")
		return ExecutionSummary{}, nil
	}

	template, err := p.store.GetTemplateByID(ctx, campaign.TemplateID)
	if err != nil {
		return ExecutionSummary{}, fmt.Errorf("failed to load campaign template: %w", err)
	}

	leads, err := p.store.GetLeadsByCampaignTarget(ctx, campaign.TargetStatus, campaign.TargetSource)
	if err != nil {
		return ExecutionSummary{}, fmt.Errorf("failed to query campaign targets: %w", err)
	}

	summary := ExecutionSummary{Executed: true, TotalLeads: len(leads)}
	now := time.Now().UTC()

	for _, lead := range leads {
		leadCtx := observability.WithFields(ctx, observability.Field{Key: "lead_id", Value: lead.ID.String()})

		content := messaging.RenderTemplate(template.Content, lead, now)
		result := p.dispatcher.Send(leadCtx, lead, content, nil)
		if !result.Success {
			summary.Failed++
			p.logger.Warn(leadCtx, fmt.Sprintf("campaign send failed: %s", result.ErrorKind))
			continue
		}

		summary.Sent++
		sentAt := time.Now().UTC()
		_, err := p.store.CreateCampaignResult(leadCtx, store.CreateCampaignResultParams{
			CampaignID: campaign.ID,
			LeadID:     lead.ID,
			MessageID:  result.Message.ID,
			Status:     store.MessageStatusSent,
			SentAt:     &sentAt,
		})
		if err != nil {
			p.logger.Error(leadCtx, "failed to record campaign result", err)
		}
	}

	p.logger.Info(ctx, fmt.Sprintf("Campaign executed: %d sent, %d failed of %d leads",
		summary.Sent, summary.Failed, summary.TotalLeads))
	return summary, nil
}

// RunScheduledCampaigns executes campaigns whose scheduled date has
// arrived and stamps executed_at so the poller never re-runs them.
func (p *CampaignProcessor) RunScheduledCampaigns(ctx context.Context) error {
	now := time.Now().UTC()

	campaigns, err := p.store.GetCampaignsDueForExecution(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query due campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		campaignCtx := observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaign.ID.String()})

		// Stamp before sending so a crash mid-campaign cannot double-send
		// the whole list on the next tick.
		if err := p.store.MarkCampaignExecuted(campaignCtx, campaign.ID, now); err != nil {
			p.logger.Error(campaignCtx, "failed to mark campaign executed", err)
			continue
		}

		if _, err := p.ExecuteCampaign(campaignCtx, campaign.ID); err != nil {
			p.logger.Error(campaignCtx, "scheduled campaign execution failed", err)
		}
	}
	return nil
}

// PollJob triggers due scheduled campaigns every minute.
type PollJob struct {
	Processor *CampaignProcessor
}

func (j PollJob) Name() string            { return "campaign_poller" }
func (j PollJob) Schedule() time.Duration { return time.Minute }

func (j PollJob) Run(ctx context.Context) error {
	return j.Processor.RunScheduledCampaigns(ctx)
}

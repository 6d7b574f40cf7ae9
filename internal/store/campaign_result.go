package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateCampaignResultParams represents parameters for recording a
// campaign send
type CreateCampaignResultParams struct {
	CampaignID uuid.UUID
	LeadID     uuid.UUID
	MessageID  uuid.UUID
	Status     MessageStatus
	SentAt     *time.Time
}

// CampaignResultStats aggregates delivery outcomes for one campaign
type CampaignResultStats struct {
	Total     int `db:"total"`
	Sent      int `db:"sent"`
	Delivered int `db:"delivered"`
	Read      int `db:"read"`
	Failed    int `db:"failed"`
}

const sqlCreateCampaignResult = `
INSERT INTO campaign_results (campaign_id, lead_id, message_id, status, sent_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, campaign_id, lead_id, message_id, status, sent_at, delivered_at, read_at, created_at
`

// CreateCampaignResult records one campaign send to one lead
func (s *Store) CreateCampaignResult(ctx context.Context, params CreateCampaignResultParams) (CampaignResult, error) {
	var result CampaignResult
	err := s.db.GetContext(ctx, &result, sqlCreateCampaignResult,
		params.CampaignID,
		params.LeadID,
		params.MessageID,
		params.Status,
		params.SentAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign result", err)
		return CampaignResult{}, fmt.Errorf("failed to create campaign result: %w", err)
	}
	return result, nil
}

const sqlListCampaignResults = `
SELECT id, campaign_id, lead_id, message_id, status, sent_at, delivered_at, read_at, created_at
FROM campaign_results
WHERE campaign_id = $1
ORDER BY created_at
`

// ListCampaignResults retrieves all results for a campaign
func (s *Store) ListCampaignResults(ctx context.Context, campaignID uuid.UUID) ([]CampaignResult, error) {
	results := []CampaignResult{}
	err := s.db.SelectContext(ctx, &results, sqlListCampaignResults, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaign results", err)
		return nil, fmt.Errorf("failed to list campaign results: %w", err)
	}
	return results, nil
}

const sqlGetCampaignResultStats = `
SELECT
    COUNT(*)::int AS total,
    COALESCE(COUNT(*) FILTER (WHERE status IN ('sent', 'delivered', 'read')), 0)::int AS sent,
    COALESCE(COUNT(*) FILTER (WHERE delivered_at IS NOT NULL), 0)::int AS delivered,
    COALESCE(COUNT(*) FILTER (WHERE read_at IS NOT NULL), 0)::int AS read,
    COALESCE(COUNT(*) FILTER (WHERE status = 'failed'), 0)::int AS failed
FROM campaign_results
WHERE campaign_id = $1
`

// GetCampaignResultStats aggregates delivery outcomes for a campaign
func (s *Store) GetCampaignResultStats(ctx context.Context, campaignID uuid.UUID) (CampaignResultStats, error) {
	var stats CampaignResultStats
	err := s.db.GetContext(ctx, &stats, sqlGetCampaignResultStats, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to get campaign result stats", err)
		return CampaignResultStats{}, fmt.Errorf("failed to get campaign result stats: %w", err)
	}
	return stats, nil
}

const sqlCountCampaignResponses = `
SELECT COUNT(DISTINCT m.lead_id)::int
FROM campaign_results cr
JOIN messages m ON m.lead_id = cr.lead_id
WHERE cr.campaign_id = $1
  AND m.direction = 'inbound'
  AND m.created_at >= cr.created_at
`

// CountCampaignResponses counts leads that sent an inbound message after
// receiving the campaign
func (s *Store) CountCampaignResponses(ctx context.Context, campaignID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountCampaignResponses, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to count campaign responses", err)
		return 0, fmt.Errorf("failed to count campaign responses: %w", err)
	}
	return count, nil
}

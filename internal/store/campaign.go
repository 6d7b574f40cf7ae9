package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	Name          string
	Description   *string
	TemplateID    uuid.UUID
	TargetStatus  *LeadStatus
	TargetSource  *LeadSource
	ScheduledDate *time.Time
	IsActive      bool
}

// UpdateCampaignParams represents parameters for updating a campaign
type UpdateCampaignParams struct {
	Name          *string
	Description   *string
	TemplateID    *uuid.UUID
	TargetStatus  *LeadStatus
	TargetSource  *LeadSource
	ScheduledDate *time.Time
	IsActive      *bool
}

const sqlCreateCampaign = `
INSERT INTO campaigns (name, description, template_id, target_status, target_source, scheduled_date, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, description, template_id, target_status, target_source, scheduled_date, is_active, executed_at, created_at, updated_at
`

// CreateCampaign creates a new campaign
func (s *Store) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlCreateCampaign,
		params.Name,
		params.Description,
		params.TemplateID,
		params.TargetStatus,
		params.TargetSource,
		params.ScheduledDate,
		params.IsActive)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignByID = `
SELECT id, name, description, template_id, target_status, target_source, scheduled_date, is_active, executed_at, created_at, updated_at
FROM campaigns
WHERE id = $1
`

// GetCampaignByID retrieves a campaign by ID
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

const sqlListCampaigns = `
SELECT id, name, description, template_id, target_status, target_source, scheduled_date, is_active, executed_at, created_at, updated_at
FROM campaigns
ORDER BY created_at DESC
`

// ListCampaigns retrieves all campaigns, newest first
func (s *Store) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	campaigns := []Campaign{}
	err := s.db.SelectContext(ctx, &campaigns, sqlListCampaigns)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns", err)
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

const sqlUpdateCampaign = `
UPDATE campaigns
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    template_id = COALESCE($4, template_id),
    target_status = COALESCE($5, target_status),
    target_source = COALESCE($6, target_source),
    scheduled_date = COALESCE($7, scheduled_date),
    is_active = COALESCE($8, is_active),
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, description, template_id, target_status, target_source, scheduled_date, is_active, executed_at, created_at, updated_at
`

// UpdateCampaign applies a partial update to a campaign
func (s *Store) UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params UpdateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlUpdateCampaign,
		campaignID,
		params.Name,
		params.Description,
		params.TemplateID,
		params.TargetStatus,
		params.TargetSource,
		params.ScheduledDate,
		params.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update campaign", err)
		return Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

const sqlDeleteCampaign = `
DELETE FROM campaigns
WHERE id = $1
`

// DeleteCampaign removes a campaign. Results cascade at the database level.
func (s *Store) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteCampaign, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const sqlGetCampaignsDueForExecution = `
SELECT id, name, description, template_id, target_status, target_source, scheduled_date, is_active, executed_at, created_at, updated_at
FROM campaigns
WHERE is_active = true
  AND scheduled_date IS NOT NULL
  AND scheduled_date <= $1
  AND executed_at IS NULL
ORDER BY scheduled_date
`

// GetCampaignsDueForExecution retrieves active scheduled campaigns whose
// scheduled date has arrived and which have not yet been run by the poller
func (s *Store) GetCampaignsDueForExecution(ctx context.Context, now time.Time) ([]Campaign, error) {
	campaigns := []Campaign{}
	err := s.db.SelectContext(ctx, &campaigns, sqlGetCampaignsDueForExecution, now)
	if err != nil {
		s.logger.Error(ctx, "failed to get campaigns due for execution", err)
		return nil, fmt.Errorf("failed to get campaigns due for execution: %w", err)
	}
	return campaigns, nil
}

const sqlMarkCampaignExecuted = `
UPDATE campaigns
SET executed_at = $2,
    updated_at = NOW()
WHERE id = $1
`

// MarkCampaignExecuted stamps a campaign's executed_at so the scheduled
// poller fires it only once
func (s *Store) MarkCampaignExecuted(ctx context.Context, campaignID uuid.UUID, executedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, sqlMarkCampaignExecuted, campaignID, executedAt)
	if err != nil {
		s.logger.Error(ctx, "failed to mark campaign executed", err)
		return fmt.Errorf("failed to mark campaign executed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

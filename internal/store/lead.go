package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateLeadParams represents parameters for creating a lead
type CreateLeadParams struct {
	Name           string
	PhoneNumber    string
	Email          *string
	Company        *string
	Status         LeadStatus
	Source         LeadSource
	InterestLevel  int
	Priority       LeadPriority
	Notes          *string
	EstimatedValue *float64
	ProjectType    *string
	Location       *string
}

// UpdateLeadParams represents parameters for updating a lead.
// The phone number is deliberately absent: lead identity is immutable.
type UpdateLeadParams struct {
	Name           *string
	Email          *string
	Company        *string
	Status         *LeadStatus
	InterestLevel  *int
	Priority       *LeadPriority
	Notes          *string
	EstimatedValue *float64
	ProjectType    *string
	Location       *string
	NextFollowUp   *time.Time
}

// ListLeadsFilter narrows ListLeads results. Nil fields match everything.
type ListLeadsFilter struct {
	Status *LeadStatus
	Source *LeadSource
}

const sqlCreateLead = `
INSERT INTO leads (name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
`

// CreateLead creates a new lead
func (s *Store) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlCreateLead,
		params.Name,
		params.PhoneNumber,
		params.Email,
		params.Company,
		params.Status,
		params.Source,
		params.InterestLevel,
		params.Priority,
		params.Notes,
		params.EstimatedValue,
		params.ProjectType,
		params.Location)
	if err != nil {
		s.logger.Error(ctx, "failed to create lead", err)
		return Lead{}, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

const sqlGetLeadByID = `
SELECT id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
FROM leads
WHERE id = $1
`

// GetLeadByID retrieves a lead by ID
func (s *Store) GetLeadByID(ctx context.Context, leadID uuid.UUID) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlGetLeadByID, leadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get lead by id", err)
		return Lead{}, fmt.Errorf("failed to get lead by id: %w", err)
	}
	return lead, nil
}

const sqlGetLeadByPhone = `
SELECT id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
FROM leads
WHERE phone_number = $1
`

// GetLeadByPhone retrieves a lead by its canonical phone number
func (s *Store) GetLeadByPhone(ctx context.Context, phoneNumber string) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlGetLeadByPhone, phoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get lead by phone", err)
		return Lead{}, fmt.Errorf("failed to get lead by phone: %w", err)
	}
	return lead, nil
}

const sqlListLeads = `
SELECT id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
FROM leads
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR source = $2)
ORDER BY created_at DESC
`

// ListLeads retrieves leads matching the filter, newest first
func (s *Store) ListLeads(ctx context.Context, filter ListLeadsFilter) ([]Lead, error) {
	leads := []Lead{}
	err := s.db.SelectContext(ctx, &leads, sqlListLeads, filter.Status, filter.Source)
	if err != nil {
		s.logger.Error(ctx, "failed to list leads", err)
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return leads, nil
}

const sqlUpdateLead = `
UPDATE leads
SET name = COALESCE($2, name),
    email = COALESCE($3, email),
    company = COALESCE($4, company),
    status = COALESCE($5, status),
    interest_level = COALESCE($6, interest_level),
    priority = COALESCE($7, priority),
    notes = COALESCE($8, notes),
    estimated_value = COALESCE($9, estimated_value),
    project_type = COALESCE($10, project_type),
    location = COALESCE($11, location),
    next_follow_up = COALESCE($12, next_follow_up),
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
`

// UpdateLead applies a partial update to a lead
func (s *Store) UpdateLead(ctx context.Context, leadID uuid.UUID, params UpdateLeadParams) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlUpdateLead,
		leadID,
		params.Name,
		params.Email,
		params.Company,
		params.Status,
		params.InterestLevel,
		params.Priority,
		params.Notes,
		params.EstimatedValue,
		params.ProjectType,
		params.Location,
		params.NextFollowUp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update lead", err)
		return Lead{}, fmt.Errorf("failed to update lead: %w", err)
	}
	return lead, nil
}

const sqlUpdateLeadStatus = `
UPDATE leads
SET status = $2,
    last_contact_date = NOW(),
    notes = COALESCE($3, notes),
    updated_at = NOW()
WHERE id = $1
RETURNING id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
`

// UpdateLeadStatus moves a lead to a new pipeline status and stamps the
// last contact date
func (s *Store) UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status LeadStatus, notes *string) (Lead, error) {
	var lead Lead
	err := s.db.GetContext(ctx, &lead, sqlUpdateLeadStatus, leadID, status, notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update lead status", err)
		return Lead{}, fmt.Errorf("failed to update lead status: %w", err)
	}
	return lead, nil
}

const sqlUpdateLeadFollowUpState = `
UPDATE leads
SET status = $2,
    last_contact_date = $3,
    next_follow_up = $4,
    updated_at = NOW()
WHERE id = $1
`

// UpdateLeadFollowUpState records the outcome of a follow-up send:
// new status, contact timestamp, and the next scheduled follow-up.
func (s *Store) UpdateLeadFollowUpState(ctx context.Context, leadID uuid.UUID, status LeadStatus, lastContact time.Time, nextFollowUp time.Time) error {
	result, err := s.db.ExecContext(ctx, sqlUpdateLeadFollowUpState, leadID, status, lastContact, nextFollowUp)
	if err != nil {
		s.logger.Error(ctx, "failed to update lead follow-up state", err)
		return fmt.Errorf("failed to update lead follow-up state: %w", err)
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

const sqlDeleteLead = `
DELETE FROM leads
WHERE id = $1
`

// DeleteLead removes a lead. Messages and interactions cascade at the
// database level.
func (s *Store) DeleteLead(ctx context.Context, leadID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, sqlDeleteLead, leadID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete lead", err)
		return fmt.Errorf("failed to delete lead: %w", err)
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

const sqlGetLeadsDueForFollowUp = `
SELECT id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
FROM leads
WHERE next_follow_up IS NOT NULL
  AND next_follow_up <= $1
  AND status IN ('contacted', 'interested')
ORDER BY next_follow_up
`

// GetLeadsDueForFollowUp retrieves leads whose follow-up is due.
// Only actively-worked pipeline stages are eligible.
func (s *Store) GetLeadsDueForFollowUp(ctx context.Context, now time.Time) ([]Lead, error) {
	leads := []Lead{}
	err := s.db.SelectContext(ctx, &leads, sqlGetLeadsDueForFollowUp, now)
	if err != nil {
		s.logger.Error(ctx, "failed to get leads due for follow-up", err)
		return nil, fmt.Errorf("failed to get leads due for follow-up: %w", err)
	}
	return leads, nil
}

const sqlCountLeadsCreatedSince = `
SELECT COUNT(*)
FROM leads
WHERE created_at >= $1
  AND ($2::text IS NULL OR source = $2)
`

// CountLeadsCreatedSince counts leads created since the given time,
// optionally filtered by source
func (s *Store) CountLeadsCreatedSince(ctx context.Context, since time.Time, source *LeadSource) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountLeadsCreatedSince, since, source)
	if err != nil {
		s.logger.Error(ctx, "failed to count leads created since", err)
		return 0, fmt.Errorf("failed to count leads created since: %w", err)
	}
	return count, nil
}

const sqlCountLeadsConvertedSince = `
SELECT COUNT(*)
FROM leads
WHERE status = 'converted'
  AND updated_at >= $1
`

// CountLeadsConvertedSince counts leads converted since the given time
func (s *Store) CountLeadsConvertedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountLeadsConvertedSince, since)
	if err != nil {
		s.logger.Error(ctx, "failed to count leads converted since", err)
		return 0, fmt.Errorf("failed to count leads converted since: %w", err)
	}
	return count, nil
}

const sqlGetLeadsByCampaignTarget = `
SELECT id, name, phone_number, email, company, status, source, interest_level, priority, notes, estimated_value, project_type, location, next_follow_up, last_contact_date, created_at, updated_at
FROM leads
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::text IS NULL OR source = $2)
ORDER BY created_at
`

// GetLeadsByCampaignTarget retrieves leads matching a campaign's target
// filters. Nil filters match all leads.
func (s *Store) GetLeadsByCampaignTarget(ctx context.Context, targetStatus *LeadStatus, targetSource *LeadSource) ([]Lead, error) {
	leads := []Lead{}
	err := s.db.SelectContext(ctx, &leads, sqlGetLeadsByCampaignTarget, targetStatus, targetSource)
	if err != nil {
		s.logger.Error(ctx, "failed to get leads by campaign target", err)
		return nil, fmt.Errorf("failed to get leads by campaign target: %w", err)
	}
	return leads, nil
}

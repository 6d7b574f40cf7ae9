package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateInteractionParams represents parameters for recording an interaction
type CreateInteractionParams struct {
	LeadID          uuid.UUID
	InteractionType string
	Description     *string
	Outcome         *string
}

const sqlCreateInteraction = `
INSERT INTO interactions (lead_id, interaction_type, description, outcome)
VALUES ($1, $2, $3, $4)
RETURNING id, lead_id, interaction_type, description, outcome, created_at
`

// CreateInteraction appends an interaction to a lead's history
func (s *Store) CreateInteraction(ctx context.Context, params CreateInteractionParams) (Interaction, error) {
	var interaction Interaction
	err := s.db.GetContext(ctx, &interaction, sqlCreateInteraction,
		params.LeadID,
		params.InteractionType,
		params.Description,
		params.Outcome)
	if err != nil {
		s.logger.Error(ctx, "failed to create interaction", err)
		return Interaction{}, fmt.Errorf("failed to create interaction: %w", err)
	}
	return interaction, nil
}

const sqlListInteractionsByLead = `
SELECT id, lead_id, interaction_type, description, outcome, created_at
FROM interactions
WHERE lead_id = $1
ORDER BY created_at DESC
`

// ListInteractionsByLead retrieves a lead's interactions, newest first
func (s *Store) ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	interactions := []Interaction{}
	err := s.db.SelectContext(ctx, &interactions, sqlListInteractionsByLead, leadID)
	if err != nil {
		s.logger.Error(ctx, "failed to list interactions by lead", err)
		return nil, fmt.Errorf("failed to list interactions by lead: %w", err)
	}
	return interactions, nil
}

const sqlCountInteractionsByLead = `
SELECT COUNT(*)
FROM interactions
WHERE lead_id = $1
`

// CountInteractionsByLead counts a lead's recorded interactions
func (s *Store) CountInteractionsByLead(ctx context.Context, leadID uuid.UUID) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountInteractionsByLead, leadID)
	if err != nil {
		s.logger.Error(ctx, "failed to count interactions by lead", err)
		return 0, fmt.Errorf("failed to count interactions by lead: %w", err)
	}
	return count, nil
}

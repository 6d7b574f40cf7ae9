package store

import (
	"context"
	"fmt"
)

// StatusCount is one row of a lead status distribution
type StatusCount struct {
	Status LeadStatus `db:"status" json:"status"`
	Count  int        `db:"count" json:"count"`
}

// SourceCount is one row of a lead source distribution
type SourceCount struct {
	Source LeadSource `db:"source" json:"source"`
	Count  int        `db:"count" json:"count"`
}

const sqlGetLeadStatusDistribution = `
SELECT status, COUNT(*)::int AS count
FROM leads
GROUP BY status
ORDER BY count DESC
`

// GetLeadStatusDistribution returns lead counts grouped by status
func (s *Store) GetLeadStatusDistribution(ctx context.Context) ([]StatusCount, error) {
	counts := []StatusCount{}
	err := s.db.SelectContext(ctx, &counts, sqlGetLeadStatusDistribution)
	if err != nil {
		s.logger.Error(ctx, "failed to get lead status distribution", err)
		return nil, fmt.Errorf("failed to get lead status distribution: %w", err)
	}
	return counts, nil
}

const sqlGetLeadSourceDistribution = `
SELECT source, COUNT(*)::int AS count
FROM leads
GROUP BY source
ORDER BY count DESC
`

// GetLeadSourceDistribution returns lead counts grouped by source
func (s *Store) GetLeadSourceDistribution(ctx context.Context) ([]SourceCount, error) {
	counts := []SourceCount{}
	err := s.db.SelectContext(ctx, &counts, sqlGetLeadSourceDistribution)
	if err != nil {
		s.logger.Error(ctx, "failed to get lead source distribution", err)
		return nil, fmt.Errorf("failed to get lead source distribution: %w", err)
	}
	return counts, nil
}

const sqlCountLeads = `
SELECT COUNT(*)
FROM leads
`

// CountLeads counts all leads
func (s *Store) CountLeads(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountLeads)
	if err != nil {
		s.logger.Error(ctx, "failed to count leads", err)
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

const sqlCountLeadsByStatus = `
SELECT COUNT(*)
FROM leads
WHERE status = $1
`

// CountLeadsByStatus counts leads in a given pipeline status
func (s *Store) CountLeadsByStatus(ctx context.Context, status LeadStatus) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, sqlCountLeadsByStatus, status)
	if err != nil {
		s.logger.Error(ctx, "failed to count leads by status", err)
		return 0, fmt.Errorf("failed to count leads by status: %w", err)
	}
	return count, nil
}

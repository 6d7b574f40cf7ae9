package processor

import (
	"context"
	"fmt"
	"math"

	"nexa-crm/internal/store"
)

// Analytics is the dashboard's pipeline summary.
type Analytics struct {
	TotalLeads         int            `json:"total_leads"`
	Conversions        int            `json:"conversions"`
	ConversionRate     float64        `json:"conversion_rate"`
	StatusDistribution map[string]int `json:"status_distribution"`
	SourceDistribution map[string]int `json:"source_distribution"`
}

// GetAnalytics aggregates lead counts by status and source plus the
// overall conversion rate.
func (p *LeadProcessor) GetAnalytics(ctx context.Context) (Analytics, error) {
	statusCounts, err := p.store.GetLeadStatusDistribution(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("failed to load status distribution: %w", err)
	}
	sourceCounts, err := p.store.GetLeadSourceDistribution(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("failed to load source distribution: %w", err)
	}
	total, err := p.store.CountLeads(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("failed to count leads: %w", err)
	}
	conversions, err := p.store.CountLeadsByStatus(ctx, store.LeadStatusConverted)
	if err != nil {
		return Analytics{}, fmt.Errorf("failed to count conversions: %w", err)
	}

	analytics := Analytics{
		TotalLeads:         total,
		Conversions:        conversions,
		StatusDistribution: make(map[string]int, len(statusCounts)),
		SourceDistribution: make(map[string]int, len(sourceCounts)),
	}
	for _, sc := range statusCounts {
		analytics.StatusDistribution[string(sc.Status)] = sc.Count
	}
	for _, sc := range sourceCounts {
		analytics.SourceDistribution[string(sc.Source)] = sc.Count
	}
	if total > 0 {
		analytics.ConversionRate = math.Round(float64(conversions)/float64(total)*1000) / 10
	}
	return analytics, nil
}

package processor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ErrNoResults means the campaign has never sent anything, so there is
// nothing to analyze.
var ErrNoResults = errors.New("campaign has no results")

// PerformanceReport summarizes how a campaign landed. Rates are
// percentages over total recorded sends; the score weights delivery at
// 0.3, reads at 0.4 and responses at 0.3.
type PerformanceReport struct {
	CampaignID       uuid.UUID `json:"campaign_id"`
	CampaignName     string    `json:"campaign_name"`
	TotalSent        int       `json:"total_sent"`
	DeliveryRate     float64   `json:"delivery_rate"`
	ReadRate         float64   `json:"read_rate"`
	ResponseRate     float64   `json:"response_rate"`
	PerformanceScore float64   `json:"performance_score"`
	Recommendations  []string  `json:"recommendations"`
	Optimizations    []string  `json:"next_campaign_optimization"`
}

// AnalyzeCampaignPerformance computes delivery, read and response rates
// for a campaign and derives tuning advice from them.
func (p *CampaignProcessor) AnalyzeCampaignPerformance(ctx context.Context, campaignID uuid.UUID) (PerformanceReport, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return PerformanceReport{}, err
	}

	stats, err := p.store.GetCampaignResultStats(ctx, campaignID)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("failed to load campaign stats: %w", err)
	}
	if stats.Total == 0 {
		return PerformanceReport{}, ErrNoResults
	}

	responses, err := p.store.CountCampaignResponses(ctx, campaignID)
	if err != nil {
		return PerformanceReport{}, fmt.Errorf("failed to count campaign responses: %w", err)
	}

	total := float64(stats.Total)
	deliveryRate := round1(float64(stats.Delivered) / total * 100)
	readRate := round1(float64(stats.Read) / total * 100)
	responseRate := round1(float64(responses) / total * 100)
	score := round1(deliveryRate*0.3 + readRate*0.4 + responseRate*0.3)

	var recommendations []string
	if deliveryRate < 80 {
		recommendations = append(recommendations, "Revisar números de teléfono y formato de mensajes")
	}
	if readRate < 60 {
		recommendations = append(recommendations, "Optimizar horarios de envío y contenido de mensajes")
	}
	if responseRate < 20 {
		recommendations = append(recommendations, "Mejorar call-to-action y personalización")
	}

	return PerformanceReport{
		CampaignID:       campaign.ID,
		CampaignName:     campaign.Name,
		TotalSent:        stats.Total,
		DeliveryRate:     deliveryRate,
		ReadRate:         readRate,
		ResponseRate:     responseRate,
		PerformanceScore: score,
		Recommendations:  recommendations,
		Optimizations:    optimizationSuggestions(score),
	}, nil
}

func optimizationSuggestions(score float64) []string {
	switch {
	case score >= 80:
		return []string{"Mantener estrategia actual", "Escalar a más leads"}
	case score >= 60:
		return []string{"A/B testing de mensajes", "Optimizar horarios de envío"}
	case score >= 40:
		return []string{"Revisar segmentación", "Mejorar personalización"}
	default:
		return []string{"Rediseñar campaña completa", "Revisar base de datos de leads"}
	}
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

package processor

import (
	"context"
	"fmt"
	"math"
	"time"

	"nexa-crm/internal/store"
)

// ConversionPrediction scores how likely a lead is to convert.
// Probability is a percentage capped at 95; each factor is in [0, 1].
type ConversionPrediction struct {
	ConversionProbability float64            `json:"conversion_probability"`
	Factors               map[string]float64 `json:"factors"`
	Recommendations       []string           `json:"recommendations"`
	NextBestAction        string             `json:"next_best_action"`
}

var sourceScores = map[store.LeadSource]float64{
	store.LeadSourceWebsite:  0.8,
	store.LeadSourceWhatsApp: 0.9,
	store.LeadSourceReferral: 0.95,
	store.LeadSourceSocial:   0.7,
	store.LeadSourceEvent:    0.85,
	store.LeadSourceOther:    0.6,
}

// PredictConversion scores a lead from six factors: source reputation,
// interaction volume, contact recency, declared interest, and whether a
// company and email are on file. The probability is the unweighted mean
// of the factors as a percentage, never above 95.
func (p *AIProcessor) PredictConversion(ctx context.Context, lead store.Lead) (ConversionPrediction, error) {
	interactions, err := p.store.CountInteractionsByLead(ctx, lead.ID)
	if err != nil {
		return ConversionPrediction{}, fmt.Errorf("failed to count interactions: %w", err)
	}

	factors := map[string]float64{
		"source_score":         sourceScore(lead.Source),
		"interaction_score":    interactionScore(interactions),
		"response_time_score":  responseTimeScore(lead.LastContactDate, time.Now().UTC()),
		"interest_level_score": float64(lead.InterestLevel) / 5.0,
		"company_score":        presenceScore(lead.Company),
		"email_score":          presenceScore(lead.Email),
	}

	var total float64
	for _, score := range factors {
		total += score
	}
	probability := math.Min(total/float64(len(factors))*100, 95)
	probability = math.Round(probability*10) / 10

	return ConversionPrediction{
		ConversionProbability: probability,
		Factors:               factors,
		Recommendations:       conversionRecommendations(factors, probability),
		NextBestAction:        nextBestAction(probability),
	}, nil
}

func sourceScore(source store.LeadSource) float64 {
	if score, ok := sourceScores[source]; ok {
		return score
	}
	return 0.6
}

func interactionScore(count int) float64 {
	switch {
	case count == 0:
		return 0.3
	case count == 1:
		return 0.6
	case count <= 3:
		return 0.8
	default:
		return 0.9
	}
}

func responseTimeScore(lastContact *time.Time, now time.Time) float64 {
	if lastContact == nil {
		return 0.2
	}
	days := int(now.Sub(*lastContact).Hours() / 24)
	switch {
	case days <= 1:
		return 1.0
	case days <= 3:
		return 0.8
	case days <= 7:
		return 0.6
	case days <= 14:
		return 0.4
	default:
		return 0.2
	}
}

func presenceScore(value *string) float64 {
	if value != nil && *value != "" {
		return 1.0
	}
	return 0.5
}

func conversionRecommendations(factors map[string]float64, probability float64) []string {
	var recommendations []string

	if factors["response_time_score"] < 0.5 {
		recommendations = append(recommendations, "Contactar al lead inmediatamente")
	}
	if factors["interaction_score"] < 0.5 {
		recommendations = append(recommendations, "Aumentar frecuencia de interacciones")
	}
	if factors["interest_level_score"] < 0.6 {
		recommendations = append(recommendations, "Enviar contenido de valor para aumentar interés")
	}

	switch {
	case probability < 30:
		recommendations = append(recommendations, "Revisar estrategia de seguimiento")
	case probability < 60:
		recommendations = append(recommendations, "Personalizar mensajes según intereses")
	default:
		recommendations = append(recommendations, "Mantener momentum actual")
	}

	return recommendations
}

func nextBestAction(probability float64) string {
	switch {
	case probability >= 80:
		return "Solicitar cierre de venta"
	case probability >= 60:
		return "Agendar cita de presentación"
	case probability >= 40:
		return "Enviar propuesta personalizada"
	case probability >= 20:
		return "Enviar contenido educativo"
	default:
		return "Revisar si el lead está calificado"
	}
}

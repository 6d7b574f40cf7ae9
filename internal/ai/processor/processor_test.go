package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	completeFn func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error)
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
	return f.completeFn(ctx, prompt, maxTokens, temperature)
}

type fakeCountStore struct {
	count int
	err   error
}

func (f *fakeCountStore) CountInteractionsByLead(ctx context.Context, leadID uuid.UUID) (int, error) {
	return f.count, f.err
}

func strPtr(s string) *string { return &s }

func TestAnalyzeIntent_KeywordFallback(t *testing.T) {
	p := New(nil, &fakeCountStore{}, observability.NewLogger())
	lead := store.Lead{ID: uuid.New(), Name: "Ana"}

	tests := []struct {
		name    string
		message string
		intent  string
		urgency int
	}{
		{"presupuesto keywords", "necesito un presupuesto para una obra", IntentSolicitaPresupuesto, 4},
		{"cita keywords", "quiero agendar una visita", IntentAgendaCita, 5},
		{"proyecto keywords", "tengo un proyecto de casa", IntentInteresadoProyecto, 4},
		{"comparacion keywords", "estoy hablando con otra empresa", IntentComparacion, 3},
		{"no keywords", "buenas tardes", IntentConsultaGeneral, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := p.AnalyzeIntent(context.Background(), tt.message, lead)
			assert.Equal(t, tt.intent, analysis.Intent)
			assert.Equal(t, tt.urgency, analysis.Urgency)
			assert.NotEmpty(t, analysis.RecommendedAction)
			assert.Contains(t, analysis.SuggestedResponse, "Ana")
		})
	}

	t.Run("presupuesto outranks proyecto on mixed message", func(t *testing.T) {
		analysis := p.AnalyzeIntent(context.Background(), "quiero un presupuesto para construir una casa", lead)
		assert.Equal(t, IntentSolicitaPresupuesto, analysis.Intent)
	})
}

func TestAnalyzeIntent_CompletionPaths(t *testing.T) {
	logger := observability.NewLogger()
	lead := store.Lead{ID: uuid.New(), Name: "Ana"}

	t.Run("valid completion is parsed", func(t *testing.T) {
		completer := &fakeCompleter{completeFn: func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
			assert.Equal(t, int64(300), maxTokens)
			assert.Equal(t, 0.7, temperature)
			return "```json\n{\"intent\":\"AGENDA_CITA\",\"urgency\":5,\"conversion_probability\":5,\"recommended_action\":\"Agendar\",\"suggested_response\":\"Hola\"}\n```", nil
		}}
		p := New(completer, &fakeCountStore{}, logger)

		analysis := p.AnalyzeIntent(context.Background(), "puedo pasar a verlos?", lead)
		assert.Equal(t, IntentAgendaCita, analysis.Intent)
		assert.Equal(t, 5, analysis.Urgency)
		assert.Equal(t, "Agendar", analysis.RecommendedAction)
	})

	t.Run("completion error matches nil-client result", func(t *testing.T) {
		completer := &fakeCompleter{completeFn: func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
			return "", errors.New("rate limited")
		}}
		withClient := New(completer, &fakeCountStore{}, logger)
		withoutClient := New(nil, &fakeCountStore{}, logger)

		message := "necesito un presupuesto urgente"
		assert.Equal(t,
			withoutClient.AnalyzeIntent(context.Background(), message, lead),
			withClient.AnalyzeIntent(context.Background(), message, lead))
	})

	t.Run("malformed completion falls back to keywords", func(t *testing.T) {
		completer := &fakeCompleter{completeFn: func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
			return "lo siento, no puedo clasificar este mensaje", nil
		}}
		p := New(completer, &fakeCountStore{}, logger)

		analysis := p.AnalyzeIntent(context.Background(), "cuanto cuesta el m2", lead)
		assert.Equal(t, IntentSolicitaPresupuesto, analysis.Intent)
	})
}

func TestPredictConversion(t *testing.T) {
	logger := observability.NewLogger()

	t.Run("strong lead is capped at 95", func(t *testing.T) {
		now := time.Now().UTC()
		lead := store.Lead{
			ID:              uuid.New(),
			Name:            "Ana",
			Source:          store.LeadSourceReferral,
			InterestLevel:   5,
			Company:         strPtr("Acme"),
			Email:           strPtr("ana@acme.com"),
			LastContactDate: &now,
		}
		p := New(nil, &fakeCountStore{count: 5}, logger)

		prediction, err := p.PredictConversion(context.Background(), lead)
		require.NoError(t, err)
		assert.Equal(t, 95.0, prediction.ConversionProbability)
		assert.Equal(t, "Solicitar cierre de venta", prediction.NextBestAction)
		assert.Contains(t, prediction.Recommendations, "Mantener momentum actual")
	})

	t.Run("cold lead scores low with remediation advice", func(t *testing.T) {
		lead := store.Lead{
			ID:            uuid.New(),
			Name:          "Ana",
			Source:        store.LeadSourceWebsite,
			InterestLevel: 1,
		}
		p := New(nil, &fakeCountStore{count: 0}, logger)

		prediction, err := p.PredictConversion(context.Background(), lead)
		require.NoError(t, err)
		// .8 + .3 + .2 + .2 + .5 + .5 over six factors
		assert.Equal(t, 41.7, prediction.ConversionProbability)
		assert.Equal(t, "Enviar propuesta personalizada", prediction.NextBestAction)
		assert.Contains(t, prediction.Recommendations, "Contactar al lead inmediatamente")
		assert.Contains(t, prediction.Recommendations, "Aumentar frecuencia de interacciones")
	})

	t.Run("probability stays within bounds for every source", func(t *testing.T) {
		p := New(nil, &fakeCountStore{count: 2}, logger)
		for _, source := range []store.LeadSource{
			store.LeadSourceWebsite, store.LeadSourceWhatsApp, store.LeadSourceReferral,
			store.LeadSourceSocial, store.LeadSourceEvent, store.LeadSourceOther,
		} {
			lead := store.Lead{ID: uuid.New(), Source: source, InterestLevel: 3}
			prediction, err := p.PredictConversion(context.Background(), lead)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, prediction.ConversionProbability, 0.0)
			assert.LessOrEqual(t, prediction.ConversionProbability, 95.0)
		}
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		p := New(nil, &fakeCountStore{err: errors.New("db down")}, logger)
		_, err := p.PredictConversion(context.Background(), store.Lead{ID: uuid.New()})
		assert.Error(t, err)
	})
}

func TestGeneratePersonalizedMessage(t *testing.T) {
	logger := observability.NewLogger()
	lead := store.Lead{ID: uuid.New(), Name: "Ana", Source: store.LeadSourceWebsite, Status: store.LeadStatusNew, InterestLevel: 3}

	t.Run("completion result is returned trimmed", func(t *testing.T) {
		completer := &fakeCompleter{completeFn: func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
			assert.Equal(t, int64(200), maxTokens)
			assert.Equal(t, 0.8, temperature)
			return "  ¡Hola Ana! Tenemos novedades.  ", nil
		}}
		p := New(completer, &fakeCountStore{}, logger)

		message := p.GeneratePersonalizedMessage(context.Background(), lead, "offer")
		assert.Equal(t, "¡Hola Ana! Tenemos novedades.", message)
	})

	t.Run("fallback catalog by message type", func(t *testing.T) {
		p := New(nil, &fakeCountStore{}, logger)

		assert.Contains(t, p.GeneratePersonalizedMessage(context.Background(), lead, "follow_up"), "seguimiento")
		assert.Contains(t, p.GeneratePersonalizedMessage(context.Background(), lead, "offer"), "descuento")
		assert.Contains(t, p.GeneratePersonalizedMessage(context.Background(), lead, "reminder"), "cita programada")
		// Unknown types use the welcome message
		assert.Contains(t, p.GeneratePersonalizedMessage(context.Background(), lead, "unknown"), "Gracias por tu interés")
	})

	t.Run("completion failure uses fallback", func(t *testing.T) {
		completer := &fakeCompleter{completeFn: func(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error) {
			return "", errors.New("timeout")
		}}
		p := New(completer, &fakeCountStore{}, logger)

		assert.Contains(t, p.GeneratePersonalizedMessage(context.Background(), lead, "welcome"), "Gracias por tu interés")
	})
}

package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nexa-crm/internal/store"
)

// Intent categories for an inbound lead message.
const (
	IntentConsultaGeneral     = "CONSULTA_GENERAL"
	IntentInteresadoProyecto  = "INTERESADO_PROYECTO"
	IntentSolicitaPresupuesto = "SOLICITA_PRESUPUESTO"
	IntentAgendaCita          = "AGENDA_CITA"
	IntentComparacion         = "COMPARACION"
	IntentNoInteresado        = "NO_INTERESADO"
)

// IntentAnalysis classifies a lead message. Urgency and
// ConversionProbability are on a 1-5 scale.
type IntentAnalysis struct {
	Intent                string `json:"intent"`
	Urgency               int    `json:"urgency"`
	ConversionProbability int    `json:"conversion_probability"`
	RecommendedAction     string `json:"recommended_action"`
	SuggestedResponse     string `json:"suggested_response"`
}

const intentPromptTemplate = `Analiza la intención del siguiente mensaje de un lead potencial para una constructora:

Mensaje: %q
Lead: %s - %s

Clasifica la intención en una de estas categorías:
1. CONSULTA_GENERAL - Preguntas generales sobre servicios
2. INTERESADO_PROYECTO - Muestra interés en un proyecto específico
3. SOLICITA_PRESUPUESTO - Pide cotización o presupuesto
4. AGENDA_CITA - Quiere programar una reunión
5. COMPARACION - Compara con otras empresas
6. NO_INTERESADO - No está interesado

También proporciona:
- "urgency": nivel de urgencia (1-5)
- "conversion_probability": probabilidad de conversión (1-5)
- "recommended_action": acción recomendada
- "suggested_response": respuesta sugerida

Responde únicamente con un objeto JSON con las claves "intent", "urgency",
"conversion_probability", "recommended_action" y "suggested_response".`

// AnalyzeIntent classifies a message with the completion model when one
// is configured, falling back to keyword classification on any failure.
// The fallback shares the result shape, so callers never see the
// difference.
func (p *AIProcessor) AnalyzeIntent(ctx context.Context, messageContent string, lead store.Lead) IntentAnalysis {
	if p.completer == nil {
		return p.keywordIntent(messageContent, lead)
	}

	prompt := fmt.Sprintf(intentPromptTemplate, messageContent, leadDisplayName(lead), leadDisplayCompany(lead))
	raw, err := p.completer.Complete(ctx, prompt, 300, 0.7)
	if err != nil {
		p.logger.Error(ctx, "intent completion failed, using keyword fallback", err)
		return p.keywordIntent(messageContent, lead)
	}

	analysis, err := parseIntentJSON(raw)
	if err != nil {
		p.logger.Error(ctx, "intent response was not valid JSON, using keyword fallback", err)
		return p.keywordIntent(messageContent, lead)
	}
	return analysis
}

// parseIntentJSON tolerates fenced or prose-wrapped completions by
// extracting the outermost JSON object.
func parseIntentJSON(raw string) (IntentAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return IntentAnalysis{}, fmt.Errorf("no JSON object in completion")
	}

	var analysis IntentAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &analysis); err != nil {
		return IntentAnalysis{}, err
	}
	if analysis.Intent == "" {
		return IntentAnalysis{}, fmt.Errorf("completion missing intent")
	}
	return analysis, nil
}

var intentKeywordRules = []struct {
	intent   string
	keywords []string
	urgency  int
	prob     int
	action   string
}{
	{IntentSolicitaPresupuesto, []string{"precio", "costo", "presupuesto", "cotización"}, 4, 4, "Enviar cotización personalizada"},
	{IntentAgendaCita, []string{"cita", "reunión", "visita", "agenda"}, 5, 5, "Agendar cita inmediatamente"},
	{IntentInteresadoProyecto, []string{"proyecto", "construir", "edificio", "casa"}, 4, 4, "Solicitar detalles del proyecto"},
	{IntentComparacion, []string{"otra empresa", "competencia", "comparar"}, 3, 3, "Destacar ventajas competitivas"},
}

// keywordIntent is the model-free classification path. Rules are checked
// in priority order; a message matching none is a general inquiry.
func (p *AIProcessor) keywordIntent(messageContent string, lead store.Lead) IntentAnalysis {
	lowered := strings.ToLower(messageContent)

	for _, rule := range intentKeywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return IntentAnalysis{
					Intent:                rule.intent,
					Urgency:               rule.urgency,
					ConversionProbability: rule.prob,
					RecommendedAction:     rule.action,
					SuggestedResponse:     SuggestedResponse(rule.intent, lead),
				}
			}
		}
	}

	return IntentAnalysis{
		Intent:                IntentConsultaGeneral,
		Urgency:               3,
		ConversionProbability: 3,
		RecommendedAction:     "Responder consulta general",
		SuggestedResponse:     SuggestedResponse(IntentConsultaGeneral, lead),
	}
}

// SuggestedResponse returns the canned reply for an intent, personalized
// with the lead's name.
func SuggestedResponse(intent string, lead store.Lead) string {
	name := leadDisplayName(lead)

	responses := map[string]string{
		IntentConsultaGeneral:     fmt.Sprintf("¡Hola %s! Gracias por tu consulta. Somos Nexa Constructora, especialistas en construcción y desarrollo inmobiliario. ¿En qué podemos ayudarte específicamente?", name),
		IntentSolicitaPresupuesto: fmt.Sprintf("Hola %s, entiendo que necesitas un presupuesto. Para darte la mejor cotización, necesito algunos detalles de tu proyecto. ¿Podrías contarme más sobre lo que tienes en mente?", name),
		IntentAgendaCita:          fmt.Sprintf("¡Perfecto %s! Me encantaría agendar una cita para discutir tu proyecto en detalle. ¿Qué día y horario te resulta más conveniente?", name),
		IntentInteresadoProyecto:  fmt.Sprintf("Excelente %s, veo que tienes un proyecto en mente. ¿Podrías describirme qué tipo de construcción estás pensando? Así podré asesorarte mejor.", name),
		IntentComparacion:         fmt.Sprintf("Hola %s, entiendo que estás evaluando opciones. En Nexa Constructora nos destacamos por nuestra calidad, experiencia y compromiso con el cliente. ¿Te gustaría conocer algunos de nuestros proyectos realizados?", name),
		IntentNoInteresado:        fmt.Sprintf("Entiendo %s. Si en el futuro cambias de opinión o conoces a alguien que necesite nuestros servicios, no dudes en contactarnos. ¡Que tengas un excelente día!", name),
	}

	if response, ok := responses[intent]; ok {
		return response
	}
	return responses[IntentConsultaGeneral]
}

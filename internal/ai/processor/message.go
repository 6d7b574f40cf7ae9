package processor

import (
	"context"
	"fmt"
	"strings"

	"nexa-crm/internal/store"
)

const messagePromptTemplate = `Genera un mensaje personalizado de WhatsApp para un lead de construcción:

Lead: %s - %s
Estado: %s
Fuente: %s
Nivel de interés: %d/5

Tipo de mensaje: %s

El mensaje debe ser:
- Personal y amigable
- Relevante para su situación
- Incluir call-to-action claro
- Máximo 3 párrafos
- Usar emojis apropiados

Responde solo con el mensaje, sin formato adicional.`

// GeneratePersonalizedMessage asks the completion model to write a
// message for the lead. Without a model, or on any failure, a static
// catalog keyed by message type answers instead.
func (p *AIProcessor) GeneratePersonalizedMessage(ctx context.Context, lead store.Lead, messageType string) string {
	if p.completer == nil {
		return fallbackMessage(lead, messageType)
	}

	prompt := fmt.Sprintf(messagePromptTemplate,
		lead.Name, leadDisplayCompany(lead), lead.Status, lead.Source, lead.InterestLevel, messageType)

	raw, err := p.completer.Complete(ctx, prompt, 200, 0.8)
	if err != nil {
		p.logger.Error(ctx, "message completion failed, using static fallback", err)
		return fallbackMessage(lead, messageType)
	}

	message := strings.TrimSpace(raw)
	if message == "" {
		return fallbackMessage(lead, messageType)
	}
	return message
}

func fallbackMessage(lead store.Lead, messageType string) string {
	name := leadDisplayName(lead)

	messages := map[string]string{
		"welcome":   fmt.Sprintf("¡Hola %s! 👋\n\nGracias por tu interés en Nexa Constructora. Somos especialistas en construcción y desarrollo inmobiliario.\n\n¿En qué proyecto estás pensando? Estamos aquí para ayudarte.", name),
		"follow_up": fmt.Sprintf("Hola %s, ¿cómo estás?\n\nTe escribo para hacer seguimiento de tu interés en nuestros servicios de construcción.\n\n¿Te gustaría que conversemos sobre tu proyecto?", name),
		"offer":     fmt.Sprintf("¡%s! 🏗️\n\nTenemos una oferta especial para ti: 15%% de descuento en proyectos de construcción que se inicien este mes.\n\n¿Te interesa aprovechar esta promoción?", name),
		"reminder":  fmt.Sprintf("Hola %s,\n\nTe recordamos que tenemos una cita programada para discutir tu proyecto de construcción.\n\n¿Confirmas que podemos proceder?", name),
	}

	if message, ok := messages[messageType]; ok {
		return message
	}
	return messages["welcome"]
}

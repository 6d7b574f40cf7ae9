package bot

import "strings"

// rule maps trigger keywords to a canned reply. Rules are evaluated in
// order and the first keyword hit wins.
type rule struct {
	topic    string
	keywords []string
	reply    string
}

var rules = []rule{
	{
		topic:    "horario",
		keywords: []string{"horario", "hora", "cuando", "disponible", "atencion"},
		reply: `🕐 **Horario de Atención Nexa Constructora**

📅 **Lunes a Viernes**: 9:00 AM - 6:00 PM
📅 **Sábados**: 9:00 AM - 1:00 PM
📅 **Domingos**: Cerrado

💬 **WhatsApp**: Disponible 24/7 para consultas urgentes
📞 **Teléfono**: +54 9 11 1234-5678

¿En qué horario te resulta más conveniente que te contactemos?`,
	},
	{
		topic:    "precio",
		keywords: []string{"precio", "costo", "cuanto", "tarifa", "presupuesto"},
		reply: `💰 **Precios y Servicios Nexa Constructora**

🏠 **Construcción Residencial**:
• Desde $2,500/m² (básico)
• Desde $3,500/m² (estándar)
• Desde $4,500/m² (premium)

🏢 **Construcción Comercial**:
• Desde $3,000/m² (básico)
• Desde $4,000/m² (estándar)

📋 **Incluye**:
✅ Diseño arquitectónico
✅ Permisos municipales
✅ Materiales de calidad
✅ Supervisión técnica
✅ Garantía de 2 años

💡 **¿Te gustaría que te prepare un presupuesto personalizado?**`,
	},
	{
		topic:    "ubicacion",
		keywords: []string{"ubicacion", "donde", "direccion", "zona", "barrio"},
		reply: `📍 **Ubicación Nexa Constructora**

🏢 **Oficina Principal**:
Av. Siempre Viva 123, Ciudad Autónoma de Buenos Aires

🗺️ **Zonas de Trabajo**:
• CABA y GBA Norte
• GBA Oeste
• GBA Sur
• Interior de la Provincia

🚗 **Servicios**:
✅ Visitas técnicas sin cargo
✅ Transporte de materiales
✅ Coordinación logística

📍 **¿En qué zona estás interesado? Te coordinamos una visita.**`,
	},
	{
		topic:    "contacto",
		keywords: []string{"contacto", "llamar", "hablar", "agente", "humano"},
		reply: `📞 **Contacto Directo Nexa Constructora**

👨‍💼 **Gerente de Ventas**: Juan Pérez
📱 **WhatsApp**: +54 9 11 1234-5678
📧 **Email**: juan.perez@nexaconstructora.com.ar

👩‍💼 **Asesora Comercial**: María García
📱 **WhatsApp**: +54 9 11 2345-6789
📧 **Email**: maria.garcia@nexaconstructora.com.ar

🏢 **Oficina**: +54 11 4567-8901
🌐 **Web**: https://nexaconstructora.com.ar

⏰ **Te contactamos en menos de 30 minutos**`,
	},
	{
		topic:    "servicios",
		keywords: []string{"servicios", "que hacen", "construccion", "remodelacion"},
		reply: `🛠️ **Servicios Nexa Constructora**

🏗️ **Construcción**:
• Casas y departamentos
• Edificios comerciales
• Oficinas y locales
• Galpones industriales

🔨 **Remodelación**:
• Ampliaciones
• Refacciones completas
• Cambios de uso
• Mejoras estructurales

📐 **Diseño**:
• Arquitectura
• Interiorismo
• Paisajismo
• Ingeniería estructural

🏭 **Especialidades**:
• Construcción en seco
• Steel framing
• Construcción tradicional
• Sostenibilidad

💡 **¿Qué tipo de proyecto tienes en mente?**`,
	},
	{
		topic:    "ayuda",
		keywords: []string{"ayuda", "comandos", "opciones", "menu"},
		reply: `🤖 **Comandos Disponibles Nexa Bot**

📋 **Consulta rápida**:
• "horario" - Horarios de atención
• "precio" - Precios y servicios
• "ubicacion" - Dónde estamos
• "contacto" - Hablar con agente
• "servicios" - Qué ofrecemos

💬 **O simplemente escribe tu consulta y te ayudo personalmente.**

🔄 **Para hablar con un agente humano, escribe "agente" o "humano"**

¿En qué puedo ayudarte hoy? 😊`,
	},
}

// WelcomeMessage greets a lead on first contact.
const WelcomeMessage = `🤖 **¡Hola! Soy el asistente virtual de Nexa Constructora**

🏗️ Somos expertos en construcción y remodelación en Buenos Aires.

📋 **¿En qué puedo ayudarte?**

1️⃣ **Horarios de atención** - Escribe "horario"
2️⃣ **Precios y servicios** - Escribe "precio"
3️⃣ **Ubicación y zonas** - Escribe "ubicacion"
4️⃣ **Contacto directo** - Escribe "contacto"
5️⃣ **Nuestros servicios** - Escribe "servicios"

💡 **O simplemente cuéntame tu proyecto y te ayudo personalmente.**

¿Qué te gustaría saber? 😊`

// TransferMessage is sent when a lead asks for a human agent.
const TransferMessage = `🔄 **Conectándote con un agente humano...**

⏳ **Tiempo de espera estimado**: 2-5 minutos

👨‍💼 **Mientras tanto, puedes**:
• Revisar nuestros proyectos en: https://nexaconstructora.com.ar
• Dejar tu consulta y te responderemos por WhatsApp

📞 **Si es urgente, llama directamente**: +54 9 11 1234-5678

¡Gracias por tu paciencia! 🙏`

var transferKeywords = []string{"agente", "humano", "persona", "operador", "representante"}

// ResponseFor returns the canned reply matching the message, or false
// when no keyword matches and the caller should fall back to the
// assistant-generated reply.
func ResponseFor(message string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, r := range rules {
		for _, keyword := range r.keywords {
			if strings.Contains(lowered, keyword) {
				return r.reply, true
			}
		}
	}
	return "", false
}

// IsTransferRequest reports whether the lead asked for a human agent.
func IsTransferRequest(message string) bool {
	lowered := strings.ToLower(message)
	for _, keyword := range transferKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

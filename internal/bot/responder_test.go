package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseFor(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		contains string
	}{
		{"horario keyword", "cual es el horario de atencion?", "Horario de Atención"},
		{"precio keyword inside sentence", "quiero saber el costo del m2", "Precios y Servicios"},
		{"ubicacion keyword", "donde estan ubicados?", "Ubicación Nexa Constructora"},
		{"contacto keyword", "necesito hablar con alguien", "Contacto Directo"},
		{"servicios keyword", "que servicios ofrecen", "Servicios Nexa Constructora"},
		{"ayuda keyword", "ayuda", "Comandos Disponibles"},
		{"case insensitive", "HORARIO", "Horario de Atención"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := ResponseFor(tt.message)
			require.True(t, ok)
			assert.True(t, strings.Contains(reply, tt.contains),
				"reply should contain %q", tt.contains)
		})
	}

	t.Run("no keyword falls through", func(t *testing.T) {
		reply, ok := ResponseFor("me interesa construir una casa en un terreno propio")
		assert.False(t, ok)
		assert.Empty(t, reply)
	})

	t.Run("earlier rule wins on multiple matches", func(t *testing.T) {
		// "horario" and "precio" both match; horario is evaluated first.
		reply, ok := ResponseFor("horario y precio por favor")
		require.True(t, ok)
		assert.True(t, strings.Contains(reply, "Horario de Atención"))
	})
}

func TestIsTransferRequest(t *testing.T) {
	assert.True(t, IsTransferRequest("quiero hablar con un AGENTE"))
	assert.True(t, IsTransferRequest("pasame con una persona real"))
	assert.False(t, IsTransferRequest("cuanto cuesta una remodelacion"))
}

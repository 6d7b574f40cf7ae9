package messaging

import (
	"testing"
	"time"

	"nexa-crm/internal/store"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestRenderTemplate(t *testing.T) {
	now := time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		content  string
		lead     store.Lead
		expected string
	}{
		{
			name:    "all placeholders with full lead",
			content: "Hola {name} de {company}, te escribimos al {phone} y {email} el {date}. Visita {website}",
			lead: store.Lead{
				Name:        "Juan",
				PhoneNumber: "+541112345678",
				Email:       strPtr("juan@acme.com"),
				Company:     strPtr("Acme"),
			},
			expected: "Hola Juan de Acme, te escribimos al +541112345678 y juan@acme.com el 15/03/2025. Visita https://nexaconstructora.com.ar",
		},
		{
			name:    "missing optional fields fall back to defaults",
			content: "Hola {name}, gracias {company}",
			lead: store.Lead{
				Company: strPtr("Acme"),
			},
			expected: "Hola estimado cliente, gracias Acme",
		},
		{
			name:     "empty strings behave like missing values",
			content:  "{name} / {company} / {email}",
			lead:     store.Lead{Name: "", Email: strPtr(""), Company: strPtr("")},
			expected: "estimado cliente / tu empresa / tu email",
		},
		{
			name:     "unrecognized placeholders are left verbatim",
			content:  "Hola {name}, tu código es {codigo}",
			lead:     store.Lead{Name: "Ana"},
			expected: "Hola Ana, tu código es {codigo}",
		},
		{
			name:     "content without placeholders is unchanged",
			content:  "Mensaje sin variables",
			lead:     store.Lead{},
			expected: "Mensaje sin variables",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderTemplate(tt.content, tt.lead, now))
		})
	}
}

package processor

import (
	"context"

	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
)

// Completer is the text-completion client. A nil Completer is valid and
// routes every call through the keyword fallback.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int64, temperature float64) (string, error)
}

// Store is the subset of persistence the estimator needs.
type Store interface {
	CountInteractionsByLead(ctx context.Context, leadID uuid.UUID) (int, error)
}

// AIProcessor estimates lead intent and conversion likelihood. Every
// estimate it produces degrades gracefully: if the completion client is
// missing or fails, the keyword fallback answers with the same shape.
type AIProcessor struct {
	completer Completer
	store     Store
	logger    *observability.Logger
}

func New(completer Completer, store Store, logger *observability.Logger) *AIProcessor {
	return &AIProcessor{
		completer: completer,
		store:     store,
		logger:    logger,
	}
}

// leadDisplayCompany returns the company for prompt interpolation.
func leadDisplayCompany(lead store.Lead) string {
	if lead.Company != nil && *lead.Company != "" {
		return *lead.Company
	}
	return "Sin empresa"
}

func leadDisplayName(lead store.Lead) string {
	if lead.Name != "" {
		return lead.Name
	}
	return "Estimado cliente"
}

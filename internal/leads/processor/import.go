package processor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"
)

// ImportResult counts the outcome of a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportLeadsFromCSV reads a header-keyed CSV (phone_number, name,
// email, company, notes) and creates a lead per row. Rows with a blank
// phone or an already-known phone are skipped; a bad row never aborts
// the rest. Imported leads enter as new website leads and do not
// trigger welcome messages.
func (p *LeadProcessor) ImportLeadsFromCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := columns["phone_number"]; !ok {
		return ImportResult{}, fmt.Errorf("CSV is missing the phone_number column")
	}

	var result ImportResult
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.logger.Error(ctx, "failed to read CSV row", err)
			result.Skipped++
			continue
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		phone := field("phone_number")
		if phone == "" {
			result.Skipped++
			continue
		}
		phone = messaging.NormalizePhone(phone, p.defaultCountryCode)

		if _, err := p.store.GetLeadByPhone(ctx, phone); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return result, err
		}

		notes := field("notes")
		if notes == "" {
			notes = "Importado desde CSV"
		}

		params := store.CreateLeadParams{
			Name:          field("name"),
			PhoneNumber:   phone,
			Status:        store.LeadStatusNew,
			Source:        store.LeadSourceWebsite,
			InterestLevel: 1,
			Priority:      store.LeadPriorityMedium,
			Notes:         &notes,
		}
		if email := field("email"); email != "" {
			params.Email = &email
		}
		if company := field("company"); company != "" {
			params.Company = &company
		}

		if _, err := p.store.CreateLead(ctx, params); err != nil {
			p.logger.Error(observability.WithFields(ctx,
				observability.Field{Key: "phone_number", Value: phone}),
				"failed to import lead", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	p.logger.Info(ctx, fmt.Sprintf("CSV import finished: %d imported, %d skipped", result.Imported, result.Skipped))
	return result, nil
}

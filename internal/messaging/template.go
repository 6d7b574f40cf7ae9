package messaging

import (
	"strings"
	"time"

	"nexa-crm/internal/store"
)

const websiteURL = "https://nexaconstructora.com.ar"

const (
	defaultName    = "estimado cliente"
	defaultCompany = "tu empresa"
	defaultEmail   = "tu email"
)

// RenderTemplate substitutes the supported {placeholder} tokens with lead
// attributes. Supported keys: {name}, {company}, {phone}, {email}, {date},
// {website}. Missing optional attributes fall back to readable defaults;
// unrecognized placeholders are left verbatim. Pure, never fails.
func RenderTemplate(content string, lead store.Lead, now time.Time) string {
	name := lead.Name
	if name == "" {
		name = defaultName
	}
	company := defaultCompany
	if lead.Company != nil && *lead.Company != "" {
		company = *lead.Company
	}
	email := defaultEmail
	if lead.Email != nil && *lead.Email != "" {
		email = *lead.Email
	}

	replacer := strings.NewReplacer(
		"{name}", name,
		"{company}", company,
		"{phone}", lead.PhoneNumber,
		"{email}", email,
		"{date}", now.Format("02/01/2006"),
		"{website}", websiteURL,
	)
	return replacer.Replace(content)
}

package messaging

import "strings"

// NormalizePhone converts a raw phone number to the canonical
// +<countrycode><number> form the messaging channel requires.
// Handled input shapes: an already-normalized number, a leading "0"
// trunk prefix, a leading "9" mobile prefix on 11 digits, and a bare
// 10-digit local number. Idempotent.
func NormalizePhone(raw, defaultCountryCode string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	if strings.HasPrefix(number, defaultCountryCode) {
		return "+" + number
	}

	number = strings.TrimPrefix(number, "0")
	if len(number) == 11 && strings.HasPrefix(number, "9") {
		number = number[1:]
	}

	return "+" + defaultCountryCode + number
}

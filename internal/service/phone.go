package service

import "strings"

const nationalPhoneDigits = 8

// NormalizePhone keeps the digits of raw, truncates them to the national
// length and prefixes the country code. ok is false when fewer than eight
// digits remain.
func NormalizePhone(raw, countryPrefix string) (phone string, ok bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > nationalPhoneDigits {
		digits = digits[:nationalPhoneDigits]
	}
	if len(digits) != nationalPhoneDigits {
		return "", false
	}
	return countryPrefix + digits, true
}

package service

import (
	"strings"
	"unicode"

	"github.com/amazighishop/shop_api/internal/utils"
)

const minPasswordLength = 8

// MaxPasswordStrength is the score of a password meeting every rule.
const MaxPasswordStrength = 5

// CheckPassword applies the password policy and records failures on fe under
// field. Each failure is an i18n message key. Only the first failing rule is
// reported, matching the order a user fixes them in.
func CheckPassword(fe utils.FieldErrors, field, password, confirmation string) {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			hasSpecial = true
		}
	}

	switch {
	case len([]rune(password)) < minPasswordLength:
		fe.Add(field, "password.too_short")
	case !hasUpper:
		fe.Add(field, "password.no_upper")
	case !hasLower:
		fe.Add(field, "password.no_lower")
	case !hasDigit:
		fe.Add(field, "password.no_digit")
	case !hasSpecial:
		fe.Add(field, "password.no_special")
	}

	if password != confirmation {
		fe.Add(field+"_confirmation", "password.confirmation")
	}
}

// PasswordStrength scores a password from 0 to MaxPasswordStrength, one point per satisfied
// rule. It backs the advisory strength meter of the register page.
func PasswordStrength(password string) int {
	score := 0
	if len([]rune(password)) >= minPasswordLength {
		score++
	}
	if strings.IndexFunc(password, unicode.IsUpper) >= 0 {
		score++
	}
	if strings.IndexFunc(password, unicode.IsLower) >= 0 {
		score++
	}
	if strings.IndexFunc(password, unicode.IsDigit) >= 0 {
		score++
	}
	if strings.IndexFunc(password, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	}) >= 0 {
		score++
	}
	return score
}

package utils

import "strings"

// MaskCardNumber keeps the last four characters of a card number.
func MaskCardNumber(card string) string {
	card = strings.TrimSpace(card)
	if len(card) <= 4 {
		return strings.Repeat("*", len(card))
	}
	return strings.Repeat("*", len(card)-4) + card[len(card)-4:]
}

// MaskSecret hides a credential entirely, leaving only a hint of whether it was set.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

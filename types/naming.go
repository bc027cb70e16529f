package types

import (
	"strings"
	"unicode"
)

const hashSuffixLength = 8

// SplitHashSuffix splits a trailing 8-character disambiguation hash from a logical ID, e.g.
// "OrdersTable5E6F7A8B" -> "OrdersTable", "5E6F7A8B". The token is upper-case letters and digits
// with at least one digit, or, without digits, upper-case hex letters following a lower-case letter
// or digit ("OrdersTableABCDEFAB").
func SplitHashSuffix(logicalID string) (string, string, bool) {
	if len(logicalID) <= hashSuffixLength {
		return logicalID, "", false
	}
	prefix, token := logicalID[:len(logicalID)-hashSuffixLength], logicalID[len(logicalID)-hashSuffixLength:]
	hasDigit, hexOnly := false, true
	for _, r := range token {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'F':
		case r >= 'G' && r <= 'Z':
			hexOnly = false
		default:
			return logicalID, "", false
		}
	}
	if hasDigit {
		return prefix, token, true
	}
	last := rune(prefix[len(prefix)-1])
	if hexOnly && (unicode.IsLower(last) || unicode.IsDigit(last)) {
		return prefix, token, true
	}
	return logicalID, "", false
}

func StripHashSuffix(logicalID string) string {
	prefix, _, _ := SplitHashSuffix(logicalID)
	return prefix
}

func splitWords(value string) []string {
	words := []string{}
	runes := []rune(value)
	current := []rune{}
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = []rune{}
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 {
			previous := runes[i-1]
			switch {
			case unicode.IsUpper(r) && (unicode.IsLower(previous) || unicode.IsDigit(previous)):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(previous) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

// KebabCase converts "OrdersAPIFunction" to "orders-api-function".
func KebabCase(value string) string {
	words := splitWords(value)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// PascalCase converts "orders-api-function" to "OrdersApiFunction".
func PascalCase(value string) string {
	var builder strings.Builder
	for _, word := range splitWords(value) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		builder.WriteString(string(runes))
	}
	return builder.String()
}

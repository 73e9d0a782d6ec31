package match

import (
	"strings"
	"unicode"
)

// stripSuffixes are dropped from normalized identifiers, longest first.
var stripSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent lowercases s and removes '_', '-' and spaces, so that
// "customer_id", "Customer-ID" and "CustomerID" normalize alike.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip normalizes s and drops one trailing token
// from stripSuffixes, keeping at least one character.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range stripSuffixes {
		if len(normalized) > len(suffix) && strings.HasSuffix(normalized, suffix) {
			return normalized[:len(normalized)-len(suffix)]
		}
	}

	return normalized
}

// TokenizeIdent splits an identifier into lowercase words.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "friend_name_list" -> ["friend", "name", "list"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current = append(current, r)
	}
	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsWord reports a lower-to-upper transition ("orderID" before 'I') or
// the last capital of an acronym followed by lowercase ("XMLParser" before 'P').
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

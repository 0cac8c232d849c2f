package match

import (
	"strings"
	"unicode"
)

// strippedSuffixes are tokens that rarely distinguish two properties, ordered
// from longer to shorter.
var strippedSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent normalizes an identifier for fuzzy matching: CamelCase and
// separators are folded away and the result is lower case.
//
//	NormalizeIdent("customer_ID") == "customerid"
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(TokenizeIdent(s), ""))
}

// NormalizeIdentWithSuffixStrip normalizes and strips one common suffix.
// Short suffixes like "ts" are kept, stripping them is too aggressive.
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range strippedSuffixes {
		if len(normalized) > len(suffix) && strings.HasSuffix(normalized, suffix) {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// TokenizeIdent splits an identifier into lowercase tokens.
//   - "OrderID" -> ["order", "id"]
//   - "XMLParser" -> ["xml", "parser"]
//   - "created_at" -> ["created", "at"]
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

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower-to-upper transition ("orderID" before 'I') or
// the end of an acronym ("XMLParser" before 'P').
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

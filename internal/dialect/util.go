package dialect

import (
	"strings"
)

// QuoteWith wraps name in the quote rune, doubling any embedded quote.
// Dotted names are quoted part by part, so "db.t" becomes `db`.`t`.
func QuoteWith(name string, quote rune) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuotePart(p, quote)
	}
	return strings.Join(parts, ".")
}

// QuotePart quotes a single identifier as is, dots included.
func QuotePart(part string, quote rune) string {
	q := string(quote)
	return q + strings.ReplaceAll(part, q, q+q) + q
}

// DefaultNormalizeType is a default implementation for type normalization (lowercase).
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(strings.TrimSpace(sqlType))
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

package suggest

import (
	"strings"
)

// Operators a Rule accepts.
var Operators = []string{"=", "!=", ">", "<", ">=", "<=", "LIKE", "IN", "IS NULL", "IS NOT NULL"}

// Rule is one "field op value" predicate of a filter condition.
type Rule struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Value string `yaml:"value,omitempty"`
}

func unary(op string) bool {
	op = strings.ToUpper(strings.TrimSpace(op))
	return op == "IS NULL" || op == "IS NOT NULL"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func quoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"')
}

// SQL renders the rule, or "" when it is incomplete. Plain digits, quoted
// values and parenthesized IN lists are kept as written; anything else is
// wrapped in single quotes.
func (r Rule) SQL() string {
	field := strings.TrimSpace(r.Field)
	op := strings.TrimSpace(r.Op)
	if field == "" || op == "" {
		return ""
	}
	if unary(op) {
		return field + " " + strings.ToUpper(op)
	}
	v := strings.TrimSpace(r.Value)
	switch {
	case v == "":
		return ""
	case isDigits(v), quoted(v):
	case strings.EqualFold(op, "IN") && strings.HasPrefix(v, "("):
	default:
		v = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return field + " " + op + " " + v
}

// BuildFilter joins the complete rules with AND.
func BuildFilter(rules []Rule) string {
	var parts []string
	for _, r := range rules {
		if s := r.SQL(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " AND ")
}

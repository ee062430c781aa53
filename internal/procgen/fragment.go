package procgen

import (
	"strings"

	"db-syncgen/internal/dialect"
	"db-syncgen/internal/schema"
)

// Every identifier in the emitted SQL goes through quoteIdent.
func quoteIdent(name string) string {
	return dialect.QuotePart(name, '`')
}

// tableRef renders `schema`.`table`, qualifying bare names with defaultSchema.
func tableRef(name, defaultSchema string) string {
	ref := schema.ParseTableRef(name).In(defaultSchema)
	if ref.Schema == "" {
		return quoteIdent(ref.Name)
	}
	return quoteIdent(ref.Schema) + "." + quoteIdent(ref.Name)
}

// columnList renders one quoted column per line.
func columnList(cols []string, indent string) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = indent + quoteIdent(c)
	}
	return strings.Join(lines, ",\n")
}

// qualifiedList renders alias.`col` per line.
func qualifiedList(alias string, cols []string, indent string) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = indent + alias + "." + quoteIdent(c)
	}
	return strings.Join(lines, ",\n")
}

// setClause renders dest.`col` = src.`col` per line.
func setClause(cols []string, indent string) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = indent + "dest." + quoteIdent(c) + " = src." + quoteIdent(c)
	}
	return strings.Join(lines, ",\n")
}

// commentLines splits text so each line can sit behind its own "--".
func commentLines(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// oneLine keeps metadata-derived names from breaking out of a comment line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package dialect

import (
	"strings"
)

// SqliteDialect reads metadata through the pragma table-valued functions.
// A database file has a single schema, so the schema argument is ignored.
type SqliteDialect struct{}

func (d *SqliteDialect) Name() string { return "sqlite" }

func (d *SqliteDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`, nil
}

func (d *SqliteDialect) ColumnsQuery(schema, table string) (string, []any) {
	// An INTEGER PRIMARY KEY that is the only key column aliases the rowid,
	// which is SQLite's auto-increment.
	return `
SELECT
    ti.name,
    lower(ti.type),
    NULL,
    NULL,
    NULL,
    CASE WHEN ti."notnull" = 1 OR ti.pk > 0 THEN 'NO' ELSE 'YES' END,
    CASE
        WHEN ti.pk > 0 THEN 'PRI'
        WHEN EXISTS (
            SELECT 1 FROM pragma_index_list(?) il, pragma_index_info(il.name) ii
            WHERE il."unique" = 1 AND ii.name = ti.name
        ) THEN 'UNI'
        WHEN EXISTS (
            SELECT 1 FROM pragma_index_list(?) il, pragma_index_info(il.name) ii
            WHERE ii.name = ti.name
        ) THEN 'MUL'
        ELSE ''
    END,
    CASE
        WHEN ti.pk = 1 AND lower(ti.type) = 'integer'
            AND (SELECT COUNT(*) FROM pragma_table_info(?) WHERE pk > 0) = 1
        THEN 'auto_increment'
        ELSE ''
    END,
    ''
FROM pragma_table_info(?) ti
ORDER BY ti.cid`, []any{table, table, table, table}
}

func (d *SqliteDialect) TableCommentQuery(schema, table string) (string, []any) {
	return `SELECT '' WHERE ? IS NOT NULL`, []any{table}
}

func (d *SqliteDialect) ForeignKeysQuery(schema string) (string, []any) {
	return `SELECT m.name, p."from", p."table", p."to" FROM sqlite_master m JOIN pragma_foreign_key_list(m.name) p WHERE m.type = 'table' ORDER BY m.name`, nil
}

func (d *SqliteDialect) QuoteIdent(name string) string {
	return QuoteWith(name, '"')
}

func (d *SqliteDialect) NormalizeType(sqlType string) string {
	t := DefaultNormalizeType(sqlType)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

func (d *SqliteDialect) DefaultSchema(input string) string {
	if input == "" {
		return "main"
	}
	return input
}

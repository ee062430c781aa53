package dialect

import (
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`, []any{d.DefaultSchema(schema)}
}

func (d *PostgresDialect) ColumnsQuery(schema, table string) (string, []any) {
	// UDT_NAME is more precise than DATA_TYPE (int4, varchar, numeric).
	// PRIMARY KEY sorts before UNIQUE, so a column in both reports PRI.
	return `SELECT
    c.column_name,
    c.udt_name,
    c.character_maximum_length,
    c.numeric_precision,
    c.numeric_scale,
    c.is_nullable,
    COALESCE((SELECT CASE tc.constraint_type WHEN 'PRIMARY KEY' THEN 'PRI' ELSE 'UNI' END
        FROM information_schema.table_constraints tc
        JOIN information_schema.key_column_usage kcu
            ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
        WHERE tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
          AND kcu.table_schema = c.table_schema AND kcu.table_name = c.table_name AND kcu.column_name = c.column_name
        ORDER BY tc.constraint_type LIMIT 1), '') AS column_key,
    COALESCE(c.column_default, '') || CASE WHEN c.is_identity = 'YES' THEN ' identity' ELSE '' END AS extra,
    COALESCE(col_description((quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass, c.ordinal_position), '') AS column_comment
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`, []any{d.DefaultSchema(schema), table}
}

func (d *PostgresDialect) TableCommentQuery(schema, table string) (string, []any) {
	return `SELECT COALESCE(obj_description((quote_ident($1) || '.' || quote_ident($2))::regclass, 'pg_class'), '')`, []any{d.DefaultSchema(schema), table}
}

func (d *PostgresDialect) ForeignKeysQuery(schema string) (string, []any) {
	return `SELECT kcu.table_name, kcu.column_name, ccu.table_name AS referenced_table_name, ccu.column_name AS referenced_column_name FROM information_schema.key_column_usage kcu JOIN information_schema.constraint_column_usage ccu ON kcu.constraint_name = ccu.constraint_name JOIN information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name WHERE kcu.table_schema = $1 AND tc.constraint_type = 'FOREIGN KEY'`, []any{d.DefaultSchema(schema)}
}

func (d *PostgresDialect) QuoteIdent(name string) string {
	return QuoteWith(name, '"')
}

func (d *PostgresDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "int4", "int2":
		return "int"
	case "int8":
		return "bigint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "bpchar":
		return "char"
	case "varchar":
		return "varchar"
	default:
		return t
	}
}

func (d *PostgresDialect) DefaultSchema(input string) string {
	if input == "" {
		return "public"
	}
	return input
}

package dialect

import (
	"strings"
)

type MSSQLDialect struct{}

// Helper: MSSQL Driver (go-mssqldb) prefers @p1, @p2 named parameters over ?

func (d *MSSQLDialect) Name() string { return "sqlserver" }

func (d *MSSQLDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, []any{d.DefaultSchema(schema)}
}

func (d *MSSQLDialect) ColumnsQuery(schema, table string) (string, []any) {
	// Include PK, UNIQUE constraints, UNIQUE indexes, Identity info, and MS_Description (Comment)
	return `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.NUMERIC_PRECISION,
			c.NUMERIC_SCALE,
			c.IS_NULLABLE,
			CASE
				WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRIMARY'
				WHEN uq.COLUMN_NAME IS NOT NULL OR ui.COLUMN_NAME IS NOT NULL THEN 'UNIQUE'
				ELSE ''
			END AS COLUMN_KEY,
			CASE
				WHEN COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity') = 1 THEN 'identity'
				ELSE ''
			END AS EXTRA,
			CAST(ep.value AS NVARCHAR(MAX)) AS COMMENT
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
		) pk ON c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		LEFT JOIN (
			SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'UNIQUE' AND tc.TABLE_SCHEMA = @p1
		) uq ON c.TABLE_NAME = uq.TABLE_NAME AND c.COLUMN_NAME = uq.COLUMN_NAME
		LEFT JOIN (
			SELECT t.name AS TABLE_NAME, col.name AS COLUMN_NAME
			FROM sys.indexes idx
			JOIN sys.index_columns ic ON idx.object_id = ic.object_id AND idx.index_id = ic.index_id
			JOIN sys.columns col ON ic.object_id = col.object_id AND ic.column_id = col.column_id
			JOIN sys.tables t ON idx.object_id = t.object_id
			JOIN sys.schemas s ON t.schema_id = s.schema_id
			WHERE idx.is_unique = 1 AND idx.is_primary_key = 0 AND s.name = @p1
		) ui ON c.TABLE_NAME = ui.TABLE_NAME AND c.COLUMN_NAME = ui.COLUMN_NAME
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME)
			AND ep.minor_id = c.ORDINAL_POSITION
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION
	`, []any{d.DefaultSchema(schema), table}
}

func (d *MSSQLDialect) TableCommentQuery(schema, table string) (string, []any) {
	return `SELECT CAST(ep.value AS NVARCHAR(MAX)) FROM sys.extended_properties ep WHERE ep.major_id = OBJECT_ID(@p1 + '.' + @p2) AND ep.minor_id = 0 AND ep.name = 'MS_Description'`, []any{d.DefaultSchema(schema), table}
}

func (d *MSSQLDialect) ForeignKeysQuery(schema string) (string, []any) {
	return `SELECT KCU1.TABLE_NAME, KCU1.COLUMN_NAME, KCU2.TABLE_NAME AS REF_TABLE, KCU2.COLUMN_NAME AS REF_COLUMN FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU1 ON RC.CONSTRAINT_NAME = KCU1.CONSTRAINT_NAME JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU2 ON RC.UNIQUE_CONSTRAINT_NAME = KCU2.CONSTRAINT_NAME WHERE KCU1.TABLE_SCHEMA = @p1`, []any{d.DefaultSchema(schema)}
}

func (d *MSSQLDialect) QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "[" + strings.ReplaceAll(p, "]", "]]") + "]"
	}
	return strings.Join(parts, ".")
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	t := strings.ToLower(sqlType)
	switch t {
	case "nvarchar":
		return "varchar"
	case "nchar":
		return "char"
	case "ntext":
		return "text"
	case "bit":
		return "boolean"
	case "money", "smallmoney":
		return "decimal"
	case "real":
		return "float"
	case "datetime2", "smalldatetime":
		return "datetime"
	default:
		return t
	}
}

func (d *MSSQLDialect) DefaultSchema(input string) string {
	if input == "" {
		return "dbo"
	}
	return input
}

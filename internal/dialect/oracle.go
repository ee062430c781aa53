package dialect

import (
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) Name() string { return "oracle" }

// Oracle stores unquoted identifiers upper case, so OWNER and TABLE_NAME
// binds are upper-cased before use.

func (d *OracleDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM ALL_TABLES WHERE OWNER = :1 ORDER BY TABLE_NAME`, []any{d.DefaultSchema(schema)}
}

func (d *OracleDialect) ColumnsQuery(schema, table string) (string, []any) {
	// PK (P) and Unique (U) constraints come from ALL_CONS_COLUMNS,
	// comments from ALL_COL_COMMENTS.
	return `
SELECT
    t.COLUMN_NAME,
    t.DATA_TYPE,
    t.CHAR_LENGTH,
    t.DATA_PRECISION,
    t.DATA_SCALE,
    CASE WHEN t.NULLABLE = 'Y' THEN 'YES' ELSE 'NO' END,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 'PRI' WHEN u.CONSTRAINT_NAME IS NOT NULL THEN 'UNI' ELSE '' END,
    CASE WHEN t.IDENTITY_COLUMN = 'YES' THEN 'auto_increment' ELSE '' END,
    c.COMMENTS
FROM ALL_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME, MIN(cc.CONSTRAINT_NAME) AS CONSTRAINT_NAME
    FROM ALL_CONS_COLUMNS cc
    JOIN ALL_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME AND cc.OWNER = uc.OWNER
    WHERE uc.CONSTRAINT_TYPE = 'P'
    GROUP BY cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME
) p ON t.OWNER = p.OWNER AND t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
LEFT JOIN (
    SELECT cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME, MIN(cc.CONSTRAINT_NAME) AS CONSTRAINT_NAME
    FROM ALL_CONS_COLUMNS cc
    JOIN ALL_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME AND cc.OWNER = uc.OWNER
    WHERE uc.CONSTRAINT_TYPE = 'U'
    GROUP BY cc.OWNER, cc.TABLE_NAME, cc.COLUMN_NAME
) u ON t.OWNER = u.OWNER AND t.TABLE_NAME = u.TABLE_NAME AND t.COLUMN_NAME = u.COLUMN_NAME
LEFT JOIN ALL_COL_COMMENTS c ON t.OWNER = c.OWNER AND t.TABLE_NAME = c.TABLE_NAME AND t.COLUMN_NAME = c.COLUMN_NAME
WHERE t.OWNER = :1 AND t.TABLE_NAME = :2
ORDER BY t.COLUMN_ID`, []any{d.DefaultSchema(schema), strings.ToUpper(table)}
}

func (d *OracleDialect) TableCommentQuery(schema, table string) (string, []any) {
	return `SELECT COMMENTS FROM ALL_TAB_COMMENTS WHERE OWNER = :1 AND TABLE_NAME = :2`, []any{d.DefaultSchema(schema), strings.ToUpper(table)}
}

func (d *OracleDialect) ForeignKeysQuery(schema string) (string, []any) {
	return `
SELECT
    c.TABLE_NAME,
    cc.COLUMN_NAME,
    r.TABLE_NAME AS REF_TABLE,
    rcc.COLUMN_NAME AS REF_COLUMN
FROM ALL_CONSTRAINTS c
JOIN ALL_CONS_COLUMNS cc
    ON c.CONSTRAINT_NAME = cc.CONSTRAINT_NAME
    AND c.OWNER = cc.OWNER
JOIN ALL_CONSTRAINTS r
    ON c.R_CONSTRAINT_NAME = r.CONSTRAINT_NAME
    AND c.R_OWNER = r.OWNER
JOIN ALL_CONS_COLUMNS rcc
    ON r.CONSTRAINT_NAME = rcc.CONSTRAINT_NAME
    AND r.OWNER = rcc.OWNER
    AND cc.POSITION = rcc.POSITION
WHERE c.CONSTRAINT_TYPE = 'R' AND c.OWNER = :1`, []any{d.DefaultSchema(schema)}
}

func (d *OracleDialect) QuoteIdent(name string) string {
	return QuoteWith(name, '"')
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	s := strings.ToLower(sqlType)
	switch {
	case s == "varchar2" || s == "nvarchar2":
		return "varchar"
	case s == "nchar":
		return "char"
	case s == "clob" || s == "nclob":
		return "text"
	case strings.HasPrefix(s, "timestamp"):
		return "timestamp"
	}
	return s
}

func (d *OracleDialect) DefaultSchema(input string) string {
	return strings.ToUpper(input)
}

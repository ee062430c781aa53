package dialect

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) TablesQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME`, []any{schema}
}

func (d *MysqlDialect) ColumnsQuery(schema, table string) (string, []any) {
	// COLUMN_KEY carries PRI / UNI / MUL, EXTRA carries auto_increment.
	return `SELECT COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE, IS_NULLABLE, COLUMN_KEY, EXTRA, COLUMN_COMMENT FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, []any{schema, table}
}

func (d *MysqlDialect) TableCommentQuery(schema, table string) (string, []any) {
	return `SELECT TABLE_COMMENT FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`, []any{schema, table}
}

func (d *MysqlDialect) ForeignKeysQuery(schema string) (string, []any) {
	return `SELECT TABLE_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`, []any{schema}
}

func (d *MysqlDialect) QuoteIdent(name string) string {
	return QuoteWith(name, '`')
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) DefaultSchema(input string) string {
	return DefaultGetSchemaName(input)
}

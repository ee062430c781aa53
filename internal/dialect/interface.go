package dialect

// Dialect abstracts database-specific metadata queries.
//
// Every query method returns the SQL text and its bind arguments so that
// engines with different placeholder styles and parameter orders can share
// one provider implementation.
type Dialect interface {
	Name() string

	// Metadata Queries (Schema Introspection)
	// TablesQuery yields one column: TABLE_NAME.
	TablesQuery(schema string) (string, []any)
	// ColumnsQuery yields, in ordinal order:
	// COLUMN_NAME, DATA_TYPE, CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION,
	// NUMERIC_SCALE, IS_NULLABLE, COLUMN_KEY, EXTRA, COLUMN_COMMENT.
	ColumnsQuery(schema, table string) (string, []any)
	// TableCommentQuery yields at most one row with one column.
	TableCommentQuery(schema, table string) (string, []any)
	// ForeignKeysQuery yields TABLE_NAME, COLUMN_NAME, REF_TABLE, REF_COLUMN.
	ForeignKeysQuery(schema string) (string, []any)

	// Helpers
	QuoteIdent(name string) string
	NormalizeType(sqlType string) string
	DefaultSchema(input string) string
}

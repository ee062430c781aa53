package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"db-syncgen/internal/dialect"
)

// Provider answers metadata questions about one database schema.
// Every call reads the live catalog; nothing is cached between calls.
// An unknown table yields no columns rather than an error.
type Provider interface {
	SchemaName() string
	ListTables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	TableComment(ctx context.Context, table string) (string, error)
	ForeignKeys(ctx context.Context) ([]ForeignKey, error)
}

const defaultQueryTimeout = 10 * time.Second

// SQLProvider implements Provider over a database/sql connection.
type SQLProvider struct {
	db      *sql.DB
	dialect dialect.Dialect
	schema  string
	timeout time.Duration
}

func NewSQLProvider(db *sql.DB, d dialect.Dialect, schemaName string) *SQLProvider {
	return &SQLProvider{
		db:      db,
		dialect: d,
		schema:  d.DefaultSchema(schemaName),
		timeout: defaultQueryTimeout,
	}
}

// WithTimeout sets the per-query timeout.
func (p *SQLProvider) WithTimeout(d time.Duration) *SQLProvider {
	p.timeout = d
	return p
}

func (p *SQLProvider) SchemaName() string { return p.schema }

func (p *SQLProvider) Dialect() dialect.Dialect { return p.dialect }

// resolve splits a possibly qualified table name into schema and local name.
func (p *SQLProvider) resolve(table string) (string, string) {
	ref := ParseTableRef(table)
	if ref.Schema == "" {
		return p.schema, ref.Name
	}
	return p.dialect.DefaultSchema(ref.Schema), ref.Name
}

func (p *SQLProvider) ListTables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query, args := p.dialect.TablesQuery(p.schema)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func (p *SQLProvider) Columns(ctx context.Context, table string) ([]Column, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	schemaName, name := p.resolve(table)
	query, args := p.dialect.ColumnsQuery(schemaName, name)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := []Column{}
	for rows.Next() {
		// Length columns come back as int64, float64 or []byte depending on
		// the driver; NullString accepts all of them.
		var cName, dType, cLen, cPrec, cScale, isNull, cKey, extra, comment sql.NullString
		if err := rows.Scan(&cName, &dType, &cLen, &cPrec, &cScale, &isNull, &cKey, &extra, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column (table: %s): %w", table, err)
		}
		if !cName.Valid {
			continue
		}

		typ := ParseSQLType(dType.String)
		typ.Base = p.dialect.NormalizeType(typ.Base)
		if n := parseLength(cLen); n > 0 && typ.Length == 0 {
			typ.Length = n
		}
		if n := parseLength(cPrec); n > 0 && typ.Precision == 0 {
			typ.Precision = n
			typ.Scale = parseLength(cScale)
		}

		key := ParseKeyClass(cKey.String)
		col := Column{
			Name:            cName.String,
			Type:            typ,
			IsPrimaryKey:    key == KeyPrimary,
			Key:             key,
			IsAutoIncrement: isAutoIncrement(extra.String),
			IsNullable:      strings.EqualFold(isNull.String, "YES"),
			Comment:         comment.String,
		}
		col.Meaning = AnalyzeMeaning(col.Name, col.Comment)
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}
	return cols, nil
}

func (p *SQLProvider) TableComment(ctx context.Context, table string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	schemaName, name := p.resolve(table)
	query, args := p.dialect.TableCommentQuery(schemaName, name)
	var comment sql.NullString
	err := p.db.QueryRowContext(ctx, query, args...).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query comment of %s: %w", table, err)
	}
	return comment.String, nil
}

func (p *SQLProvider) ForeignKeys(ctx context.Context) ([]ForeignKey, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query, args := p.dialect.ForeignKeysQuery(p.schema)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		// FK 조회는 권한 부족으로 실패할 수 있으므로 호출자가 판단하도록 에러를 그대로 반환
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var tName, cName, rTable, rCol sql.NullString
		if err := rows.Scan(&tName, &cName, &rTable, &rCol); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		if !tName.Valid || !rTable.Valid {
			continue
		}
		fks = append(fks, ForeignKey{
			Table:     tName.String,
			Column:    cName.String,
			RefTable:  rTable.String,
			RefColumn: rCol.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}
	return fks, nil
}

func parseLength(v sql.NullString) int {
	if !v.Valid || v.String == "" {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(v.String, "%d", &n); err == nil {
		return n
	}
	var f float64
	if _, err := fmt.Sscanf(v.String, "%f", &f); err == nil {
		return int(f)
	}
	return 0
}

func isAutoIncrement(extra string) bool {
	e := strings.ToLower(extra)
	return strings.Contains(e, "auto_increment") ||
		strings.Contains(e, "identity") ||
		strings.Contains(e, "nextval")
}

var _ Provider = (*SQLProvider)(nil)

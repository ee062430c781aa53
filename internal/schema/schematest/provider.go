// Package schematest provides an in-memory schema.Provider for tests.
package schematest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"db-syncgen/internal/schema"
)

// Provider serves table metadata from memory. Setting Err makes every call fail.
type Provider struct {
	Schema   string
	Err      error
	tables   map[string][]schema.Column
	comments map[string]string
	fks      []schema.ForeignKey

	mu          sync.Mutex
	columnCalls int
}

func New(schemaName string) *Provider {
	return &Provider{
		Schema:   schemaName,
		tables:   map[string][]schema.Column{},
		comments: map[string]string{},
	}
}

// AddTable registers (or replaces) a table.
func (p *Provider) AddTable(name string, cols ...schema.Column) *Provider {
	p.tables[name] = cols
	return p
}

func (p *Provider) SetComment(table, comment string) *Provider {
	p.comments[table] = comment
	return p
}

func (p *Provider) AddForeignKey(fk schema.ForeignKey) *Provider {
	p.fks = append(p.fks, fk)
	return p
}

// DropTable removes a table, simulating a schema change between calls.
func (p *Provider) DropTable(name string) { delete(p.tables, name) }

// ColumnCalls counts Columns invocations.
func (p *Provider) ColumnCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.columnCalls
}

func (p *Provider) SchemaName() string { return p.Schema }

func (p *Provider) ListTables(ctx context.Context) ([]string, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	names := make([]string, 0, len(p.tables))
	for name := range p.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Provider) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	p.mu.Lock()
	p.columnCalls++
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	ref := schema.ParseTableRef(table)
	if ref.Schema != "" && !strings.EqualFold(ref.Schema, p.Schema) {
		return []schema.Column{}, nil
	}
	cols, ok := p.tables[ref.Name]
	if !ok {
		return []schema.Column{}, nil
	}
	return slices.Clone(cols), nil
}

func (p *Provider) TableComment(ctx context.Context, table string) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return p.comments[schema.ParseTableRef(table).Name], nil
}

func (p *Provider) ForeignKeys(ctx context.Context) ([]schema.ForeignKey, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return slices.Clone(p.fks), nil
}

// Col builds a plain nullable column from a type such as "varchar(64)".
func Col(name, typ string) schema.Column {
	return schema.Column{Name: name, Type: schema.ParseSQLType(typ), IsNullable: true}
}

// PK builds a primary-key column.
func PK(name, typ string) schema.Column {
	c := Col(name, typ)
	c.IsPrimaryKey = true
	c.Key = schema.KeyPrimary
	c.IsNullable = false
	return c
}

// AutoPK builds an auto-increment primary-key column.
func AutoPK(name, typ string) schema.Column {
	c := PK(name, typ)
	c.IsAutoIncrement = true
	return c
}

// Unique marks a column as carrying a unique index.
func Unique(c schema.Column) schema.Column {
	c.Key = schema.KeyUnique
	return c
}

var _ schema.Provider = (*Provider)(nil)

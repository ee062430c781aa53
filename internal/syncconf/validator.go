package syncconf

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"db-syncgen/internal/schema"
)

// Validator builds a Draft in three steps, checking each against the live
// metadata of both sides. A failed step leaves the draft untouched.
// Steps must not be called concurrently.
type Validator struct {
	source schema.Provider
	target schema.Provider
	log    *zap.Logger
	draft  Draft
}

func NewValidator(source, target schema.Provider, log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{source: source, target: target, log: log}
}

// Config returns the current, possibly partial, draft.
func (v *Validator) Config() Draft { return v.draft }

// ConfigureRelations checks that all four tables exist and that every
// source column has a same-named, same-typed column on the target side.
// Changing the tables clears previously validated keys and scope.
func (v *Validator) ConfigureRelations(ctx context.Context, sourceMain, sourceChild, targetMain, targetChild string) error {
	rel := TableRelation{
		SourceMain:  strings.TrimSpace(sourceMain),
		SourceChild: strings.TrimSpace(sourceChild),
		TargetMain:  strings.TrimSpace(targetMain),
		TargetChild: strings.TrimSpace(targetChild),
	}

	if err := v.checkTables(ctx, v.source, SideSource, rel.SourceMain, rel.SourceChild); err != nil {
		return err
	}
	if err := v.checkTables(ctx, v.target, SideTarget, rel.TargetMain, rel.TargetChild); err != nil {
		return err
	}
	v.log.Debug("all tables found", zap.Any("relations", rel))

	if err := v.checkCompatible(ctx, RoleMain, rel.SourceMain, rel.TargetMain); err != nil {
		return err
	}
	if err := v.checkCompatible(ctx, RoleChild, rel.SourceChild, rel.TargetChild); err != nil {
		return err
	}

	next := v.draft
	if next.relations != rel {
		next = Draft{relations: rel}
	}
	v.draft = next
	v.log.Info("table relations configured",
		zap.String("source_main", rel.SourceMain),
		zap.String("source_child", rel.SourceChild),
		zap.String("target_main", rel.TargetMain),
		zap.String("target_child", rel.TargetChild))
	return nil
}

// ConfigureKeys checks the main key on both main tables and the child
// foreign and unique keys on both child tables.
func (v *Validator) ConfigureKeys(ctx context.Context, mainUniqueKey, childForeignKey, childUniqueKey string) error {
	if !v.draft.relations.isSet() {
		return ErrRelationsNotConfigured
	}
	rel := v.draft.relations
	keys := SyncKeys{
		MainUniqueKey:   strings.TrimSpace(mainUniqueKey),
		ChildForeignKey: strings.TrimSpace(childForeignKey),
		ChildUniqueKey:  strings.TrimSpace(childUniqueKey),
	}

	checks := []struct {
		p     schema.Provider
		table string
		kind  string
		field string
	}{
		{v.source, rel.SourceMain, "main unique key", keys.MainUniqueKey},
		{v.target, rel.TargetMain, "main unique key", keys.MainUniqueKey},
		{v.source, rel.SourceChild, "child foreign key", keys.ChildForeignKey},
		{v.target, rel.TargetChild, "child foreign key", keys.ChildForeignKey},
		{v.source, rel.SourceChild, "child unique key", keys.ChildUniqueKey},
		{v.target, rel.TargetChild, "child unique key", keys.ChildUniqueKey},
	}
	for _, c := range checks {
		if err := v.requireColumns(ctx, c.p, c.table, c.kind, c.field); err != nil {
			return err
		}
	}

	next := v.draft
	next.keys = keys
	next.hasKeys = true
	v.draft = next
	v.log.Info("sync keys configured",
		zap.String("main_unique", keys.MainUniqueKey),
		zap.String("child_foreign", keys.ChildForeignKey),
		zap.String("child_unique", keys.ChildUniqueKey))
	return nil
}

// ConfigureScope checks that every excluded field exists in the matching
// target table. The filter condition is stored as given.
func (v *Validator) ConfigureScope(ctx context.Context, filterCondition string, excludeMain, excludeChild []string) error {
	if !v.draft.relations.isSet() {
		return ErrRelationsNotConfigured
	}
	rel := v.draft.relations
	excludeMain, excludeChild = trimAll(excludeMain), trimAll(excludeChild)

	if err := v.requireColumns(ctx, v.target, rel.TargetMain, "main exclude field", excludeMain...); err != nil {
		return err
	}
	if err := v.requireColumns(ctx, v.target, rel.TargetChild, "child exclude field", excludeChild...); err != nil {
		return err
	}

	scope := SyncScope{
		FilterCondition:    strings.TrimSpace(filterCondition),
		ExcludeFieldsMain:  excludeMain,
		ExcludeFieldsChild: excludeChild,
	}

	next := v.draft
	next.scope = scope
	next.hasScope = true
	v.draft = next
	v.log.Info("sync scope configured",
		zap.String("filter", scope.FilterCondition),
		zap.Strings("exclude_main", scope.ExcludeFieldsMain),
		zap.Strings("exclude_child", scope.ExcludeFieldsChild))
	return nil
}

func (v *Validator) checkTables(ctx context.Context, p schema.Provider, side, main, child string) error {
	tables, err := p.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("list %s tables: %w", side, err)
	}
	for _, t := range []struct{ role, name string }{{RoleMain, main}, {RoleChild, child}} {
		if !hasTable(tables, p.SchemaName(), t.name) {
			return &TableNotFoundError{Side: side, Role: t.role, Table: t.name}
		}
	}
	return nil
}

func (v *Validator) checkCompatible(ctx context.Context, pair, sourceTable, targetTable string) error {
	srcCols, err := v.source.Columns(ctx, sourceTable)
	if err != nil {
		return fmt.Errorf("read columns of %s: %w", sourceTable, err)
	}
	tgtCols, err := v.target.Columns(ctx, targetTable)
	if err != nil {
		return fmt.Errorf("read columns of %s: %w", targetTable, err)
	}

	for _, sc := range srcCols {
		tc, ok := schema.FindColumn(tgtCols, sc.Name)
		if !ok {
			return &SchemaMismatchError{
				Pair: pair, SourceTable: sourceTable, TargetTable: targetTable,
				Column: sc.Name, SourceType: sc.Type.String(), Missing: true,
			}
		}
		if !sc.Type.SameBase(tc.Type) {
			return &SchemaMismatchError{
				Pair: pair, SourceTable: sourceTable, TargetTable: targetTable,
				Column: sc.Name, SourceType: sc.Type.String(), TargetType: tc.Type.String(),
			}
		}
	}
	v.log.Debug("tables compatible", zap.String("pair", pair),
		zap.String("source", sourceTable), zap.String("target", targetTable))
	return nil
}

// requireColumns is the single existence check for keys and excluded fields.
func (v *Validator) requireColumns(ctx context.Context, p schema.Provider, table, kind string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	cols, err := p.Columns(ctx, table)
	if err != nil {
		return fmt.Errorf("read columns of %s: %w", table, err)
	}
	for _, f := range fields {
		if _, ok := schema.FindColumn(cols, f); !ok || f == "" {
			return &KeyNotFoundError{Kind: kind, Table: table, Field: f}
		}
	}
	return nil
}

// hasTable matches a possibly schema-qualified name against the table list
// of the provider's own schema.
func hasTable(tables []string, schemaName, name string) bool {
	ref := schema.ParseTableRef(name)
	if ref.Name == "" {
		return false
	}
	if ref.Schema != "" && !strings.EqualFold(ref.Schema, schemaName) {
		return false
	}
	for _, t := range tables {
		if strings.EqualFold(t, ref.Name) {
			return true
		}
	}
	return false
}

// trimAll returns a trimmed copy without blank entries.
func trimAll(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

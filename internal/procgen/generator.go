// Package procgen compiles a validated sync configuration into a MySQL
// stored procedure that reconciles a parent table and its child table,
// one parent row per transaction.
package procgen

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"db-syncgen/internal/schema"
	"db-syncgen/internal/syncconf"
)

const (
	nameTimeLayout   = "20060102150405"
	headerTimeLayout = "2006-01-02 15:04:05"
)

// Script is the generated SQL. Definition, Call and Drop are each a single
// statement; Definition carries no trailing delimiter.
type Script struct {
	Name       string
	Definition string
	Call       string
	Drop       string
	// Sections holds each rendered template slot, keyed by slot name.
	Sections map[string]string
}

// Full composes drop, definition, call and drop into one script for a
// client that understands DELIMITER.
func (s Script) Full() string {
	return s.Drop + "\n\n" +
		"DELIMITER $$\n\n" +
		s.Definition + "\n$$\n\n" +
		"DELIMITER ;\n\n" +
		"-- Run the sync procedure\n" +
		s.Call + "\n\n" +
		"-- Remove the procedure\n" +
		s.Drop + "\n"
}

type Option func(*Generator)

// WithClock replaces time.Now for the procedure name and header.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

type Generator struct {
	cfg    syncconf.Config
	source schema.Provider
	target schema.Provider
	log    *zap.Logger
	now    func() time.Time

	name        string
	generatedAt time.Time

	sourceMainPK  schema.Column
	targetMainPK  schema.Column
	targetChildPK schema.Column
}

// New resolves the primary keys the procedure addresses rows by and fixes
// the procedure name. Main tables need exactly one primary-key column; on
// the target child table the first one is used.
func New(ctx context.Context, cfg syncconf.Config, source, target schema.Provider, opts ...Option) (*Generator, error) {
	if !cfg.IsReady() {
		return nil, syncconf.ErrNotReady
	}
	g := &Generator{
		cfg:    cfg,
		source: source,
		target: target,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	rel := cfg.Relations()
	var err error
	if g.sourceMainPK, err = primaryKey(ctx, source, syncconf.SideSource, rel.SourceMain, true); err != nil {
		return nil, err
	}
	if g.targetMainPK, err = primaryKey(ctx, target, syncconf.SideTarget, rel.TargetMain, true); err != nil {
		return nil, err
	}
	if g.targetChildPK, err = primaryKey(ctx, target, syncconf.SideTarget, rel.TargetChild, false); err != nil {
		return nil, err
	}

	g.generatedAt = g.now()
	g.name = fmt.Sprintf("Sync_%s_%s", schema.ParseTableRef(rel.SourceMain).Local(), g.generatedAt.Format(nameTimeLayout))
	g.log.Debug("generator ready",
		zap.String("procedure", g.name),
		zap.String("source_main_pk", g.sourceMainPK.Name),
		zap.String("target_main_pk", g.targetMainPK.Name),
		zap.String("target_child_pk", g.targetChildPK.Name))
	return g, nil
}

func (g *Generator) Name() string { return g.name }

// Generate renders the procedure from the current source columns.
func (g *Generator) Generate(ctx context.Context) (Script, error) {
	rel := g.cfg.Relations()
	keys := g.cfg.Keys()
	scope := g.cfg.Scope()

	srcMainCols, err := g.source.Columns(ctx, rel.SourceMain)
	if err != nil {
		return Script{}, fmt.Errorf("read columns of %s: %w", rel.SourceMain, err)
	}
	srcChildCols, err := g.source.Columns(ctx, rel.SourceChild)
	if err != nil {
		return Script{}, fmt.Errorf("read columns of %s: %w", rel.SourceChild, err)
	}

	mainKeyCol, ok := schema.FindColumn(srcMainCols, keys.MainUniqueKey)
	if !ok {
		return Script{}, &syncconf.KeyNotFoundError{Kind: "main unique key", Table: rel.SourceMain, Field: keys.MainUniqueKey}
	}

	mainPolicy := MainPolicy(scope)
	childPolicy := ChildPolicy(keys, scope)

	mainUpdate := mainPolicy.UpdateColumns(srcMainCols)
	mainInsert := mainPolicy.InsertColumns(srcMainCols)
	if len(mainInsert) == 0 {
		return Script{}, fmt.Errorf("%w in %s", ErrNoInsertColumns, rel.SourceMain)
	}
	childUpdate := childPolicy.UpdateColumns(srcChildCols)
	childInsert := childPolicy.InsertColumns(srcChildCols)

	srcSchema := g.source.SchemaName()
	tgtSchema := g.target.SchemaName()
	quotedName := quoteIdent(g.name)

	// The child insert always writes the foreign key first, from dest_main_id.
	childInsertValues := "            dest_main_id"
	if len(childInsert) > 0 {
		childInsertValues += ",\n" + qualifiedList("src", childInsert, "            ")
	}

	data := procData{
		Name:        quotedName,
		RawName:     g.name,
		GeneratedAt: g.generatedAt.Format(headerTimeLayout),

		SourceMain:      oneLine(rel.SourceMain),
		SourceChild:     oneLine(rel.SourceChild),
		TargetMain:      oneLine(rel.TargetMain),
		TargetChild:     oneLine(rel.TargetChild),
		MainUniqueKey:   oneLine(keys.MainUniqueKey),
		ChildForeignKey: oneLine(keys.ChildForeignKey),
		ChildUniqueKey:  oneLine(keys.ChildUniqueKey),
		FilterLines:     commentLines(scope.FilterCondition),

		SrcPKType:   g.sourceMainPK.Type.String(),
		MainKeyType: mainKeyCol.Type.String(),
		TgtPKType:   g.targetMainPK.Type.String(),

		SrcMain:    tableRef(rel.SourceMain, srcSchema),
		SrcChild:   tableRef(rel.SourceChild, srcSchema),
		TgtMain:    tableRef(rel.TargetMain, tgtSchema),
		TgtChild:   tableRef(rel.TargetChild, tgtSchema),
		SrcPK:      quoteIdent(g.sourceMainPK.Name),
		TgtPK:      quoteIdent(g.targetMainPK.Name),
		TgtChildPK: quoteIdent(g.targetChildPK.Name),
		MainKey:    quoteIdent(keys.MainUniqueKey),
		ChildFK:    quoteIdent(keys.ChildForeignKey),
		ChildKey:   quoteIdent(keys.ChildUniqueKey),
		Filter:     scope.FilterCondition,

		MainSet:          setClause(mainUpdate, "                "),
		MainInsertCols:   columnList(mainInsert, "                "),
		MainInsertValues: qualifiedList("src", mainInsert, "                "),

		ChildSet:          setClause(childUpdate, "            "),
		ChildInsertCols:   columnList(append([]string{keys.ChildForeignKey}, childInsert...), "            "),
		ChildInsertValues: childInsertValues,

		StepMainLookup:    StepMainLookup,
		StepMainWrite:     StepMainWrite,
		StepChildDelete:   StepChildDelete,
		StepChildUpdate:   StepChildUpdate,
		StepChildInsert:   StepChildInsert,
		StatusSuccess:     StatusSuccess,
		StatusInterrupted: StatusInterrupted,
	}

	sections := make(map[string]string, len(Slots))
	for _, slot := range Slots {
		out, err := render(slot, data)
		if err != nil {
			return Script{}, fmt.Errorf("render %s: %w", slot, err)
		}
		sections[slot] = out
	}
	definition, err := render("procedure", data)
	if err != nil {
		return Script{}, fmt.Errorf("render procedure: %w", err)
	}

	g.log.Info("procedure generated",
		zap.String("procedure", g.name),
		zap.Strings("main_update", mainUpdate),
		zap.Strings("main_insert", mainInsert),
		zap.Strings("child_update", childUpdate),
		zap.Strings("child_insert", childInsert))

	return Script{
		Name:       g.name,
		Definition: definition,
		Call:       fmt.Sprintf("CALL %s();", quotedName),
		Drop:       fmt.Sprintf("DROP PROCEDURE IF EXISTS %s;", quotedName),
		Sections:   sections,
	}, nil
}

func primaryKey(ctx context.Context, p schema.Provider, side, table string, single bool) (schema.Column, error) {
	cols, err := p.Columns(ctx, table)
	if err != nil {
		return schema.Column{}, fmt.Errorf("read columns of %s: %w", table, err)
	}
	pks := schema.PrimaryKeys(cols)
	switch {
	case len(pks) == 0:
		return schema.Column{}, &NoPrimaryKeyError{Side: side, Table: table}
	case len(pks) > 1 && single:
		return schema.Column{}, &CompositeKeyError{Side: side, Table: table, Columns: schema.ColumnNames(pks)}
	}
	return pks[0], nil
}

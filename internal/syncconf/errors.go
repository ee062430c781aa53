package syncconf

import (
	"errors"
	"fmt"
)

var (
	ErrRelationsNotConfigured = errors.New("table relations are not configured: configure relations first")
	ErrNotReady               = errors.New("sync configuration is not ready")
)

const (
	SideSource = "source"
	SideTarget = "target"

	RoleMain  = "main"
	RoleChild = "child"
)

// TableNotFoundError reports a table missing from its side's table list.
type TableNotFoundError struct {
	Side  string
	Role  string
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("%s %s table %q not found in the %s database", e.Side, e.Role, e.Table, e.Side)
}

// SchemaMismatchError reports a source column with no same-named,
// same-typed counterpart in the target table.
type SchemaMismatchError struct {
	Pair        string // main or child
	SourceTable string
	TargetTable string
	Column      string
	SourceType  string
	TargetType  string
	Missing     bool
}

func (e *SchemaMismatchError) Error() string {
	if e.Missing {
		return fmt.Sprintf("incompatible %s tables: target %q has no column %q (source %q type: %s)",
			e.Pair, e.TargetTable, e.Column, e.SourceTable, e.SourceType)
	}
	return fmt.Sprintf("incompatible %s tables: column %q type mismatch (source %q: %s, target %q: %s)",
		e.Pair, e.Column, e.SourceTable, e.SourceType, e.TargetTable, e.TargetType)
}

// KeyNotFoundError reports a key or excluded field missing from a table.
type KeyNotFoundError struct {
	Kind  string // e.g. "main unique key", "child exclude field"
	Table string
	Field string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s %q does not exist in table %q", e.Kind, e.Field, e.Table)
}

package procgen

import (
	"strings"

	"db-syncgen/internal/schema"
	"db-syncgen/internal/syncconf"
)

// ColumnPolicy selects the columns a generated statement copies from the
// source row.
//
// Primary-key and auto-increment columns are never copied. Structural
// columns (the child foreign key) are written by the procedure itself.
// Excluded fields are skipped on UPDATE only: a new row still receives
// them, since an excluded column may be NOT NULL without a default.
type ColumnPolicy struct {
	Structural []string
	Exclude    []string
}

// MainPolicy is the policy for the parent table.
func MainPolicy(scope syncconf.SyncScope) ColumnPolicy {
	return ColumnPolicy{Exclude: scope.ExcludeFieldsMain}
}

// ChildPolicy is the policy for the child table.
func ChildPolicy(keys syncconf.SyncKeys, scope syncconf.SyncScope) ColumnPolicy {
	return ColumnPolicy{
		Structural: []string{keys.ChildForeignKey},
		Exclude:    scope.ExcludeFieldsChild,
	}
}

// UpdateColumns lists the columns an UPDATE sets.
func (p ColumnPolicy) UpdateColumns(cols []schema.Column) []string {
	return p.pick(cols, true)
}

// InsertColumns lists the columns an INSERT copies. Exclusions do not apply.
func (p ColumnPolicy) InsertColumns(cols []schema.Column) []string {
	return p.pick(cols, false)
}

func (p ColumnPolicy) pick(cols []schema.Column, applyExclude bool) []string {
	var out []string
	for _, c := range cols {
		if c.IsPrimaryKey || c.IsAutoIncrement || contains(p.Structural, c.Name) {
			continue
		}
		if applyExclude && contains(p.Exclude, c.Name) {
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Package suggest proposes sync settings from table metadata: which target
// tables pair with a source table, which columns to leave alone and which
// rows to skip.
package suggest

import (
	"slices"
	"strings"

	"db-syncgen/internal/conn"
	"db-syncgen/internal/schema"
)

// Columns commonly maintained by each database on its own.
var auditColumns = map[string]bool{
	"create_time": true, "create_user": true, "create_by": true,
	"created_at": true, "created_by": true,
	"update_time": true, "update_user": true, "update_by": true,
	"updated_at": true, "updated_by": true,
	"modify_time": true, "modify_user": true,
	"is_deleted": true, "is_del": true, "del_flag": true,
}

// Soft-delete markers, in no particular order; the first one found in the
// table wins.
var deleteFlags = map[string]string{
	"is_del":      "0",
	"is_deleted":  "0",
	"del_flag":    "0",
	"delete_flag": "0",
	"is_active":   "1",
}

var targetSuffixes = []string{"_dest", "_bak", "_sync", "_target"}

// ExcludeFields lists the audit and soft-delete columns of a table, keeping
// the table's spelling.
func ExcludeFields(cols []schema.Column) []string {
	var out []string
	for _, c := range cols {
		if auditColumns[strings.ToLower(c.Name)] {
			out = append(out, c.Name)
		}
	}
	return out
}

// FilterRules proposes a rule that keeps live rows only, or nothing when the
// table has no soft-delete flag.
func FilterRules(cols []schema.Column) []Rule {
	for _, c := range cols {
		if v, ok := deleteFlags[strings.ToLower(c.Name)]; ok {
			return []Rule{{Field: c.Name, Op: "=", Value: v}}
		}
	}
	return nil
}

// TargetTable picks the target table for source: a suffixed copy first
// (_dest, _bak, _sync, _target), then the same name. "" when nothing fits.
func TargetTable(targets []string, source string) string {
	for _, suffix := range targetSuffixes {
		if name := source + suffix; slices.Contains(targets, name) {
			return name
		}
	}
	if slices.Contains(targets, source) {
		return source
	}
	return ""
}

// ChildTable is a table that references a main table.
type ChildTable struct {
	Table      string
	ForeignKey string
}

// ChildTables lists tables with a foreign key to main, sorted by name.
// Self references are skipped.
func ChildTables(fks []schema.ForeignKey, main string) []ChildTable {
	local := schema.ParseTableRef(main).Local()
	var out []ChildTable
	for _, fk := range fks {
		if !strings.EqualFold(fk.RefTable, local) || strings.EqualFold(fk.Table, local) {
			continue
		}
		c := ChildTable{Table: fk.Table, ForeignKey: fk.Column}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b ChildTable) int {
		if n := strings.Compare(a.Table, b.Table); n != 0 {
			return n
		}
		return strings.Compare(a.ForeignKey, b.ForeignKey)
	})
	return out
}

// UniqueKey proposes the main unique key: the first unique column, or the
// first primary-key column when there is none. "" for an empty table.
func UniqueKey(cols []schema.Column) string {
	for _, c := range cols {
		if c.Key == schema.KeyUnique {
			return c.Name
		}
	}
	for _, c := range cols {
		if c.IsPrimaryKey {
			return c.Name
		}
	}
	return ""
}

// ForeignKeyColumn proposes the child column pointing at the parent: an
// indexed column, else a non-key column whose name ends in "id".
func ForeignKeyColumn(cols []schema.Column) string {
	for _, c := range cols {
		if c.Key == schema.KeyIndexed {
			return c.Name
		}
	}
	for _, c := range cols {
		if !c.IsPrimaryKey && strings.HasSuffix(strings.ToLower(c.Name), "id") {
			return c.Name
		}
	}
	return ""
}

// Describe formats a column as "[PK] name - comment".
func Describe(c schema.Column) string {
	var sb strings.Builder
	if l := c.Key.Label(); l != "" {
		sb.WriteString("[" + l + "] ")
	}
	sb.WriteString(c.Name)
	if comment := strings.TrimSpace(c.Comment); comment != "" {
		sb.WriteString(" - " + comment)
	}
	return sb.String()
}

// SelfSyncRisk reports whether source and target are the same table in the
// same database. Endpoints without a known host are never flagged, except
// two sqlite endpoints on one file.
func SelfSyncRisk(src, tgt conn.Endpoint, srcTable, tgtTable string) bool {
	if !strings.EqualFold(schema.ParseTableRef(srcTable).Local(), schema.ParseTableRef(tgtTable).Local()) {
		return false
	}
	if src.DriverName() == "sqlite" && tgt.DriverName() == "sqlite" {
		return src.Database != "" && src.Database == tgt.Database
	}
	srcHost, srcPort := src.Address()
	tgtHost, tgtPort := tgt.Address()
	if srcHost == "" || tgtHost == "" {
		return false
	}
	return strings.EqualFold(srcHost, tgtHost) &&
		srcPort == tgtPort &&
		src.DatabaseName() == tgt.DatabaseName()
}

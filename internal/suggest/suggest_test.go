package suggest_test

import (
	"slices"
	"testing"

	"db-syncgen/internal/conn"
	"db-syncgen/internal/schema"
	"db-syncgen/internal/suggest"
)

func cols(names ...string) []schema.Column {
	out := make([]schema.Column, len(names))
	for i, n := range names {
		out[i] = schema.Column{Name: n}
	}
	return out
}

func TestExcludeFields(t *testing.T) {
	got := suggest.ExcludeFields(cols("id", "Created_At", "name", "update_by", "is_del", "is_active"))
	want := []string{"Created_At", "update_by", "is_del"}
	if !slices.Equal(got, want) {
		t.Errorf("ExcludeFields = %v, want %v", got, want)
	}
	if got := suggest.ExcludeFields(cols("id", "name")); got != nil {
		t.Errorf("ExcludeFields = %v, want nil", got)
	}
}

func TestFilterRules(t *testing.T) {
	tests := []struct {
		name string
		cols []schema.Column
		want []suggest.Rule
	}{
		{"delete flag", cols("id", "IS_DELETED"), []suggest.Rule{{Field: "IS_DELETED", Op: "=", Value: "0"}}},
		{"active flag", cols("id", "is_active"), []suggest.Rule{{Field: "is_active", Op: "=", Value: "1"}}},
		{"first flag wins", cols("del_flag", "is_active"), []suggest.Rule{{Field: "del_flag", Op: "=", Value: "0"}}},
		{"none", cols("id", "name"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggest.FilterRules(tt.cols); !slices.Equal(got, tt.want) {
				t.Errorf("FilterRules = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleSQL(t *testing.T) {
	tests := []struct {
		rule suggest.Rule
		want string
	}{
		{suggest.Rule{Field: "status", Op: "=", Value: "1"}, "status = 1"},
		{suggest.Rule{Field: "name", Op: "LIKE", Value: "a%"}, "name LIKE 'a%'"},
		{suggest.Rule{Field: "name", Op: "=", Value: "'bob'"}, "name = 'bob'"},
		{suggest.Rule{Field: "name", Op: "=", Value: `"bob"`}, `name = "bob"`},
		{suggest.Rule{Field: "name", Op: "=", Value: "o'neil"}, "name = 'o''neil'"},
		{suggest.Rule{Field: "amount", Op: ">", Value: "1.5"}, "amount > '1.5'"},
		{suggest.Rule{Field: "id", Op: "IN", Value: "(1, 2)"}, "id IN (1, 2)"},
		{suggest.Rule{Field: "deleted_at", Op: "IS NULL", Value: "ignored"}, "deleted_at IS NULL"},
		{suggest.Rule{Field: "deleted_at", Op: "is not null"}, "deleted_at IS NOT NULL"},
		{suggest.Rule{Field: "status", Op: "=", Value: "  "}, ""},
		{suggest.Rule{Field: "", Op: "=", Value: "1"}, ""},
		{suggest.Rule{Field: "status", Op: "", Value: "1"}, ""},
	}
	for _, tt := range tests {
		if got := tt.rule.SQL(); got != tt.want {
			t.Errorf("%+v.SQL() = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestBuildFilter(t *testing.T) {
	got := suggest.BuildFilter([]suggest.Rule{
		{Field: "is_del", Op: "=", Value: "0"},
		{Field: "", Op: "=", Value: "x"},
		{Field: "region", Op: "=", Value: "EU"},
	})
	if want := "is_del = 0 AND region = 'EU'"; got != want {
		t.Errorf("BuildFilter = %q, want %q", got, want)
	}
	if got := suggest.BuildFilter(nil); got != "" {
		t.Errorf("BuildFilter(nil) = %q", got)
	}
}

func TestTargetTable(t *testing.T) {
	targets := []string{"orders", "orders_bak", "orders_dest", "users", "items_sync"}
	tests := map[string]string{
		"orders":  "orders_dest",
		"users":   "users",
		"items":   "items_sync",
		"missing": "",
	}
	for src, want := range tests {
		if got := suggest.TargetTable(targets, src); got != want {
			t.Errorf("TargetTable(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestChildTables(t *testing.T) {
	fks := []schema.ForeignKey{
		{Table: "user_profiles", Column: "user_id", RefTable: "users", RefColumn: "id"},
		{Table: "addresses", Column: "owner_id", RefTable: "USERS", RefColumn: "id"},
		{Table: "users", Column: "manager_id", RefTable: "users", RefColumn: "id"},
		{Table: "order_items", Column: "order_id", RefTable: "orders", RefColumn: "id"},
		{Table: "user_profiles", Column: "user_id", RefTable: "users", RefColumn: "id"},
	}
	got := suggest.ChildTables(fks, "shop.users")
	want := []suggest.ChildTable{
		{Table: "addresses", ForeignKey: "owner_id"},
		{Table: "user_profiles", ForeignKey: "user_id"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("ChildTables = %v, want %v", got, want)
	}
}

func TestKeyCandidates(t *testing.T) {
	main := []schema.Column{
		{Name: "id", IsPrimaryKey: true, Key: schema.KeyPrimary},
		{Name: "username", Key: schema.KeyUnique},
	}
	if got := suggest.UniqueKey(main); got != "username" {
		t.Errorf("UniqueKey = %q", got)
	}
	if got := suggest.UniqueKey(main[:1]); got != "id" {
		t.Errorf("UniqueKey = %q", got)
	}

	child := []schema.Column{
		{Name: "id", IsPrimaryKey: true, Key: schema.KeyPrimary},
		{Name: "userid"},
		{Name: "owner_ref", Key: schema.KeyIndexed},
	}
	if got := suggest.ForeignKeyColumn(child); got != "owner_ref" {
		t.Errorf("ForeignKeyColumn = %q", got)
	}
	if got := suggest.ForeignKeyColumn(child[:2]); got != "userid" {
		t.Errorf("ForeignKeyColumn = %q", got)
	}
	if got := suggest.ForeignKeyColumn(child[:1]); got != "" {
		t.Errorf("ForeignKeyColumn = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		col  schema.Column
		want string
	}{
		{schema.Column{Name: "id", Key: schema.KeyPrimary, Comment: "row id"}, "[PK] id - row id"},
		{schema.Column{Name: "email", Key: schema.KeyUnique}, "[Unique] email"},
		{schema.Column{Name: "note", Comment: "  "}, "note"},
	}
	for _, tt := range tests {
		if got := suggest.Describe(tt.col); got != tt.want {
			t.Errorf("Describe = %q, want %q", got, tt.want)
		}
	}
}

func TestSelfSyncRisk(t *testing.T) {
	src := conn.Endpoint{Driver: "mysql", Host: "db1", Port: 3306, Database: "shop"}
	tests := []struct {
		name     string
		tgt      conn.Endpoint
		srcTable string
		tgtTable string
		want     bool
	}{
		{"same table same db", conn.Endpoint{Driver: "mysql", Host: "DB1", Database: "shop"}, "users", "users", true},
		{"qualified names", conn.Endpoint{Driver: "mysql", Host: "db1", Database: "shop"}, "shop.users", "users", true},
		{"different table", conn.Endpoint{Driver: "mysql", Host: "db1", Database: "shop"}, "users", "users_dest", false},
		{"different db", conn.Endpoint{Driver: "mysql", Host: "db1", Database: "mirror"}, "users", "users", false},
		{"different port", conn.Endpoint{Driver: "mysql", Host: "db1", Port: 3307, Database: "shop"}, "users", "users", false},
		{"unknown host", conn.Endpoint{Driver: "mysql", DSN: "root@unix(/tmp/s)/shop"}, "users", "users", false},
		{"dsn host", conn.Endpoint{Driver: "mysql", DSN: "root:pw@tcp(db1:3306)/shop"}, "users", "users", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggest.SelfSyncRisk(src, tt.tgt, tt.srcTable, tt.tgtTable); got != tt.want {
				t.Errorf("SelfSyncRisk = %v, want %v", got, tt.want)
			}
		})
	}

	lite := conn.Endpoint{Driver: "sqlite", Database: "/data/a.db"}
	if !suggest.SelfSyncRisk(lite, lite, "t", "t") {
		t.Error("same sqlite file should be flagged")
	}
}

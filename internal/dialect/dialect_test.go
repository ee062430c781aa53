package dialect_test

import (
	"testing"

	"db-syncgen/internal/dialect"
)

func TestNormalizeDriver(t *testing.T) {
	tests := map[string]string{
		"":           "mysql",
		"MariaDB":    "mysql",
		"postgresql": "postgres",
		"pg":         "postgres",
		"sqlite3":    "sqlite",
		"mssql":      "sqlserver",
		" Oracle ":   "oracle",
		"db2":        "db2",
	}
	for in, want := range tests {
		if got := dialect.NormalizeDriver(in); got != want {
			t.Errorf("NormalizeDriver(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetDialect(t *testing.T) {
	tests := []struct {
		driver, name, schema string
	}{
		{"mysql", "mysql", ""},
		{"postgres", "postgres", "public"},
		{"sqlserver", "sqlserver", "dbo"},
		{"oracle", "oracle", ""},
		{"sqlite", "sqlite", "main"},
	}
	for _, tt := range tests {
		d := dialect.GetDialect(tt.driver)
		if d.Name() != tt.name {
			t.Errorf("GetDialect(%q).Name() = %q", tt.driver, d.Name())
		}
		if got := d.DefaultSchema(""); got != tt.schema {
			t.Errorf("%s DefaultSchema(\"\") = %q, want %q", tt.name, got, tt.schema)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		driver, in, want string
	}{
		{"mysql", "shop.users", "`shop`.`users`"},
		{"mysql", "we`ird", "`we``ird`"},
		{"postgres", `public.my"tab`, `"public"."my""tab"`},
		{"sqlserver", "dbo.a]b", "[dbo].[a]]b]"},
	}
	for _, tt := range tests {
		if got := dialect.GetDialect(tt.driver).QuoteIdent(tt.in); got != tt.want {
			t.Errorf("%s QuoteIdent(%q) = %q, want %q", tt.driver, tt.in, got, tt.want)
		}
	}
	if got := dialect.QuotePart("a.b", '`'); got != "`a.b`" {
		t.Errorf("QuotePart = %q", got)
	}
}

func TestPlaceholderArgs(t *testing.T) {
	// Every dialect returns exactly the args its query binds.
	for _, name := range []string{"mysql", "postgres", "sqlserver", "oracle", "sqlite"} {
		d := dialect.GetDialect(name)
		if _, args := d.ColumnsQuery("s", "t"); len(args) == 0 {
			t.Errorf("%s ColumnsQuery has no args", name)
		}
		if _, args := d.TableCommentQuery("s", "t"); len(args) == 0 {
			t.Errorf("%s TableCommentQuery has no args", name)
		}
	}
}

package schema_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"db-syncgen/internal/dialect"
	"db-syncgen/internal/schema"

	_ "modernc.org/sqlite"
)

const fixtureDDL = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    username VARCHAR(64) NOT NULL UNIQUE,
    email VARCHAR(128),
    score DECIMAL(10,2),
    last_login DATETIME
);
CREATE TABLE user_profiles (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    profile_key VARCHAR(32) NOT NULL,
    profile_value TEXT
);
CREATE INDEX idx_profiles_user ON user_profiles(user_id);
`

func openFixture(t *testing.T) *schema.SQLProvider {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "fixture.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(fixtureDDL); err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	return schema.NewSQLProvider(db, dialect.GetDialect("sqlite3"), "")
}

func TestSQLProvider_ListTables(t *testing.T) {
	p := openFixture(t)

	tables, err := p.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(tables) != 2 || tables[0] != "user_profiles" || tables[1] != "users" {
		t.Errorf("ListTables = %v", tables)
	}
	if p.SchemaName() != "main" {
		t.Errorf("SchemaName = %q, want main", p.SchemaName())
	}
}

func TestSQLProvider_Columns(t *testing.T) {
	p := openFixture(t)

	cols, err := p.Columns(context.Background(), "users")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if got := schema.ColumnNames(cols); len(got) != 5 {
		t.Fatalf("Columns = %v", got)
	}

	id, _ := schema.FindColumn(cols, "id")
	if !id.IsPrimaryKey || !id.IsAutoIncrement || id.Key != schema.KeyPrimary {
		t.Errorf("id = %+v, want auto-increment primary key", id)
	}

	username, _ := schema.FindColumn(cols, "username")
	if username.Key != schema.KeyUnique || username.IsNullable {
		t.Errorf("username = %+v, want unique and not null", username)
	}
	if username.Type.String() != "varchar(64)" {
		t.Errorf("username type = %s", username.Type)
	}

	score, _ := schema.FindColumn(cols, "score")
	if score.Type.String() != "decimal(10,2)" {
		t.Errorf("score type = %s", score.Type)
	}

	children, err := p.Columns(context.Background(), "user_profiles")
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	userID, _ := schema.FindColumn(children, "user_id")
	if userID.Key != schema.KeyIndexed {
		t.Errorf("user_id key = %v, want indexed", userID.Key)
	}
}

func TestSQLProvider_UnknownTableIsEmpty(t *testing.T) {
	p := openFixture(t)

	cols, err := p.Columns(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unknown table should not be an error: %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("expected no columns, got %v", schema.ColumnNames(cols))
	}

	comment, err := p.TableComment(context.Background(), "users")
	if err != nil || comment != "" {
		t.Errorf("TableComment = %q, %v", comment, err)
	}
}

func TestSQLProvider_ForeignKeys(t *testing.T) {
	p := openFixture(t)

	fks, err := p.ForeignKeys(context.Background())
	if err != nil {
		t.Fatalf("ForeignKeys: %v", err)
	}
	if len(fks) != 1 {
		t.Fatalf("ForeignKeys = %+v", fks)
	}
	want := schema.ForeignKey{Table: "user_profiles", Column: "user_id", RefTable: "users", RefColumn: "id"}
	if fks[0] != want {
		t.Errorf("ForeignKeys[0] = %+v, want %+v", fks[0], want)
	}
}

package export_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"db-syncgen/internal/export"
	"db-syncgen/internal/syncconf"
)

var day = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestFileName(t *testing.T) {
	rel := syncconf.TableRelation{SourceMain: "shop.users", TargetMain: "users_dest"}
	if got, want := export.FileName(rel, day), "sync_users_users_dest_20240102.sql"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
}

func TestWriteScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	res, err := export.WriteScript(dir, "sync.sql", "first", day)
	if err != nil {
		t.Fatal(err)
	}
	if res.Backup != "" {
		t.Errorf("unexpected backup %q", res.Backup)
	}
	if b, _ := os.ReadFile(res.Path); string(b) != "first\n" {
		t.Errorf("content = %q", b)
	}

	res, err = export.WriteScript(dir, "sync.sql", "second\n", day)
	if err != nil {
		t.Fatal(err)
	}
	wantBak := filepath.Join(dir, "sync.20240102.bak")
	if res.Backup != wantBak {
		t.Errorf("Backup = %q, want %q", res.Backup, wantBak)
	}
	if b, _ := os.ReadFile(wantBak); string(b) != "first\n" {
		t.Errorf("backup content = %q", b)
	}
	if b, _ := os.ReadFile(res.Path); string(b) != "second\n" {
		t.Errorf("content = %q", b)
	}
}

// Package export writes generated scripts to disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"db-syncgen/internal/schema"
	"db-syncgen/internal/syncconf"
)

const dateLayout = "20060102"

// FileName is sync_<source main>_<target main>_<YYYYMMDD>.sql, using the
// local table names.
func FileName(rel syncconf.TableRelation, now time.Time) string {
	return fmt.Sprintf("sync_%s_%s_%s.sql",
		schema.ParseTableRef(rel.SourceMain).Local(),
		schema.ParseTableRef(rel.TargetMain).Local(),
		now.Format(dateLayout))
}

// backup renames an existing file to <base>.<YYYYMMDD>.bak. It returns the
// backup path, or "" when there was nothing to move.
func backup(path string, now time.Time) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}
	ext := filepath.Ext(path)
	bak := fmt.Sprintf("%s.%s.bak", strings.TrimSuffix(path, ext), now.Format(dateLayout))
	if err := os.Rename(path, bak); err != nil {
		return "", err
	}
	return bak, nil
}

// Result reports where a script went.
type Result struct {
	Path   string
	Backup string // empty unless an older file was moved aside
}

// WriteScript writes content to dir/name, creating dir and moving an older
// file of the same name aside first.
func WriteScript(dir, name, content string, now time.Time) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	bak, err := backup(path, now)
	if err != nil {
		return Result{}, fmt.Errorf("back up %s: %w", path, err)
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Result{Path: path, Backup: bak}, nil
}

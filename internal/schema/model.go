package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyClass is the index role a column plays in its table.
type KeyClass int

const (
	KeyNone KeyClass = iota
	KeyPrimary
	KeyUnique
	KeyIndexed
)

// ParseKeyClass reads the engine key marker (MySQL COLUMN_KEY and friends).
func ParseKeyClass(marker string) KeyClass {
	m := strings.ToUpper(strings.TrimSpace(marker))
	switch {
	case strings.Contains(m, "PRI"):
		return KeyPrimary
	case strings.Contains(m, "UNI"):
		return KeyUnique
	case m == "MUL" || strings.Contains(m, "INDEX"):
		return KeyIndexed
	}
	return KeyNone
}

func (k KeyClass) String() string {
	switch k {
	case KeyPrimary:
		return "primary"
	case KeyUnique:
		return "unique"
	case KeyIndexed:
		return "indexed"
	}
	return "none"
}

// Label is the short tag shown next to a column name in listings.
func (k KeyClass) Label() string {
	switch k {
	case KeyPrimary:
		return "PK"
	case KeyUnique:
		return "Unique"
	case KeyIndexed:
		return "Index"
	}
	return ""
}

// SQLType is a base type plus optional length or precision/scale.
type SQLType struct {
	Base      string
	Length    int
	Precision int
	Scale     int
}

// 길이 정보가 없을 때 선언용으로 쓰는 기본 길이
const defaultCharLength = 255

var charTypes = map[string]bool{
	"char": true, "varchar": true, "binary": true, "varbinary": true,
}

var exactNumericTypes = map[string]bool{
	"decimal": true, "numeric": true,
}

// ParseSQLType accepts "int", "varchar(64)" or "decimal(10,2)".
func ParseSQLType(raw string) SQLType {
	s := strings.ToLower(strings.TrimSpace(raw))
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return SQLType{Base: s}
	}
	t := SQLType{Base: strings.TrimSpace(s[:open])}
	args := s[open+1:]
	if end := strings.IndexByte(args, ')'); end >= 0 {
		args = args[:end]
	}
	parts := strings.Split(args, ",")
	first, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	if exactNumericTypes[t.Base] {
		t.Precision = first
		if len(parts) > 1 {
			t.Scale, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
		}
		return t
	}
	t.Length = first
	return t
}

// String renders the type as a declaration, e.g. varchar(64) or decimal(10,2).
func (t SQLType) String() string {
	base := strings.ToLower(t.Base)
	switch {
	case charTypes[base]:
		length := t.Length
		if length <= 0 {
			length = defaultCharLength
		}
		return fmt.Sprintf("%s(%d)", base, length)
	case exactNumericTypes[base] && t.Precision > 0:
		return fmt.Sprintf("%s(%d,%d)", base, t.Precision, t.Scale)
	}
	return base
}

// SameBase reports whether both types share a base type, ignoring length.
func (t SQLType) SameBase(o SQLType) bool {
	return strings.EqualFold(t.Base, o.Base)
}

type Column struct {
	Name            string
	Type            SQLType
	IsPrimaryKey    bool
	Key             KeyClass
	IsAutoIncrement bool
	IsNullable      bool
	Comment         string // DB 스키마 코멘트
	Meaning         string // 이름/코멘트 분석 결과 (예: "audit", "deleteflag")
}

type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// TableRef is a table name optionally qualified with its schema.
type TableRef struct {
	Schema string
	Name   string
}

// ParseTableRef splits "schema.table" on the last dot.
func ParseTableRef(s string) TableRef {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return TableRef{Schema: s[:i], Name: s[i+1:]}
	}
	return TableRef{Name: s}
}

// Local returns the unqualified table name.
func (r TableRef) Local() string { return r.Name }

func (r TableRef) String() string {
	if r.Schema == "" {
		return r.Name
	}
	return r.Schema + "." + r.Name
}

// In qualifies an unqualified ref with the given schema.
func (r TableRef) In(schema string) TableRef {
	if r.Schema == "" {
		r.Schema = schema
	}
	return r
}

// FindColumn looks a column up by name, case-insensitively like MySQL does.
func FindColumn(cols []Column, name string) (Column, bool) {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeys returns the primary-key columns in table order.
func PrimaryKeys(cols []Column) []Column {
	var pks []Column
	for _, c := range cols {
		if c.IsPrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

func ColumnNames(cols []Column) []string {
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

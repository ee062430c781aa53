package procgen

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoInsertColumns = errors.New("no insertable columns")

// NoPrimaryKeyError is returned when a table the procedure must address by
// id has no primary key.
type NoPrimaryKeyError struct {
	Side  string
	Table string
}

func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("no primary key found in %s table %q, cannot generate procedure", e.Side, e.Table)
}

// CompositeKeyError is returned when a main table has a multi-column primary
// key; the procedure carries a single id per parent row.
type CompositeKeyError struct {
	Side    string
	Table   string
	Columns []string
}

func (e *CompositeKeyError) Error() string {
	return fmt.Sprintf("%s table %q has a composite primary key (%s); a single-column key is required",
		e.Side, e.Table, strings.Join(e.Columns, ", "))
}

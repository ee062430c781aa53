// Package syncconf holds the synchronization plan for one parent/child job
// and the validator that builds it step by step against live metadata.
package syncconf

import (
	"fmt"
	"slices"
)

// TableRelation names the four tables of a job. Names may be qualified
// with the schema of their own side ("shop.users").
type TableRelation struct {
	SourceMain  string
	SourceChild string
	TargetMain  string
	TargetChild string
}

func (r TableRelation) isSet() bool { return r.SourceMain != "" }

// SyncKeys are the columns used to match rows independently of generated ids.
type SyncKeys struct {
	MainUniqueKey   string // matches parent rows across source and target
	ChildForeignKey string // links child rows to their parent
	ChildUniqueKey  string // tells child rows of one parent apart
}

// SyncScope restricts which rows are considered and which columns updates skip.
//
// FilterCondition is caller-owned SQL. It is copied verbatim into the WHERE
// clause of the generated cursor and is neither validated nor escaped, so it
// must come from the same trusted operator who runs the script.
//
// Excluded fields are skipped when an existing target row is updated, never
// when a new row is inserted.
type SyncScope struct {
	FilterCondition    string
	ExcludeFieldsMain  []string
	ExcludeFieldsChild []string
}

func (s SyncScope) clone() SyncScope {
	s.ExcludeFieldsMain = slices.Clone(s.ExcludeFieldsMain)
	s.ExcludeFieldsChild = slices.Clone(s.ExcludeFieldsChild)
	return s
}

type State int

const (
	StateEmpty State = iota
	StateRelationsSet
	StateKeysSet
	StateScopeSet
	StateReady
)

func (s State) String() string {
	switch s {
	case StateRelationsSet:
		return "relations set"
	case StateKeysSet:
		return "keys set"
	case StateScopeSet:
		return "scope set"
	case StateReady:
		return "ready"
	}
	return "empty"
}

// Draft is an in-progress plan. Its zero value is the empty state.
// A Draft is a value; the validator swaps in a new one on every successful step.
type Draft struct {
	relations TableRelation
	keys      SyncKeys
	scope     SyncScope
	hasKeys   bool
	hasScope  bool
}

func (d Draft) Relations() TableRelation { return d.relations }
func (d Draft) Keys() SyncKeys           { return d.keys }
func (d Draft) Scope() SyncScope         { return d.scope.clone() }

func (d Draft) State() State {
	switch {
	case !d.relations.isSet():
		return StateEmpty
	case d.hasKeys && d.hasScope:
		return StateReady
	case d.hasKeys:
		return StateKeysSet
	case d.hasScope:
		return StateScopeSet
	}
	return StateRelationsSet
}

// Ready freezes a complete draft into a Config.
func (d Draft) Ready() (Config, error) {
	if st := d.State(); st != StateReady {
		return Config{}, fmt.Errorf("%w (state: %s)", ErrNotReady, st)
	}
	return Config{
		relations: d.relations,
		keys:      d.keys,
		scope:     d.scope.clone(),
		ready:     true,
	}, nil
}

// Config is a validated, read-only plan. It can only be obtained from
// Draft.Ready; the zero value reports IsReady() == false.
type Config struct {
	relations TableRelation
	keys      SyncKeys
	scope     SyncScope
	ready     bool
}

func (c Config) Relations() TableRelation { return c.relations }
func (c Config) Keys() SyncKeys           { return c.keys }
func (c Config) Scope() SyncScope         { return c.scope.clone() }
func (c Config) IsReady() bool            { return c.ready }

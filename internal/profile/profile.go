// Package profile stores the last used sync job as YAML so the next run can
// start from it. Connection credentials are never part of a profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"db-syncgen/internal/suggest"
	"db-syncgen/internal/syncconf"
)

const DefaultFile = "db-syncgen.profile.yaml"

type Tables struct {
	SourceMain  string `yaml:"source_main"`
	SourceChild string `yaml:"source_child"`
	TargetMain  string `yaml:"target_main"`
	TargetChild string `yaml:"target_child"`
}

type Keys struct {
	MainUnique   string `yaml:"main_unique"`
	ChildForeign string `yaml:"child_foreign"`
	ChildUnique  string `yaml:"child_unique"`
}

// Scope holds either a raw filter or rules to build one from; Filter wins
// when both are set.
type Scope struct {
	Filter       string         `yaml:"filter,omitempty"`
	Rules        []suggest.Rule `yaml:"rules,omitempty"`
	ExcludeMain  []string       `yaml:"exclude_main,omitempty"`
	ExcludeChild []string       `yaml:"exclude_child,omitempty"`
}

func (s Scope) FilterCondition() string {
	if s.Filter != "" {
		return s.Filter
	}
	return suggest.BuildFilter(s.Rules)
}

type Profile struct {
	// Source and Target name entries of the databases list.
	Source string `yaml:"source,omitempty"`
	Target string `yaml:"target,omitempty"`
	Tables Tables `yaml:"tables"`
	Keys   Keys   `yaml:"keys"`
	Scope  Scope  `yaml:"scope"`
}

func (p Profile) Empty() bool {
	return p.Tables == Tables{} && p.Keys == Keys{}
}

// FromDraft captures whatever steps of d are complete.
func FromDraft(d syncconf.Draft) Profile {
	rel, keys, scope := d.Relations(), d.Keys(), d.Scope()
	return Profile{
		Tables: Tables{
			SourceMain:  rel.SourceMain,
			SourceChild: rel.SourceChild,
			TargetMain:  rel.TargetMain,
			TargetChild: rel.TargetChild,
		},
		Keys: Keys{
			MainUnique:   keys.MainUniqueKey,
			ChildForeign: keys.ChildForeignKey,
			ChildUnique:  keys.ChildUniqueKey,
		},
		Scope: Scope{
			Filter:       scope.FilterCondition,
			ExcludeMain:  scope.ExcludeFieldsMain,
			ExcludeChild: scope.ExcludeFieldsChild,
		},
	}
}

// Apply runs the three configuration steps on v in order and stops at the
// first failure. done, when not nil, is called with each finished step.
func (p Profile) Apply(ctx context.Context, v *syncconf.Validator, done func(step string)) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"tables", func() error {
			t := p.Tables
			return v.ConfigureRelations(ctx, t.SourceMain, t.SourceChild, t.TargetMain, t.TargetChild)
		}},
		{"keys", func() error {
			return v.ConfigureKeys(ctx, p.Keys.MainUnique, p.Keys.ChildForeign, p.Keys.ChildUnique)
		}},
		{"scope", func() error {
			return v.ConfigureScope(ctx, p.Scope.FilterCondition(), p.Scope.ExcludeMain, p.Scope.ExcludeChild)
		}},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if done != nil {
			done(s.name)
		}
	}
	return nil
}

// Load reads a profile. A missing file is an empty profile, not an error.
func Load(path string) (Profile, error) {
	var p Profile
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

func Save(path string, p Profile) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

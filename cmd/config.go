package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"db-syncgen/internal/conn"
	"db-syncgen/internal/logger"
	"db-syncgen/internal/profile"
)

// GetEndpoint returns the databases entry for role. With --source/--target
// (or the profile) naming an entry, that entry is used whatever its role.
func GetEndpoint(role, name string) (*conn.Endpoint, error) {
	var endpoints []conn.Endpoint
	if err := viper.UnmarshalKey("databases", &endpoints); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var found *conn.Endpoint
	count := 0
	for i := range endpoints {
		ep := &endpoints[i]
		match := strings.EqualFold(ep.Role, role)
		if name != "" {
			match = ep.Name == name
		}
		if match {
			found = ep
			count++
		}
	}

	switch {
	case count == 0 && name != "":
		return nil, fmt.Errorf("no database named %q in config", name)
	case count == 0:
		return nil, fmt.Errorf("no %s database found in config (set role: %s)", role, role)
	case count > 1:
		return nil, fmt.Errorf("multiple %s databases found (only one can have role %s, or pick one with --%s)", role, role, role)
	}
	if found.Role == "" {
		found.Role = role
	}
	return found, nil
}

// Flag/config keys for the job. Flags are bound onto the same keys.
const (
	keySource       = "sync.source"
	keyTarget       = "sync.target"
	keySourceMain   = "sync.tables.source_main"
	keySourceChild  = "sync.tables.source_child"
	keyTargetMain   = "sync.tables.target_main"
	keyTargetChild  = "sync.tables.target_child"
	keyMainUnique   = "sync.keys.main_unique"
	keyChildForeign = "sync.keys.child_foreign"
	keyChildUnique  = "sync.keys.child_unique"
	keyFilter       = "sync.scope.filter"
	keyExcludeMain  = "sync.scope.exclude_main"
	keyExcludeChild = "sync.scope.exclude_child"
)

func overrideString(dst *string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetString(key)
	}
}

func overrideSlice(dst *[]string, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetStringSlice(key)
	}
}

// loadJob merges the saved profile, the config file and flags, later ones
// winning per field.
func loadJob() (profile.Profile, error) {
	p, err := profile.Load(profilePath())
	if err != nil {
		return p, err
	}
	overrideString(&p.Source, keySource)
	overrideString(&p.Target, keyTarget)
	overrideString(&p.Tables.SourceMain, keySourceMain)
	overrideString(&p.Tables.SourceChild, keySourceChild)
	overrideString(&p.Tables.TargetMain, keyTargetMain)
	overrideString(&p.Tables.TargetChild, keyTargetChild)
	overrideString(&p.Keys.MainUnique, keyMainUnique)
	overrideString(&p.Keys.ChildForeign, keyChildForeign)
	overrideString(&p.Keys.ChildUnique, keyChildUnique)
	if viper.IsSet(keyFilter) {
		p.Scope.Filter = viper.GetString(keyFilter)
		p.Scope.Rules = nil
	}
	overrideSlice(&p.Scope.ExcludeMain, keyExcludeMain)
	overrideSlice(&p.Scope.ExcludeChild, keyExcludeChild)
	return p, nil
}

func profilePath() string {
	if path := viper.GetString("profile.path"); path != "" {
		return path
	}
	return profile.DefaultFile
}

// endpoints is an open source/target pair.
type endpoints struct {
	source *conn.Conn
	target *conn.Conn
}

func (e *endpoints) Close() {
	if e.source != nil {
		e.source.Close()
	}
	if e.target != nil {
		e.target.Close()
	}
}

func openEndpoints(ctx context.Context, job profile.Profile) (*endpoints, error) {
	srcEp, err := GetEndpoint(conn.RoleSource, job.Source)
	if err != nil {
		return nil, err
	}
	tgtEp, err := GetEndpoint(conn.RoleTarget, job.Target)
	if err != nil {
		return nil, err
	}

	e := &endpoints{}
	if e.source, err = conn.Open(ctx, *srcEp, logger.Log); err != nil {
		return nil, err
	}
	if e.target, err = conn.Open(ctx, *tgtEp, logger.Log); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

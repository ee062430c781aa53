package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"db-syncgen/internal/logger"
	"db-syncgen/internal/profile"
	"db-syncgen/internal/suggest"
	"db-syncgen/internal/syncconf"
)

var jobFlags = []struct {
	name, key, usage string
	slice            bool
}{
	{"source", keySource, "databases entry to read from (default: the one with role source)", false},
	{"target", keyTarget, "databases entry to write to (default: the one with role target)", false},
	{"source-main", keySourceMain, "source main (parent) table", false},
	{"source-child", keySourceChild, "source child table", false},
	{"target-main", keyTargetMain, "target main (parent) table", false},
	{"target-child", keyTargetChild, "target child table", false},
	{"main-key", keyMainUnique, "business key of the main table", false},
	{"child-fk", keyChildForeign, "child column referencing the main table", false},
	{"child-key", keyChildUnique, "business key of a child row within its parent", false},
	{"filter", keyFilter, "SQL condition on the source main table (trusted, used verbatim)", false},
	{"exclude-main", keyExcludeMain, "main columns never updated (comma-separated)", true},
	{"exclude-child", keyExcludeChild, "child columns never updated (comma-separated)", true},
}

func addJobFlags(cmd *cobra.Command) {
	for _, f := range jobFlags {
		if f.slice {
			cmd.Flags().StringSlice(f.name, nil, f.usage)
		} else {
			cmd.Flags().String(f.name, "", f.usage)
		}
	}
}

// bindJobFlags binds the running command's flags. Binding happens here
// rather than in init because several commands share the keys.
func bindJobFlags(cmd *cobra.Command, args []string) error {
	for _, f := range jobFlags {
		if err := viper.BindPFlag(f.key, cmd.Flags().Lookup(f.name)); err != nil {
			return err
		}
	}
	return nil
}

// configure runs the three configuration steps against live metadata. step
// is called after each one.
func configure(ctx context.Context, e *endpoints, job profile.Profile, step func()) (syncconf.Config, error) {
	if job.Tables.SourceMain == "" {
		return syncconf.Config{}, errors.New("no tables configured: set --source-main/--source-child/--target-main/--target-child or sync.tables")
	}
	if suggest.SelfSyncRisk(e.source.Endpoint, e.target.Endpoint, job.Tables.SourceMain, job.Tables.TargetMain) ||
		suggest.SelfSyncRisk(e.source.Endpoint, e.target.Endpoint, job.Tables.SourceChild, job.Tables.TargetChild) {
		return syncconf.Config{}, errors.New("source and target are the same table in the same database")
	}

	v := syncconf.NewValidator(e.source.Provider(), e.target.Provider(), logger.Log)
	err := job.Apply(ctx, v, func(name string) {
		logger.Log.Debug("configuration step done", zap.String("step", name), zap.Stringer("state", v.Config().State()))
		if step != nil {
			step()
		}
	})
	if err != nil {
		return syncconf.Config{}, err
	}
	return v.Config().Ready()
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"db-syncgen/internal/profile"
	"db-syncgen/internal/schema"
	"db-syncgen/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:     "suggest",
	Short:   "Propose tables, keys and scope for a main table",
	PreRunE: bindJobFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := loadJob()
		if err != nil {
			return err
		}
		if job.Tables.SourceMain == "" {
			return fmt.Errorf("--source-main is required")
		}
		e, err := openEndpoints(ctx, job)
		if err != nil {
			return err
		}
		defer e.Close()
		src, tgt := e.source.Provider(), e.target.Provider()

		srcTables, err := src.ListTables(ctx)
		if err != nil {
			return err
		}
		tgtTables, err := tgt.ListTables(ctx)
		if err != nil {
			return err
		}
		fks, err := src.ForeignKeys(ctx)
		if err != nil {
			return err
		}

		out := job
		t := &out.Tables
		if !containsFold(srcTables, schema.ParseTableRef(t.SourceMain).Local()) {
			return fmt.Errorf("source table %s not found in %s", t.SourceMain, src.SchemaName())
		}
		if t.SourceChild == "" {
			children := suggest.ChildTables(fks, t.SourceMain)
			if len(children) > 0 {
				t.SourceChild = children[0].Table
				if out.Keys.ChildForeign == "" {
					out.Keys.ChildForeign = children[0].ForeignKey
				}
			}
			if len(children) > 1 {
				names := make([]string, len(children))
				for i, c := range children {
					names[i] = c.Table
				}
				fmt.Printf("ℹ %d child tables reference %s: %s\n", len(children), t.SourceMain, strings.Join(names, ", "))
			}
		}
		if t.TargetMain == "" {
			t.TargetMain = suggest.TargetTable(tgtTables, schema.ParseTableRef(t.SourceMain).Local())
		}
		if t.TargetChild == "" && t.SourceChild != "" {
			t.TargetChild = suggest.TargetTable(tgtTables, schema.ParseTableRef(t.SourceChild).Local())
		}

		mainCols, err := src.Columns(ctx, t.SourceMain)
		if err != nil {
			return err
		}
		var childCols []schema.Column
		if t.SourceChild != "" {
			if childCols, err = src.Columns(ctx, t.SourceChild); err != nil {
				return err
			}
		}
		if out.Keys.MainUnique == "" {
			out.Keys.MainUnique = suggest.UniqueKey(mainCols)
		}
		if out.Keys.ChildForeign == "" {
			out.Keys.ChildForeign = suggest.ForeignKeyColumn(childCols)
		}
		if out.Keys.ChildUnique == "" {
			out.Keys.ChildUnique = suggest.UniqueKey(childCols)
		}
		if out.Scope.FilterCondition() == "" {
			out.Scope.Rules = suggest.FilterRules(mainCols)
		}
		if len(out.Scope.ExcludeMain) == 0 {
			out.Scope.ExcludeMain = suggest.ExcludeFields(mainCols)
		}
		if len(out.Scope.ExcludeChild) == 0 {
			out.Scope.ExcludeChild = suggest.ExcludeFields(childCols)
		}

		printJob(out)

		if save, _ := cmd.Flags().GetBool("save-profile"); save {
			if err := profile.Save(profilePath(), out); err != nil {
				return err
			}
			fmt.Printf("💾 Profile saved to %s\n", profilePath())
		}
		return nil
	},
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func printJob(p profile.Profile) {
	fmt.Println("\n📋 Sync plan:")
	fmt.Printf("  source main  : %s\n", orNone(p.Tables.SourceMain))
	fmt.Printf("  source child : %s\n", orNone(p.Tables.SourceChild))
	fmt.Printf("  target main  : %s\n", orNone(p.Tables.TargetMain))
	fmt.Printf("  target child : %s\n", orNone(p.Tables.TargetChild))
	fmt.Printf("  main key     : %s\n", orNone(p.Keys.MainUnique))
	fmt.Printf("  child fk     : %s\n", orNone(p.Keys.ChildForeign))
	fmt.Printf("  child key    : %s\n", orNone(p.Keys.ChildUnique))
	fmt.Printf("  filter       : %s\n", orNone(p.Scope.FilterCondition()))
	fmt.Printf("  exclude main : %s\n", orNone(strings.Join(p.Scope.ExcludeMain, ", ")))
	fmt.Printf("  exclude child: %s\n", orNone(strings.Join(p.Scope.ExcludeChild, ", ")))
}

func init() {
	RootCmd.AddCommand(suggestCmd)
	addJobFlags(suggestCmd)
	suggestCmd.Flags().Bool("save-profile", false, "save the proposal as the job profile")
}

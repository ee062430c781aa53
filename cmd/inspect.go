package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"db-syncgen/internal/conn"
	"db-syncgen/internal/logger"
	"db-syncgen/internal/schema"
	"db-syncgen/internal/suggest"
)

var inspectSide string

var inspectCmd = &cobra.Command{
	Use:   "inspect [table]",
	Short: "List tables, or the columns of one table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if inspectSide != conn.RoleSource && inspectSide != conn.RoleTarget {
			return fmt.Errorf("--side must be %s or %s", conn.RoleSource, conn.RoleTarget)
		}
		ep, err := GetEndpoint(inspectSide, "")
		if err != nil {
			return err
		}
		c, err := conn.Open(ctx, *ep, logger.Log)
		if err != nil {
			return err
		}
		defer c.Close()
		p := c.Provider()

		fmt.Printf("🦅 %s: %s, schema %s\n", inspectSide, c.Endpoint, p.SchemaName())

		if len(args) == 1 {
			cols, err := p.Columns(ctx, args[0])
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				return fmt.Errorf("table %s not found in %s", args[0], p.SchemaName())
			}
			comment, err := p.TableComment(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("\n%s", args[0])
			if comment != "" {
				fmt.Printf(" - %s", comment)
			}
			fmt.Println()
			for _, col := range cols {
				extra := ""
				if col.Meaning != "" {
					extra = fmt.Sprintf("  (%s)", col.Meaning)
				}
				fmt.Printf("  %-40s %s%s\n", suggest.Describe(col), col.Type, extra)
			}
			return nil
		}

		tables, err := p.ListTables(ctx)
		if err != nil {
			return err
		}
		fks, err := p.ForeignKeys(ctx)
		if err != nil {
			return err
		}
		// parents first, so a main table shows up before its children
		ordered := schema.OrderByDependency(tables, fks)

		fmt.Printf("\n🔍 %d tables (dependency order):\n", len(ordered))
		for i, t := range ordered {
			comment, err := p.TableComment(ctx, t)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("[%02d] %s", i+1, t)
			if comment != "" {
				line += " - " + comment
			}
			if children := suggest.ChildTables(fks, t); len(children) > 0 {
				line += " ->"
				for _, ch := range children {
					line += fmt.Sprintf(" %s(%s)", ch.Table, ch.ForeignKey)
				}
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectSide, "side", conn.RoleSource, "which database to inspect: source or target")
}

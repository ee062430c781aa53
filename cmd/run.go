package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"db-syncgen/internal/logger"
	"db-syncgen/internal/procgen"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate the sync procedure and execute it on the target",
	Long: `Generates the procedure, then on the target database drops any previous
copy, creates it, calls it once and drops it again. The procedure reads the
source tables through the target server, so both schemas must live on the
same MySQL instance.`,
	PreRunE: bindJobFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := loadJob()
		if err != nil {
			return err
		}
		start := time.Now()

		// connect + 3 validation steps + generate + execute
		pr := newProgress(6)
		e, _, script, err := buildScript(ctx, job, pr)
		if err != nil {
			pr.Stop()
			return err
		}
		defer e.Close()

		if name := e.target.Dialect.Name(); name != "mysql" {
			pr.Stop()
			return fmt.Errorf("run needs a mysql target, got %s; use generate and run the script yourself", name)
		}
		srcHost, srcPort := e.source.Endpoint.Address()
		tgtHost, tgtPort := e.target.Endpoint.Address()
		if srcHost != tgtHost || srcPort != tgtPort {
			logger.Log.Warn("source and target look like different servers; the procedure reads source tables through the target",
				zap.String("source", e.source.Endpoint.String()),
				zap.String("target", e.target.Endpoint.String()))
		}

		res, err := procgen.Execute(ctx, e.target.DB, script, logger.Log)
		pr.Step("executed")
		pr.Stop()
		if err != nil {
			return err
		}

		fmt.Println("\n📊 Sync Report:")
		fmt.Printf("  procedure   : %s\n", script.Name)
		fmt.Printf("  status      : %s\n", res.Status)
		fmt.Printf("  synced rows : %d\n", res.SyncedRows)
		var interrupted *procgen.InterruptedError
		if err := res.Err(); errors.As(err, &interrupted) {
			fmt.Printf("  failed step : %s\n", res.Step)
			fmt.Printf("  source key  : %s\n", res.SourceKey)
			fmt.Printf("  sql state   : %s\n", res.SQLState)
			fmt.Printf("  detail      : %s\n", res.Detail)
			return err
		}
		logger.Log.Info("run done", zap.Duration("elapsed", time.Since(start)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(runCmd)
	addJobFlags(runCmd)
}

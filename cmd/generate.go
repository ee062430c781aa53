package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"db-syncgen/internal/export"
	"db-syncgen/internal/logger"
	"db-syncgen/internal/procgen"
	"db-syncgen/internal/profile"
	"db-syncgen/internal/syncconf"
)

var (
	part         string
	outDir       string
	exportScript bool
	saveProfile  bool
)

// progress is a single step bar on stderr; stdout carries the script.
type progress struct {
	p   *uiprogress.Progress
	bar *uiprogress.Bar
	msg string
}

func newProgress(steps int) *progress {
	if noProgress {
		return &progress{}
	}
	pr := &progress{p: uiprogress.New()}
	pr.p.SetOut(os.Stderr)
	pr.bar = pr.p.AddBar(steps).AppendCompleted().PrependElapsed()
	pr.bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%-12s", pr.msg)
	})
	pr.p.Start()
	return pr
}

func (pr *progress) Step(msg string) {
	if pr.bar == nil {
		return
	}
	pr.msg = msg
	pr.bar.Incr()
}

func (pr *progress) Stop() {
	if pr.p != nil {
		pr.p.Stop()
	}
}

// buildScript connects, validates the job and renders the procedure.
func buildScript(ctx context.Context, job profile.Profile, pr *progress) (*endpoints, syncconf.Config, procgen.Script, error) {
	e, err := openEndpoints(ctx, job)
	if err != nil {
		return nil, syncconf.Config{}, procgen.Script{}, err
	}
	pr.Step("connected")

	cfg, err := configure(ctx, e, job, func() { pr.Step("validated") })
	if err != nil {
		e.Close()
		return nil, syncconf.Config{}, procgen.Script{}, err
	}

	gen, err := procgen.New(ctx, cfg, e.source.Provider(), e.target.Provider(), procgen.WithLogger(logger.Log))
	if err != nil {
		e.Close()
		return nil, syncconf.Config{}, procgen.Script{}, err
	}
	script, err := gen.Generate(ctx)
	if err != nil {
		e.Close()
		return nil, syncconf.Config{}, procgen.Script{}, err
	}
	pr.Step("generated")
	return e, cfg, script, nil
}

func scriptPart(s procgen.Script, part string) (string, error) {
	switch part {
	case "full", "":
		return s.Full(), nil
	case "definition":
		return s.Definition, nil
	case "call":
		return s.Call, nil
	case "drop":
		return s.Drop, nil
	}
	if section, ok := s.Sections[part]; ok {
		return section, nil
	}
	return "", fmt.Errorf("unknown --part %q (full, definition, call, drop or a section: %v)", part, procgen.Slots)
}

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate the sync procedure for the configured job",
	PreRunE: bindJobFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		job, err := loadJob()
		if err != nil {
			return err
		}
		start := time.Now()

		// connect + 3 validation steps + generate (+ export)
		steps := 5
		dir := viper.GetString("output.dir")
		if cmd.Flags().Changed("out") {
			dir = outDir
		}
		exporting := exportScript || cmd.Flags().Changed("out")
		if exporting {
			steps++
		}
		pr := newProgress(steps)
		e, cfg, script, err := buildScript(ctx, job, pr)
		if err != nil {
			pr.Stop()
			return err
		}
		defer e.Close()

		text, err := scriptPart(script, part)
		if err != nil {
			pr.Stop()
			return err
		}

		var written export.Result
		if exporting {
			written, err = export.WriteScript(dir, export.FileName(cfg.Relations(), start), script.Full(), start)
			if err != nil {
				pr.Stop()
				return err
			}
			pr.Step("exported")
		}
		pr.Stop()

		if saveProfile {
			if err := profile.Save(profilePath(), job); err != nil {
				return err
			}
			logger.Log.Info("profile saved", zap.String("path", profilePath()))
		}

		if exporting {
			fmt.Fprintf(os.Stderr, "💾 Script written to %s\n", written.Path)
			if written.Backup != "" {
				fmt.Fprintf(os.Stderr, "   previous file kept as %s\n", written.Backup)
			}
		} else {
			fmt.Println(text)
		}
		logger.Log.Info("generate done", zap.String("procedure", script.Name), zap.Duration("elapsed", time.Since(start)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(generateCmd)
	addJobFlags(generateCmd)
	generateCmd.Flags().StringVar(&part, "part", "full", "what to print: full, definition, call, drop or a section name")
	generateCmd.Flags().BoolVar(&exportScript, "export", false, "write the full script to output.dir instead of printing it")
	generateCmd.Flags().StringVar(&outDir, "out", "", "like --export, into this directory")
	generateCmd.Flags().BoolVar(&saveProfile, "save-profile", false, "save the job as the profile for the next run")
}

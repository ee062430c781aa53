package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"db-syncgen/internal/logger"
)

var (
	cfgFile    string
	debug      bool
	jsonLog    bool
	noProgress bool
)

var RootCmd = &cobra.Command{
	Use:   "db-syncgen",
	Short: "Parent/child table sync procedure generator",
	Long: `
DB SYNCGEN 🔁 - Parent/Child Sync Procedure Generator

Builds a MySQL stored procedure that copies a parent table and its child
table into another schema, matching rows by business keys instead of ids.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings, err := logger.SettingsFromEnv()
		if err != nil {
			return err
		}
		// flags win over the environment
		if cmd.Flags().Changed("debug") {
			settings.Debug = debug
		}
		if cmd.Flags().Changed("json-log") {
			settings.JSON = jsonLog
		}
		if err := logger.Init(settings.Debug, settings.JSON); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Log.Debug("config loaded", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Log.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-syncgen.yaml)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging (env DEBUG_MODE)")
	RootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "JSON log output (env ENABLE_JSON_LOGGING)")
	RootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "hide progress bars")

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("profile.path", "")
}

// initConfig reads .env, the config file and SYNCGEN_* variables.
func initConfig() {
	// .env 는 있을 때만
	_ = godotenv.Overload(".env")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-syncgen")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SYNCGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Warning: could not read config:", err)
		}
	}
}

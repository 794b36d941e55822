package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gomedic/internal/app"
	"gomedic/internal/config"
	"gomedic/internal/db"
	"gomedic/internal/logging"
	"gomedic/internal/migrate"
	"gomedic/internal/repo"
)

var rootCmd = &cobra.Command{
	Use:   "gm",
	Short: "GoMedic CLI",
	Long: `GoMedic keeps a clinic record of doctors, patients and scheduled activities.
- Record: persons (doctors D001.., patients P001..) and activities (A001..) with start and end times.
- Commands: the same text commands as the shell, e.g. "add t/activity s/15/10/2026 09:00 e/15/10/2026 10:00 ti/Ward round".
- Conflicts: two activities may never overlap; touching at a boundary counts as overlapping.
- Storage: a JSON data file by default, or the workspace SQLite database (storage.backend).
- Event log: every command is recorded, view it with 'gm log tail'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("GOMEDIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("backend", "", "storage backend (json or sqlite), overrides config")
	rootCmd.PersistentFlags().String("log-level", "", "log level, overrides config")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text or json), overrides config")
	for _, name := range []string{"workspace", "json", "verbose", "backend", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(shellCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(peekCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(logCmd())
}

// --- helpers ---

// loadConfig reads gomedic.yml, falling back to defaults, and applies flag and env overrides.
func loadConfig(workspace string) (*config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("backend"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := viper.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// withRuntime opens the workspace and loads the record before calling fn.
func withRuntime(ctx context.Context, fn func(context.Context, *app.Runtime) error) error {
	workspace := viper.GetString("workspace")
	cfg, err := loadConfig(workspace)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	rt, err := app.Open(ctx, workspace, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.LoadRecord(ctx); err != nil {
		return err
	}
	return fn(ctx, rt)
}

func withRepo(ctx context.Context, fn func(context.Context, repo.Repo) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.MigrateContext(ctx, conn); err != nil {
		return err
	}
	return fn(ctx, repo.Repo{DB: conn})
}

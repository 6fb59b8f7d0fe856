package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"folio/internal/app"
	"folio/internal/config"
	"folio/internal/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string

// skipAppAnnotation marks commands that only need configuration, not a database pool.
const skipAppAnnotation = "folio/skip-app"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio portfolio search service",
	Long:  `Folio stores portfolio content (projects, services and pages) and answers search queries with query-focused summaries.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == cmd.Root() || cmd.Name() == "help" || cmd.Name() == cobra.ShellCompRequestCmd {
			return nil
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		setupLogging(cfg)

		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		if skipsApp(cmd) {
			cmd.SetContext(ctx)
			return nil
		}

		appInstance, err := app.NewApp(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a, err := GetAppFromContext(cmd.Context()); err == nil {
			a.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type contextKey string

const (
	appKey    contextKey = "app"
	configKey contextKey = "config"
)

// GetAppFromContext returns the app built by the root command's pre-run hook.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	return cfg, nil
}

func skipsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipAppAnnotation]; ok {
			return true
		}
	}
	return false
}

func setupLogging(cfg *config.Config) {
	if cfg.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking database connectivity...")
		if err := appInstance.Store.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Println("Database connection successful.")

		fmt.Println("Checking full-text index...")
		if err := appInstance.Store.EnsureTextIndex(ctx); err != nil && !errors.Is(err, store.ErrIndexExists) {
			return fmt.Errorf("full-text index check failed: %w", err)
		}
		fmt.Println("Full-text index ready.")
		return nil
	},
}

package cmd

import (
	"fmt"

	"folio/internal/store/migrations"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply or inspect the database schema",
	Long:      `Runs the embedded goose migrations against database.dsn. With no argument it migrates up.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{migrations.Up, migrations.Down, migrations.Status},
	Annotations: map[string]string{
		skipAppAnnotation: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		command := migrations.Up
		if len(args) == 1 {
			command = args[0]
		}

		log.WithField("command", command).Info("Running migrations")
		if err := migrations.Run(cmd.Context(), cfg.Database.DSN, command); err != nil {
			return err
		}
		fmt.Printf("migrate %s: done\n", command)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

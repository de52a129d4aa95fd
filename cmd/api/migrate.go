package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"gaia-mare/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.Service, log *zap.Logger) error {
			return database.RunMigrations(cmd.Context(), db, log)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.Service, log *zap.Logger) error {
			states, err := database.GetMigrationStatus(cmd.Context(), db)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tMIGRATION\tAPPLIED AT")
			for _, s := range states {
				appliedAt := "pending"
				if s.Applied {
					appliedAt = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Path, appliedAt)
			}
			return w.Flush()
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample catalogue into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(db *database.Service, log *zap.Logger) error {
			if err := database.RunMigrations(cmd.Context(), db, log); err != nil {
				return err
			}
			_, err := database.Seed(cmd.Context(), db.DB(), log)
			return err
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateStatusCmd)
}

// withDatabase boots configuration, opens the store and closes it once fn returns.
func withDatabase(fn func(db *database.Service, log *zap.Logger) error) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.New(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db, log)
}

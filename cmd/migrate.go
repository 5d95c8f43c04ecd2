package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sales_management/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := db.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close(conn)

		if err := db.Migrate(conn); err != nil {
			return err
		}
		logger.Info("migrations completed")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default lookup rows and the admin user",
	Long: `Insert the default areas, categories and brands, then create the admin
user from ADMIN_USERNAME / ADMIN_PASSWORD when it does not exist yet.
Running it twice changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := db.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close(conn)

		if err := db.Migrate(conn); err != nil {
			return err
		}
		if err := db.Seed(conn, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return err
		}
		logger.Info("seed completed", zap.Bool("admin_user", cfg.Auth.AdminPassword != ""))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

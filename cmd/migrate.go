package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meinhoongagan/medcare/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.DatabaseURL, false, log)
			if err != nil {
				return err
			}
			return db.Migrate(database, log)
		},
	}
}

func seedAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			fullName, _ := cmd.Flags().GetString("name")
			if username == "" {
				username = cfg.AdminUsername
			}
			if password == "" {
				password = cfg.AdminPassword
			}

			database, err := db.Open(cfg.DatabaseURL, false, log)
			if err != nil {
				return err
			}
			if err := db.Migrate(database, log); err != nil {
				return err
			}
			created, err := db.SeedAdmin(database, username, password, fullName)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Administrator %q created.\n", username)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "User %q already exists, nothing to do.\n", username)
			}
			return nil
		},
	}
	cmd.Flags().String("username", "", "admin username (default ADMIN_USERNAME)")
	cmd.Flags().String("password", "", "admin password (default ADMIN_PASSWORD)")
	cmd.Flags().String("name", "Administrator", "admin full name")
	return cmd
}

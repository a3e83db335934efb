package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	repo "incorporation-portal/internal/adapter/repository/mysql"
	"incorporation-portal/internal/config"
	"incorporation-portal/internal/infrastructure/db"
	"incorporation-portal/internal/infrastructure/logger"
	"incorporation-portal/internal/usecase/auth"
)

// opener is swapped in tests.
var opener = func(cfg *config.Config) (*gorm.DB, error) {
	return db.OpenGorm(cfg.MySQLDSN(), logger.New(cfg.LogLevel, cfg.LogFormat))
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operations for the incorporation portal database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment")

	load := func() (*config.Config, *gorm.DB, error) {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return nil, nil, err
		}
		gdb, err := opener(cfg)
		if err != nil {
			return nil, nil, err
		}
		return cfg, gdb, nil
	}

	root.AddCommand(newMigrateCmd(load), newCreateAdminCmd(load))
	return root
}

type loader func() (*config.Config, *gorm.DB, error)

func newMigrateCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, gdb, err := load()
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newCreateAdminCmd(load loader) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the admin account unless it already exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, gdb, err := load()
			if err != nil {
				return err
			}
			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			uc := auth.NewUsecase(repo.NewUserRepository(gdb), nil, nil, cfg.SessionTTL(), nil)
			created, err := uc.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	return cmd
}

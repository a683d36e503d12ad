package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/app"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/repository"
)

func newUserCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd(global))
	return cmd
}

func newUserCreateCmd(global *globalOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user with a bcrypt-hashed password",
		Long: `Create inserts a user directly into the configured database. The id it
prints is what clients pass as userId.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			cfg, logger, err := global.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := app.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			user := &models.User{Username: username}
			if err := user.SetPassword(password); err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			created, err := store.CreateUser(cmd.Context(), user)
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("user %q already exists", username)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s with id %d\n", created.Username, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tagvault/mediasearch/internal/logger"
	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/repositories"
	"github.com/tagvault/mediasearch/internal/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user; the password is read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup("info")
		if err != nil {
			return err
		}
		defer logger.Sync()

		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		password, err := readLine(cmd)
		if err != nil {
			return err
		}

		db, err := openStore(cfg, 1)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := services.NewAuthService(repositories.NewUserRepository(db, logger.Logger), logger.Logger)
		user, err := svc.Register(cmd.Context(), args[0], password)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateUsername) {
				return fmt.Errorf("user %q already exists", args[0])
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "[SUCCESS] Created user %s (ID: %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
}

func readLine(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("no password given")
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

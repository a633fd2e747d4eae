package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/auth"
	"github.com/jayakrishna0023/fleet-guardian/pkg/database/queries"
	"github.com/jayakrishna0023/fleet-guardian/pkg/validation"
)

func newOperatorCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage API operator logins",
	}
	cmd.AddCommand(newOperatorHashCmd(), newOperatorAddCmd(root), newOperatorListCmd(root), newOperatorRemoveCmd(root))
	return cmd
}

func newOperatorHashCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print a bcrypt hash for api.operators[].password_hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := hashFromInput(cmd, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password to hash (read from stdin when empty)")
	return cmd
}

func newOperatorAddCmd(root *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an operator in the database or replace its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := validation.SanitizeString(args[0])
			if err := validation.ValidateUsername(username); err != nil {
				return err
			}
			hash, err := hashFromInput(cmd, password)
			if err != nil {
				return err
			}

			repo, closeDB, err := userRepository(root)
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := repo.Upsert(context.Background(), username, hash)
			if err != nil {
				return fmt.Errorf("failed to save operator: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s saved (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	return cmd
}

func newOperatorListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List database operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := userRepository(root)
			if err != nil {
				return err
			}
			defer closeDB()

			users, err := repo.List(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Username, u.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newOperatorRemoveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Delete a database operator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, closeDB, err := userRepository(root)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := repo.Delete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s removed\n", args[0])
			return nil
		},
	}
}

func userRepository(root *rootOptions) (*queries.UserRepository, func(), error) {
	cfg, err := root.load()
	if err != nil {
		return nil, nil, err
	}
	rt, err := openRuntime(cfg, true)
	if err != nil {
		return nil, nil, err
	}
	return queries.NewUserRepository(rt.db.DB), rt.Close, nil
}

func hashFromInput(cmd *cobra.Command, password string) (string, error) {
	if password == "" {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", errors.New("no password given")
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}
	return auth.HashPassword(password)
}

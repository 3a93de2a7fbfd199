package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

const passwordEnv = "ACCOUNTSYNC_PASSWORD"

func newLoadCommand(opts *rootOptions) *cobra.Command {
	var reload bool
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the account list from the directory into the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}

			load := a.manager.LoadAll
			if reload {
				load = a.manager.ReloadAll
			}
			added, err := load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loaded %d accounts before failing: %w", added, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "loaded %d accounts\n", added)
			return err
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "clear the cache first and always contact the directory")
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every cached account, loading the cache first when it is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}
			if _, err := a.manager.LoadAll(cmd.Context()); err != nil {
				return err
			}
			all, err := a.manager.All(cmd.Context())
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), all)
		},
	}
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <mail|uid>",
		Short: "Print one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}
			account, err := a.manager.Load(cmd.Context(), structs.FullAddress(args[0], a.config.Directory.Domain))
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), account)
		},
	}
}

func newAddCommand(opts *rootOptions) *cobra.Command {
	account := &structs.Account{}
	var password string

	cmd := &cobra.Command{
		Use:   "add <uid>",
		Short: "Create an account in the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}

			account.UID = args[0]
			if err := a.manager.Add(cmd.Context(), account, pw); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", account.MailAddress(a.config.Directory.Domain))
			return err
		},
	}
	cmd.Flags().StringVar(&account.GivenName, "given-name", "", "given name")
	cmd.Flags().StringVar(&account.FamilyName, "family-name", "", "family name")
	cmd.Flags().StringVar(&account.FullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&account.MailAlias, "alias", "", "secondary mail address")
	cmd.Flags().BoolVar(&account.IsStaff, "staff", false, "place the account in the staff org unit")
	cmd.Flags().StringVar(&password, "password", "", "initial password, defaults to $"+passwordEnv)
	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <mail|uid>",
		Short: "Delete an account from the directory and the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}
			mail := structs.FullAddress(args[0], a.config.Directory.Domain)
			if err := a.manager.Delete(cmd.Context(), mail); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", mail)
			return err
		},
	}
}

func newPasswdCommand(opts *rootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <mail|uid>",
		Short: "Set a new password on an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), opts.env)
			if err != nil {
				return err
			}
			mail := structs.FullAddress(args[0], a.config.Directory.Domain)
			account := &structs.Account{UID: structs.LocalPart(mail), Mail: mail}
			return a.manager.ChangePassword(cmd.Context(), account, pw)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password, defaults to $"+passwordEnv)
	return cmd
}

func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if pw := os.Getenv(passwordEnv); pw != "" {
		return pw, nil
	}
	return "", errors.New("a password is required, pass --password or set " + passwordEnv)
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redhat-data-and-ai/accountsync/pkg/accounts"
	"github.com/redhat-data-and-ai/accountsync/pkg/cache"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients"
	"github.com/redhat-data-and-ai/accountsync/pkg/config"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
	"github.com/redhat-data-and-ai/accountsync/pkg/store"
)

type rootOptions struct {
	env string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "accountsync",
		Short:        "Keep a cache of directory accounts in sync with the directory service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.env, "env", config.Environment(),
		"configuration environment, reads appconfig/<env>.yaml on top of default.yaml")

	cmd.AddCommand(
		newServeCommand(opts),
		newLoadCommand(opts),
		newListCommand(opts),
		newGetCommand(opts),
		newAddCommand(opts),
		newDeleteCommand(opts),
		newPasswdCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)
	return cmd
}

// app holds the components every command works with.
type app struct {
	config  *config.AppConfig
	manager *accounts.Manager
}

func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.LoadConfig(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}

	c, err := cache.New(&cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	client, err := clients.New(ctx, cfg.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create directory client: %w", err)
	}

	manager := accounts.NewManager(client, store.New(c).Account, accounts.Options{
		Domain:       cfg.Directory.Domain,
		StaffOrgUnit: cfg.Directory.StaffOrgUnit,
	})
	return &app{config: cfg, manager: manager}, nil
}

func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

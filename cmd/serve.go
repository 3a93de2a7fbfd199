package main

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/redhat-data-and-ai/accountsync/internal/api"
	"github.com/redhat-data-and-ai/accountsync/internal/periodicjobs"
	"github.com/redhat-data-and-ai/accountsync/pkg/config"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API and the periodic cache refresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts.env)
			if err != nil {
				return err
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	log := logger.Logger(ctx)
	a.warmCache(ctx)

	err := config.Watch(func(cfg *config.AppConfig) {
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			log.WithError(err).Warn("ignoring invalid log settings")
		}
	})
	if err != nil {
		log.WithError(err).Warn("config reload disabled")
	}

	taskManager := periodicjobs.NewPeriodicTaskManager()
	periodicjobs.NewCacheRefreshJob(a.manager, a.config.Jobs.CacheRefreshInterval, a.config.Snapshot.Path).
		AddToPeriodicTaskManager(taskManager)

	server := api.NewServer(a.manager, a.config.API)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Start(ctx) })
	g.Go(func() error { return taskManager.Start(ctx) })
	return g.Wait()
}

// warmCache fills the cache before serving, from the snapshot file when
// configured and otherwise from the directory. A failed load is logged and
// serving continues.
func (a *app) warmCache(ctx context.Context) {
	log := logger.Logger(ctx)

	if a.config.Snapshot.RestoreOnStart {
		restored, err := a.manager.RestoreSnapshotFile(ctx, a.config.Snapshot.Path)
		switch {
		case err == nil:
			log.WithField("count", restored).Info("cache restored from snapshot")
			return
		case restored > 0:
			log.WithError(err).WithField("count", restored).Warn("cache restored from snapshot with skipped records")
			return
		default:
			log.WithError(err).Warn("failed to restore snapshot, loading from the directory")
		}
	}

	if _, err := a.manager.LoadAll(ctx); err != nil {
		log.WithError(err).Warn("initial account load failed")
	}
}

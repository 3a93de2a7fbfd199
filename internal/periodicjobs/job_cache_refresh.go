/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package periodicjobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/accountsync/pkg/accounts"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

const (
	// CacheRefreshJobName is the unique identifier for the cache refresh periodic job.
	CacheRefreshJobName = "accountsync_cache_refresh"
)

// CacheRefresher is the part of accounts.Manager the refresh job drives.
type CacheRefresher interface {
	ReloadAll(ctx context.Context) (int, error)
	SaveSnapshotFile(ctx context.Context, path string) error
}

var _ CacheRefresher = (*accounts.Manager)(nil)

// CacheRefreshJob re-reads the whole account list from the directory so that
// accounts created or removed out of band show up in the cache.
//
// The cache is treated as complete once loaded, so without this job changes
// made directly in the directory stay invisible until an explicit reload.
type CacheRefreshJob struct {
	manager CacheRefresher

	interval time.Duration

	// snapshotPath receives a fresh snapshot after every successful reload.
	// Empty disables it.
	snapshotPath string

	logger *logrus.Entry
}

// NewCacheRefreshJob creates a job that reloads through manager every interval.
//
// Parameters:
//   - manager: the account manager owning the cache
//   - interval: time between reloads, zero or less disables the job
//   - snapshotPath: file refreshed after each successful reload, may be empty
func NewCacheRefreshJob(manager CacheRefresher, interval time.Duration, snapshotPath string) *CacheRefreshJob {
	return &CacheRefreshJob{
		manager:      manager,
		interval:     interval,
		snapshotPath: snapshotPath,
	}
}

// AddToPeriodicTaskManager registers this job with mgr.
func (j *CacheRefreshJob) AddToPeriodicTaskManager(mgr *PeriodicTaskManager) {
	mgr.AddTask(j)
}

func (j *CacheRefreshJob) GetInterval() time.Duration {
	return j.interval
}

func (j *CacheRefreshJob) GetName() string {
	return CacheRefreshJobName
}

// Run reloads the cache and then saves the snapshot.
//
// A failed reload leaves whatever pages were read in the cache and skips the
// snapshot, so the file on disk keeps the last complete account list.
func (j *CacheRefreshJob) Run(ctx context.Context) error {
	ctx = logger.WithRequestId(ctx, uuid.New().String())
	j.logger = logger.Logger(ctx).WithFields(logrus.Fields{
		"job": CacheRefreshJobName,
	})
	j.logger.Info("starting cache refresh job")

	count, err := j.manager.ReloadAll(ctx)
	if err != nil {
		j.logger.WithError(err).WithFields(logrus.Fields{
			"count":   count,
			"partial": accounts.IsPartial(err),
		}).Error("cache refresh failed")
		return err
	}

	if j.snapshotPath != "" {
		if err := j.manager.SaveSnapshotFile(ctx, j.snapshotPath); err != nil {
			j.logger.WithError(err).WithField("path", j.snapshotPath).Error("failed to save snapshot after refresh")
			return err
		}
	}

	j.logger.WithField("count", count).Info("cache refresh job completed")
	return nil
}

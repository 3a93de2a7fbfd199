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

// Package periodicjobs runs background jobs on a fixed interval for the
// lifetime of the server.
package periodicjobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

// PeriodicTask is a job the PeriodicTaskManager runs every GetInterval.
type PeriodicTask interface {
	GetName() string
	GetInterval() time.Duration
	Run(ctx context.Context) error
}

// PeriodicTaskManager schedules registered tasks, each on its own ticker.
// A failing run is logged and the task keeps its schedule.
type PeriodicTaskManager struct {
	mu    sync.Mutex
	tasks []PeriodicTask
}

func NewPeriodicTaskManager() *PeriodicTaskManager {
	return &PeriodicTaskManager{}
}

// AddTask registers task. Tasks added after Start are not scheduled.
func (m *PeriodicTaskManager) AddTask(task PeriodicTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Tasks returns the registered tasks.
func (m *PeriodicTaskManager) Tasks() []PeriodicTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PeriodicTask(nil), m.tasks...)
}

// Start runs every task with a positive interval until ctx is cancelled.
func (m *PeriodicTaskManager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, task := range m.Tasks() {
		task := task
		log := logger.Logger(ctx).WithFields(logrus.Fields{
			"job":      task.GetName(),
			"interval": task.GetInterval().String(),
		})
		if task.GetInterval() <= 0 {
			log.Info("periodic job disabled")
			continue
		}

		g.Go(func() error {
			log.Info("periodic job scheduled")
			runEvery(ctx, task, log)
			return nil
		})
	}

	return g.Wait()
}

func runEvery(ctx context.Context, task PeriodicTask, log *logrus.Entry) {
	ticker := time.NewTicker(task.GetInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("periodic job stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := task.Run(ctx); err != nil {
				log.WithError(err).Error("periodic job failed")
				continue
			}
			log.WithField("duration", time.Since(start).String()).Debug("periodic job finished")
		}
	}
}

// Package accounts keeps a cache of directory accounts consistent with the
// remote directory service.
//
// The cache is loaded lazily and in bulk: once it holds at least one account
// it is treated as complete and lookups are served from it without contacting
// the directory. Mutations are applied to the directory first and reflected in
// the cache only once the remote call succeeded.
package accounts

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/redhat-data-and-ai/accountsync/pkg/clients"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
	"github.com/redhat-data-and-ai/accountsync/pkg/store"
)

const (
	loadAllKey   = "load"
	reloadAllKey = "reload"
)

// Options configure a Manager.
type Options struct {
	// Domain scopes the bulk listing and completes uids into mail addresses.
	Domain string
	// StaffOrgUnit is the org unit path that marks an account as staff.
	StaffOrgUnit string
}

// Manager owns the account cache and routes every authoritative action
// through the directory client.
//
// Concurrent mutations on the same account have no defined order: an Add and
// a Delete racing on one uid may leave either outcome in the cache.
type Manager struct {
	client       clients.Client
	store        store.AccountStoreInterface
	domain       string
	staffOrgUnit string

	// mu guards every check-then-act sequence on the store.
	// It is never held across a call to the directory client.
	mu    sync.Mutex
	loads singleflight.Group
}

// NewManager creates a Manager with an empty view of the cache.
func NewManager(client clients.Client, accountStore store.AccountStoreInterface, opts Options) *Manager {
	if opts.StaffOrgUnit == "" {
		opts.StaffOrgUnit = clients.DefaultStaffOrgUnit
	}
	return &Manager{
		client:       client,
		store:        accountStore,
		domain:       opts.Domain,
		staffOrgUnit: opts.StaffOrgUnit,
	}
}

// Domain returns the directory domain the manager is scoped to.
func (m *Manager) Domain() string {
	return m.domain
}

// LoadAll fills the cache from the directory unless it already holds at
// least one account, in which case it returns immediately without a remote
// call. It returns the number of accounts added.
//
// A failure while draining the pages stops the load; accounts inserted from
// the pages read so far stay cached and are counted in the returned number.
// Concurrent callers share a single enumeration.
func (m *Manager) LoadAll(ctx context.Context) (int, error) {
	v, err, _ := m.loads.Do(loadAllKey, func() (interface{}, error) {
		m.mu.Lock()
		empty, err := m.store.Empty(ctx)
		m.mu.Unlock()
		if err != nil {
			return 0, newError(OpLoadAll, KindCache, err)
		}
		if !empty {
			logger.Logger(ctx).Debug("account cache already loaded")
			return 0, nil
		}
		return m.fetchAll(ctx)
	})
	added, _ := v.(int)
	return added, err
}

// ReloadAll clears the cache and loads it again from the directory.
func (m *Manager) ReloadAll(ctx context.Context) (int, error) {
	v, err, _ := m.loads.Do(reloadAllKey, func() (interface{}, error) {
		if err := m.ClearAll(ctx); err != nil {
			return 0, err
		}
		return m.fetchAll(ctx)
	})
	added, _ := v.(int)
	return added, err
}

// fetchAll drains every page of the directory listing into the cache.
func (m *Manager) fetchAll(ctx context.Context) (int, error) {
	log := logger.Logger(ctx).WithField("domain", m.domain)
	log.Info("loading account list")

	added := 0
	pageToken := ""
	for {
		page, err := m.client.ListAccounts(ctx, m.domain, pageToken)
		if err != nil {
			log.WithError(err).WithField("added", added).Error("failed to load account list")
			return added, &Error{Op: OpLoadAll, Kind: KindRemote, Partial: added > 0, Err: err}
		}
		if page == nil {
			break
		}

		n, err := m.insertPage(ctx, log, page.Users)
		added += n
		if err != nil {
			log.WithError(err).WithField("added", added).Error("failed to cache account list")
			return added, &Error{Op: OpLoadAll, Kind: KindCache, Partial: added > 0, Err: err}
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	log.WithField("count", added).Info("added accounts")
	return added, nil
}

func (m *Manager) insertPage(ctx context.Context, log *logrus.Entry, users []*structs.DirectoryUser) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := 0
	for _, user := range users {
		if user == nil {
			continue
		}
		account := clients.ToAccount(user, m.staffOrgUnit)
		if err := account.Validate(); err != nil {
			log.WithError(err).WithField("email", user.PrimaryEmail).Warn("skipping directory user")
			continue
		}
		if err := m.store.Set(ctx, account); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// ClearAll empties the cache. The next LoadAll contacts the directory again.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return newError(OpClear, KindCache, err)
	}
	return nil
}

// Load returns the account for mail.
//
// When the cache holds accounts it is the only source: a miss returns
// ErrAccountNotFound even if the account exists remotely. When the cache is
// empty the account is fetched live from the directory and is not cached.
func (m *Manager) Load(ctx context.Context, mail string) (*structs.Account, error) {
	log := logger.Logger(ctx).WithField("email", mail)

	m.mu.Lock()
	empty, err := m.store.Empty(ctx)
	var account *structs.Account
	if err == nil && !empty {
		account, err = m.store.Get(ctx, mail)
	}
	m.mu.Unlock()

	if err != nil {
		return nil, newError(OpLoad, KindCache, err)
	}
	if !empty {
		if account == nil {
			log.Debug("account not found in cache")
			return nil, newError(OpLoad, KindNotFound, ErrAccountNotFound)
		}
		return account, nil
	}

	user, err := m.client.GetAccount(ctx, mail)
	if err != nil {
		log.WithError(err).Error("failed to load account")
		return nil, newError(OpLoad, KindRemote, err)
	}
	return clients.ToAccount(user, m.staffOrgUnit), nil
}

// All returns the cached accounts ordered by uid.
func (m *Manager) All(ctx context.Context) ([]*structs.Account, error) {
	m.mu.Lock()
	cached, err := m.store.List(ctx)
	m.mu.Unlock()
	if err != nil {
		return nil, newError(OpLoad, KindCache, err)
	}
	return sortedAccounts(cached), nil
}

// Count returns the number of cached accounts.
func (m *Manager) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count, err := m.store.Count(ctx)
	if err != nil {
		return 0, newError(OpLoad, KindCache, err)
	}
	return count, nil
}

func sortedAccounts(cached map[string]*structs.Account) []*structs.Account {
	keys := make([]string, 0, len(cached))
	for key := range cached {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]*structs.Account, 0, len(keys))
	for _, key := range keys {
		result = append(result, cached[key])
	}
	return result
}

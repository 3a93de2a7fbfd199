package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

var errNullSnapshot = errors.New("snapshot document is null")

// Snapshot is the serialized form of the account cache.
type Snapshot struct {
	Accounts []*structs.Account `json:"accounts"`
}

// snapshotDocument defers decoding of each record so one bad record does
// not reject the whole document.
type snapshotDocument struct {
	Accounts []json.RawMessage `json:"accounts"`
}

// ToSnapshot captures every cached account, ordered by uid.
func (m *Manager) ToSnapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	cached, err := m.store.List(ctx)
	m.mu.Unlock()
	if err != nil {
		return nil, newError(OpSaveSnapshot, KindCache, err)
	}
	return &Snapshot{Accounts: sortedAccounts(cached)}, nil
}

// WriteSnapshot encodes the current snapshot to w.
func (m *Manager) WriteSnapshot(ctx context.Context, w io.Writer) error {
	snapshot, err := m.ToSnapshot(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return newError(OpSaveSnapshot, KindInvalid, err)
	}
	return nil
}

// FromSnapshot replaces the whole cache with the accounts decoded from r and
// returns how many distinct accounts were restored.
//
// A document that is not a JSON object leaves the cache untouched. Records
// that fail to decode or validate are skipped; the remaining records are
// restored and the skipped ones are reported in a partial error.
func (m *Manager) FromSnapshot(ctx context.Context, r io.Reader) (int, error) {
	log := logger.Logger(ctx)

	var doc *snapshotDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		log.WithError(err).Error("failed to decode snapshot")
		return 0, newError(OpRestoreSnapshot, KindInvalid, err)
	}
	if doc == nil {
		log.Error("snapshot document is null")
		return 0, newError(OpRestoreSnapshot, KindInvalid, errNullSnapshot)
	}

	restored := make(map[string]*structs.Account, len(doc.Accounts))
	order := make([]string, 0, len(doc.Accounts))
	var skipped []error
	for i, raw := range doc.Accounts {
		account := &structs.Account{}
		if err := json.Unmarshal(raw, account); err != nil {
			skipped = append(skipped, fmt.Errorf("account %d: %w", i, err))
			continue
		}
		if err := account.Validate(); err != nil {
			skipped = append(skipped, fmt.Errorf("account %d: %w", i, err))
			continue
		}
		key := account.Key()
		if _, ok := restored[key]; !ok {
			order = append(order, key)
		}
		restored[key] = account
	}

	m.mu.Lock()
	err := m.replace(ctx, order, restored)
	m.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("failed to restore snapshot")
		return 0, newError(OpRestoreSnapshot, KindCache, err)
	}

	if len(skipped) > 0 {
		log.WithField("skipped", len(skipped)).Warn("skipped invalid snapshot records")
		return len(restored), &Error{
			Op:      OpRestoreSnapshot,
			Kind:    KindInvalid,
			Partial: true,
			Err:     errors.Join(skipped...),
		}
	}

	log.WithField("count", len(restored)).Info("restored accounts from snapshot")
	return len(restored), nil
}

func (m *Manager) replace(ctx context.Context, order []string, accounts map[string]*structs.Account) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	for _, key := range order {
		if err := m.store.Set(ctx, accounts[key]); err != nil {
			return err
		}
	}
	return nil
}

// SaveSnapshotFile writes the snapshot to path, replacing any previous file
// only once the new one is fully written.
func (m *Manager) SaveSnapshotFile(ctx context.Context, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return newError(OpSaveSnapshot, KindCache, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := m.WriteSnapshot(ctx, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return newError(OpSaveSnapshot, KindCache, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return newError(OpSaveSnapshot, KindCache, err)
	}

	logger.Logger(ctx).WithField("path", path).Info("saved account snapshot")
	return nil
}

// RestoreSnapshotFile restores the cache from the snapshot file at path.
func (m *Manager) RestoreSnapshotFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, newError(OpRestoreSnapshot, KindInvalid, err)
	}
	defer func() { _ = f.Close() }()

	return m.FromSnapshot(ctx, f)
}

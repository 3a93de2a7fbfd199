package store

import (
	"github.com/redhat-data-and-ai/accountsync/pkg/cache"
)

// Store provides a high-level interface for managing accounts in cache
// It encapsulates key prefixing and JSON serialization
// NOTE: This store does NOT handle locking - callers are responsible for proper synchronization
type Store struct {
	Account AccountStoreInterface
}

// New creates a new Store instance with all sub-stores initialized
func New(cache cache.Cache) *Store {
	return &Store{
		Account: newAccountStore(cache),
	}
}

// GetAccountStore returns the account store operations
func (s *Store) GetAccountStore() AccountStoreInterface {
	return s.Account
}

// Compile-time interface compliance checks
var (
	_ AccountStoreInterface = (*AccountStore)(nil)
	_ StoreInterface        = (*Store)(nil)
)

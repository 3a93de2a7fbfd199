package store

import (
	"context"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

// AccountStoreInterface defines the account cache operations
// Key format: "account:<lower-cased uid>"
// Value: JSON encoded structs.Account
type AccountStoreInterface interface {
	// Get returns the account stored for uid (or for the local part of a mail address)
	// Returns nil if the account is not found in cache
	Get(ctx context.Context, uid string) (*structs.Account, error)

	// Set stores the account under its lower-cased uid, replacing any previous value
	Set(ctx context.Context, account *structs.Account) error

	// Delete removes an account from cache, it is not an error if it is absent
	Delete(ctx context.Context, uid string) error

	// Exists checks if an account exists in cache
	Exists(ctx context.Context, uid string) (bool, error)

	// List returns every cached account keyed by lower-cased uid
	List(ctx context.Context) (map[string]*structs.Account, error)

	// Count returns the number of cached accounts
	Count(ctx context.Context) (int, error)

	// Empty reports whether no account is cached, without reading any value
	Empty(ctx context.Context) (bool, error)

	// Clear removes every cached account
	Clear(ctx context.Context) error
}

// StoreInterface is the main interface that combines all store operations
// This is the primary interface that should be used by consumers
type StoreInterface interface {
	// GetAccountStore returns the account store operations
	GetAccountStore() AccountStoreInterface
}

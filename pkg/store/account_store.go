package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redhat-data-and-ai/accountsync/pkg/cache"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

const accountKeyPrefix = "account:"

// AccountStore keeps accounts in a cache.Cache under prefixed keys.
type AccountStore struct {
	cache cache.Cache
}

func newAccountStore(c cache.Cache) *AccountStore {
	return &AccountStore{cache: c}
}

func accountKey(uid string) string {
	return accountKeyPrefix + structs.AccountKey(uid)
}

func (s *AccountStore) Get(ctx context.Context, uid string) (*structs.Account, error) {
	val, err := s.cache.Get(ctx, accountKey(uid))
	if err != nil {
		if cache.IsKeyNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account %s from cache: %w", uid, err)
	}
	return decodeAccount(val)
}

func (s *AccountStore) Set(ctx context.Context, account *structs.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account %s: %w", account.UID, err)
	}
	// accounts never expire, the cache is cleared explicitly
	return s.cache.Set(ctx, accountKey(account.UID), string(data), cache.NoExpiration)
}

func (s *AccountStore) Delete(ctx context.Context, uid string) error {
	return s.cache.Delete(ctx, accountKey(uid))
}

func (s *AccountStore) Exists(ctx context.Context, uid string) (bool, error) {
	account, err := s.Get(ctx, uid)
	if err != nil {
		return false, err
	}
	return account != nil, nil
}

func (s *AccountStore) List(ctx context.Context) (map[string]*structs.Account, error) {
	values, err := s.cache.GetByPattern(ctx, accountKeyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts from cache: %w", err)
	}

	accounts := make(map[string]*structs.Account, len(values))
	for key, val := range values {
		account, err := decodeAccount(val)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cached %s: %w", key, err)
		}
		accounts[strings.TrimPrefix(key, accountKeyPrefix)] = account
	}
	return accounts, nil
}

func (s *AccountStore) Count(ctx context.Context) (int, error) {
	values, err := s.cache.GetByPattern(ctx, accountKeyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts in cache: %w", err)
	}
	return len(values), nil
}

func (s *AccountStore) Empty(ctx context.Context) (bool, error) {
	found, err := s.cache.ExistsByPattern(ctx, accountKeyPrefix+"*")
	if err != nil {
		return false, fmt.Errorf("failed to check accounts in cache: %w", err)
	}
	return !found, nil
}

func (s *AccountStore) Clear(ctx context.Context) error {
	if _, err := s.cache.DeleteByPattern(ctx, accountKeyPrefix+"*"); err != nil {
		return fmt.Errorf("failed to clear accounts from cache: %w", err)
	}
	return nil
}

func decodeAccount(val interface{}) (*structs.Account, error) {
	var data []byte
	switch v := val.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("unexpected cached value type %T", val)
	}

	account := &structs.Account{}
	if err := json.Unmarshal(data, account); err != nil {
		return nil, err
	}
	return account, nil
}

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

package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/redhat-data-and-ai/accountsync/pkg/clients/google"
	"github.com/redhat-data-and-ai/accountsync/pkg/clients/ldap"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

//go:generate mockgen -source=clients.go -destination=mocks/mock_client.go -package=mocks

const (
	DriverGoogle = "google"
	DriverLDAP   = "ldap"
)

// Client is the set of remote directory operations the account manager relies on.
// Every method may fail with a transport, authorization or not-found error.
type Client interface {
	ListAccounts(ctx context.Context, domain, pageToken string) (*structs.DirectoryUserPage, error)
	GetAccount(ctx context.Context, mail string) (*structs.DirectoryUser, error)
	InsertAccount(ctx context.Context, user *structs.DirectoryUser) error
	InsertAlias(ctx context.Context, primaryMail, alias string) error
	UpdateAccount(ctx context.Context, mail string, user *structs.DirectoryUser) error
	DeleteAccount(ctx context.Context, mail string) error
}

// Config selects the directory driver.
type Config struct {
	Driver string
	Google *google.Config
	LDAP   *ldap.LDAP
}

// New returns the directory client configured by cfg.Driver.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case DriverGoogle:
		if cfg.Google == nil {
			return nil, errors.New("google directory config is missing")
		}
		client, err := google.NewClient(ctx, *cfg.Google)
		if err != nil {
			return nil, err
		}
		return client, nil
	case DriverLDAP:
		if cfg.LDAP == nil {
			return nil, errors.New("ldap directory config is missing")
		}
		client, err := ldap.InitLdap(*cfg.LDAP)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported directory driver: %q", cfg.Driver)
	}
}

var (
	_ Client = (*google.GoogleClient)(nil)
	_ Client = (*ldap.LDAPConn)(nil)
)

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

package google

import (
	"context"
	"errors"
	"fmt"
	"os"

	googleoauth "golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

const defaultPageSize = 500

// only request scopes the service account has been granted domain wide
var scopes = []string{
	admin.AdminDirectoryDomainScope,
	admin.AdminDirectoryGroupScope,
	admin.AdminDirectoryOrgunitScope,
	admin.AdminDirectoryUserScope,
}

// Config holds the Google Workspace connection settings.
type Config struct {
	AppName string `mapstructure:"appName"`
	// AdminUser is the workspace administrator impersonated by the service account.
	AdminUser string `mapstructure:"adminUser"`
	// CredentialsFile points to the service account key (client_secret.json).
	CredentialsFile string `mapstructure:"credentialsFile"`
	// Endpoint overrides the Admin SDK base URL, used against fakes.
	Endpoint string `mapstructure:"endpoint"`
	PageSize int64  `mapstructure:"pageSize"`
}

// GoogleClient talks to the Admin SDK Directory API.
type GoogleClient struct {
	service  *admin.Service
	pageSize int64
}

// NewClient authenticates with the service account key and impersonates the
// configured admin user.
func NewClient(ctx context.Context, cfg Config) (*GoogleClient, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsFile != "":
		key, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials: %w", err)
		}
		jwtConfig, err := googleoauth.JWTConfigFromJSON(key, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse google credentials: %w", err)
		}
		jwtConfig.Subject = cfg.AdminUser
		opts = append(opts, option.WithHTTPClient(jwtConfig.Client(ctx)))
	case cfg.Endpoint != "":
		opts = append(opts, option.WithoutAuthentication())
	default:
		return nil, errors.New("google credentials file is required")
	}

	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.AppName != "" {
		opts = append(opts, option.WithUserAgent(cfg.AppName))
	}

	service, err := admin.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory service: %w", err)
	}
	return newClient(service, cfg), nil
}

func newClient(service *admin.Service, cfg Config) *GoogleClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	return &GoogleClient{
		service:  service,
		pageSize: pageSize,
	}
}

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
	"fmt"

	"github.com/sirupsen/logrus"
	admin "google.golang.org/api/admin/directory/v1"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

// ListAccounts fetches one page of the domain's users. An empty pageToken
// requests the first page.
func (g *GoogleClient) ListAccounts(ctx context.Context, domain, pageToken string) (*structs.DirectoryUserPage, error) {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service":   "google",
		"domain":    domain,
		"pageToken": pageToken,
	})
	log.Debug("listing users")

	call := g.service.Users.List().Domain(domain).MaxResults(g.pageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		log.WithError(err).Error("failed to list users")
		return nil, fmt.Errorf("failed to list users of %s: %w", domain, err)
	}

	page := &structs.DirectoryUserPage{
		Users:         make([]*structs.DirectoryUser, 0, len(resp.Users)),
		NextPageToken: resp.NextPageToken,
	}
	for _, u := range resp.Users {
		page.Users = append(page.Users, fromAdminUser(u))
	}

	log.WithField("count", len(page.Users)).Debug("listed users")
	return page, nil
}

func (g *GoogleClient) GetAccount(ctx context.Context, mail string) (*structs.DirectoryUser, error) {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "google",
		"email":   mail,
	})
	log.Debug("fetching user")

	u, err := g.service.Users.Get(mail).Context(ctx).Do()
	if err != nil {
		log.WithError(err).Error("failed to fetch user")
		return nil, fmt.Errorf("failed to fetch user %s: %w", mail, err)
	}
	return fromAdminUser(u), nil
}

func (g *GoogleClient) InsertAccount(ctx context.Context, user *structs.DirectoryUser) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "google",
		"email":   user.PrimaryEmail,
	})
	log.Info("creating user")

	if _, err := g.service.Users.Insert(toAdminUser(user)).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("failed to create user")
		return fmt.Errorf("failed to create user %s: %w", user.PrimaryEmail, err)
	}
	return nil
}

// InsertAlias adds a secondary address, the primary account must already exist.
func (g *GoogleClient) InsertAlias(ctx context.Context, primaryMail, alias string) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "google",
		"email":   primaryMail,
		"alias":   alias,
	})
	log.Info("adding alias")

	if _, err := g.service.Users.Aliases.Insert(primaryMail, &admin.Alias{Alias: alias}).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("failed to add alias")
		return fmt.Errorf("failed to add alias %s to %s: %w", alias, primaryMail, err)
	}
	return nil
}

// UpdateAccount sends only the fields set on user.
func (g *GoogleClient) UpdateAccount(ctx context.Context, mail string, user *structs.DirectoryUser) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "google",
		"email":   mail,
	})
	log.Info("updating user")

	if _, err := g.service.Users.Update(mail, toAdminUser(user)).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("failed to update user")
		return fmt.Errorf("failed to update user %s: %w", mail, err)
	}
	return nil
}

func (g *GoogleClient) DeleteAccount(ctx context.Context, mail string) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "google",
		"email":   mail,
	})
	log.Info("deleting user")

	if err := g.service.Users.Delete(mail).Context(ctx).Do(); err != nil {
		log.WithError(err).Error("failed to delete user")
		return fmt.Errorf("failed to delete user %s: %w", mail, err)
	}
	log.Info("user deleted successfully")
	return nil
}

func fromAdminUser(u *admin.User) *structs.DirectoryUser {
	user := &structs.DirectoryUser{
		PrimaryEmail: u.PrimaryEmail,
		Aliases:      u.Aliases,
		OrgUnitPath:  u.OrgUnitPath,
	}
	if u.Name != nil {
		user.Name = &structs.DirectoryUserName{
			GivenName:  u.Name.GivenName,
			FamilyName: u.Name.FamilyName,
			FullName:   u.Name.FullName,
		}
	}
	return user
}

func toAdminUser(user *structs.DirectoryUser) *admin.User {
	u := &admin.User{
		PrimaryEmail:              user.PrimaryEmail,
		OrgUnitPath:               user.OrgUnitPath,
		Password:                  user.Password,
		ChangePasswordAtNextLogin: user.ChangePasswordAtNextLogin,
	}
	if user.Name != nil {
		u.Name = &admin.UserName{
			GivenName:  user.Name.GivenName,
			FamilyName: user.Name.FamilyName,
			FullName:   user.Name.FullName,
		}
	}
	return u
}

package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/accountsync/pkg/clients"
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

var (
	errEmptyMail     = errors.New("mail address is required")
	errEmptyPassword = errors.New("password is required")
)

// Add creates the account in the directory, then its mail alias if one is
// set, and caches it when the cache is already populated.
//
// When the alias insert fails the primary account stays created remotely.
// The returned error then has Partial set and the cache is left untouched.
func (m *Manager) Add(ctx context.Context, account *structs.Account, password string) error {
	if err := account.Validate(); err != nil {
		return newError(OpAdd, KindInvalid, err)
	}
	if password == "" {
		return newError(OpAdd, KindInvalid, errEmptyPassword)
	}

	mail := account.MailAddress(m.domain)
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"email":    mail,
		"is_staff": account.IsStaff,
	})

	user := clients.ToDirectoryUser(account, password, m.staffOrgUnit, m.domain)
	if err := m.client.InsertAccount(ctx, user); err != nil {
		log.WithError(err).Error("failed to add account")
		return newError(OpAdd, KindRemote, err)
	}

	if account.MailAlias != "" {
		if err := m.client.InsertAlias(ctx, mail, account.MailAlias); err != nil {
			log.WithError(err).WithField("alias", account.MailAlias).Error("failed to add alias, account was created without it")
			return &Error{Op: OpAddAlias, Kind: KindRemote, Partial: true, Err: err}
		}
	}

	cached := *account
	cached.Mail = mail

	m.mu.Lock()
	defer m.mu.Unlock()

	empty, err := m.store.Empty(ctx)
	if err != nil {
		return newError(OpAdd, KindCache, err)
	}
	if empty {
		// an empty cache is not loaded yet, inserting would mark it complete
		log.Info("added account")
		return nil
	}
	if err := m.store.Set(ctx, &cached); err != nil {
		return newError(OpAdd, KindCache, err)
	}

	log.Info("added account")
	return nil
}

// Delete removes the account from the directory and then from the cache.
func (m *Manager) Delete(ctx context.Context, mail string) error {
	mail = strings.TrimSpace(mail)
	if mail == "" {
		return newError(OpDelete, KindInvalid, errEmptyMail)
	}
	log := logger.Logger(ctx).WithField("email", mail)

	if err := m.client.DeleteAccount(ctx, mail); err != nil {
		log.WithError(err).Error("failed to delete account")
		return newError(OpDelete, KindRemote, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, mail); err != nil {
		return newError(OpDelete, KindCache, err)
	}

	log.Info("deleted account")
	return nil
}

// ChangePassword sets a new password on the account in the directory.
// The cache holds no credentials and is not touched.
func (m *Manager) ChangePassword(ctx context.Context, account *structs.Account, password string) error {
	if err := account.Validate(); err != nil {
		return newError(OpChangePassword, KindInvalid, err)
	}
	if password == "" {
		return newError(OpChangePassword, KindInvalid, errEmptyPassword)
	}

	mail := account.MailAddress(m.domain)
	log := logger.Logger(ctx).WithField("email", mail)

	if err := m.client.UpdateAccount(ctx, mail, &structs.DirectoryUser{Password: password}); err != nil {
		log.WithError(err).Error("failed to change password")
		return newError(OpChangePassword, KindRemote, err)
	}

	log.Info("changed password")
	return nil
}

package structs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAccount = errors.New("invalid account")
)

// Account is the cached representation of one directory user.
type Account struct {
	UID        string `json:"uid" yaml:"uid"`
	GivenName  string `json:"givenName,omitempty" yaml:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty" yaml:"familyName,omitempty"`
	FullName   string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	// MailAlias is empty when the account has no secondary address.
	MailAlias string `json:"mailAlias" yaml:"mailAlias"`
	IsStaff   bool   `json:"isStaff" yaml:"isStaff"`
	Mail      string `json:"mail,omitempty" yaml:"mail,omitempty"`
}

func (a *Account) GetUID() string {
	return a.UID
}

func (a *Account) GetMailAlias() string {
	return a.MailAlias
}

// Key returns the cache key of the account: the lower-cased uid.
func (a *Account) Key() string {
	return strings.ToLower(a.UID)
}

// MailAddress returns the primary address of the account. When the account
// does not carry one it is built from the uid and the given domain.
func (a *Account) MailAddress(domain string) string {
	if a.Mail != "" {
		return a.Mail
	}
	if domain == "" {
		return a.UID
	}
	return a.UID + "@" + domain
}

// Validate checks the uid invariant: never empty, never containing '@'.
func (a *Account) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: account is nil", ErrInvalidAccount)
	}
	if strings.TrimSpace(a.UID) == "" {
		return fmt.Errorf("%w: uid is empty", ErrInvalidAccount)
	}
	if strings.Contains(a.UID, "@") {
		return fmt.Errorf("%w: uid %q contains '@'", ErrInvalidAccount, a.UID)
	}
	if a.Mail != "" && !strings.EqualFold(LocalPart(a.Mail), a.UID) {
		return fmt.Errorf("%w: mail %q does not belong to uid %q", ErrInvalidAccount, a.Mail, a.UID)
	}
	return nil
}

// LocalPart returns the part of a mail address before '@'. An address
// without '@' is returned as is.
func LocalPart(mail string) string {
	if i := strings.Index(mail, "@"); i >= 0 {
		return mail[:i]
	}
	return mail
}

// AccountKey returns the cache key for a mail address or uid.
func AccountKey(mailOrUID string) string {
	return strings.ToLower(LocalPart(mailOrUID))
}

// FullAddress completes a bare uid into a mail address in domain.
// Addresses that already contain '@' are returned unchanged.
func FullAddress(mailOrUID, domain string) string {
	if strings.Contains(mailOrUID, "@") || domain == "" {
		return mailOrUID
	}
	return mailOrUID + "@" + domain
}

package clients

import (
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

// DefaultStaffOrgUnit is the organizational unit path that marks staff accounts.
const DefaultStaffOrgUnit = "/personeel"

// ToAccount maps a directory user onto an account record.
func ToAccount(user *structs.DirectoryUser, staffOrgUnit string) *structs.Account {
	account := &structs.Account{
		UID:  structs.LocalPart(user.PrimaryEmail),
		Mail: user.PrimaryEmail,
	}

	if user.Name != nil {
		account.GivenName = user.Name.GivenName
		account.FamilyName = user.Name.FamilyName
		account.FullName = user.Name.FullName
	}

	if len(user.Aliases) > 0 {
		account.MailAlias = user.Aliases[0]
	}

	account.IsStaff = user.OrgUnitPath != "" && user.OrgUnitPath == staffOrgUnit
	return account
}

// ToDirectoryUser builds the creation request for account.
func ToDirectoryUser(account *structs.Account, password, staffOrgUnit, domain string) *structs.DirectoryUser {
	user := &structs.DirectoryUser{
		PrimaryEmail: account.MailAddress(domain),
		Name: &structs.DirectoryUserName{
			GivenName:  account.GivenName,
			FamilyName: account.FamilyName,
			FullName:   account.FullName,
		},
		Password:                  password,
		ChangePasswordAtNextLogin: false,
	}
	if account.IsStaff {
		user.OrgUnitPath = staffOrgUnit
	}
	return user
}

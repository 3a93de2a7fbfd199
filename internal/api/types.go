package api

import (
	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	// Partial reports that the operation took effect in part, see accounts.IsPartial.
	Partial bool `json:"partial,omitempty"`
	// Count is the number of accounts processed before a bulk operation failed.
	Count *int `json:"count,omitempty"`
}

type AccountCreate struct {
	UID        string `json:"uid" binding:"required"`
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	FullName   string `json:"fullName"`
	MailAlias  string `json:"mailAlias"`
	IsStaff    bool   `json:"isStaff"`
	Password   string `json:"password" binding:"required"`
}

func (a *AccountCreate) toAccount() *structs.Account {
	return &structs.Account{
		UID:        a.UID,
		GivenName:  a.GivenName,
		FamilyName: a.FamilyName,
		FullName:   a.FullName,
		MailAlias:  a.MailAlias,
		IsStaff:    a.IsStaff,
	}
}

type PasswordChange struct {
	Password string `json:"password" binding:"required"`
}

type AccountList struct {
	Count    int                `json:"count"`
	Accounts []*structs.Account `json:"accounts"`
}

type CountResponse struct {
	Count int `json:"count"`
}

package ldap

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
	"github.com/redhat-data-and-ai/accountsync/pkg/logger"
)

var (
	ErrNoUserFound      = errors.New("no LDAP entries found for user")
	ErrInvalidPageToken = errors.New("invalid LDAP page token")
)

var personObjectClasses = []string{"top", "person", "organizationalPerson", "inetOrgPerson"}

func (l *LDAPConn) attributes() []string {
	return []string{"uid", "mail", "givenName", "sn", "cn", l.aliasAttribute}
}

// ListAccounts returns one page of the users whose mail belongs to domain,
// using the simple paged results control. The page token is the encoded
// paging cookie returned by the server.
func (l *LDAPConn) ListAccounts(ctx context.Context, domain, pageToken string) (*structs.DirectoryUserPage, error) {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"domain":  domain,
	})
	log.Debug("listing users")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paging := ldap.NewControlPaging(l.pageSize)
	if pageToken != "" {
		cookie, err := base64.StdEncoding.DecodeString(pageToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
		}
		paging.SetCookie(cookie)
	}

	filter := fmt.Sprintf("(&%s(mail=*@%s))", l.userSearchFilter, ldap.EscapeFilter(domain))
	searchRequest := ldap.NewSearchRequest(
		l.baseUserDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		l.attributes(),
		[]ldap.Control{paging},
	)

	conn, err := l.getConn()
	if err != nil {
		return nil, err
	}
	resp, err := conn.Search(searchRequest)
	if err != nil {
		log.WithError(err).Error("failed to search LDAP for users")
		return nil, fmt.Errorf("failed to list users of %s: %w", domain, err)
	}

	page := &structs.DirectoryUserPage{
		Users: make([]*structs.DirectoryUser, 0, len(resp.Entries)),
	}
	for _, entry := range resp.Entries {
		page.Users = append(page.Users, l.entryToUser(entry))
	}

	if ctrl, ok := ldap.FindControl(resp.Controls, ldap.ControlTypePaging).(*ldap.ControlPaging); ok && len(ctrl.Cookie) > 0 {
		page.NextPageToken = base64.StdEncoding.EncodeToString(ctrl.Cookie)
	}

	log.WithField("count", len(page.Users)).Debug("listed users")
	return page, nil
}

func (l *LDAPConn) GetAccount(ctx context.Context, mail string) (*structs.DirectoryUser, error) {
	entry, err := l.findEntry(ctx, mail)
	if err != nil {
		return nil, err
	}
	return l.entryToUser(entry), nil
}

// InsertAccount adds an inetOrgPerson entry. The entry is placed below the
// organizational units named by the user's org unit path.
func (l *LDAPConn) InsertAccount(ctx context.Context, user *structs.DirectoryUser) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"email":   user.PrimaryEmail,
	})
	log.Info("creating user")

	uid := structs.LocalPart(user.PrimaryEmail)
	if uid == "" {
		return fmt.Errorf("cannot create user without primary email")
	}

	var given, family, full string
	if user.Name != nil {
		given, family, full = user.Name.GivenName, user.Name.FamilyName, user.Name.FullName
	}
	if full == "" {
		full = strings.TrimSpace(given + " " + family)
	}
	if full == "" {
		full = uid
	}
	if family == "" {
		// sn is mandatory for person entries
		family = uid
	}

	dn := l.userDN(uid, user.OrgUnitPath)
	addRequest := ldap.NewAddRequest(dn, nil)
	addRequest.Attribute("objectClass", personObjectClasses)
	addRequest.Attribute("uid", []string{uid})
	addRequest.Attribute("mail", []string{user.PrimaryEmail})
	addRequest.Attribute("cn", []string{full})
	addRequest.Attribute("sn", []string{family})
	if given != "" {
		addRequest.Attribute("givenName", []string{given})
	}
	if user.Password != "" {
		addRequest.Attribute("userPassword", []string{user.Password})
	}

	conn, err := l.getConn()
	if err != nil {
		return err
	}
	if err := conn.Add(addRequest); err != nil {
		log.WithError(err).WithField("dn", dn).Error("failed to create user")
		return fmt.Errorf("failed to create user %s: %w", user.PrimaryEmail, err)
	}
	return nil
}

func (l *LDAPConn) InsertAlias(ctx context.Context, primaryMail, alias string) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"email":   primaryMail,
		"alias":   alias,
	})
	log.Info("adding alias")

	entry, err := l.findEntry(ctx, primaryMail)
	if err != nil {
		return err
	}

	modifyRequest := ldap.NewModifyRequest(entry.DN, nil)
	modifyRequest.Add(l.aliasAttribute, []string{alias})
	return l.modify(log, primaryMail, modifyRequest)
}

// UpdateAccount replaces the password and the name attributes set on user.
func (l *LDAPConn) UpdateAccount(ctx context.Context, mail string, user *structs.DirectoryUser) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"email":   mail,
	})
	log.Info("updating user")

	entry, err := l.findEntry(ctx, mail)
	if err != nil {
		return err
	}

	modifyRequest := ldap.NewModifyRequest(entry.DN, nil)
	if user.Password != "" {
		modifyRequest.Replace("userPassword", []string{user.Password})
	}
	if user.Name != nil {
		if user.Name.GivenName != "" {
			modifyRequest.Replace("givenName", []string{user.Name.GivenName})
		}
		if user.Name.FamilyName != "" {
			modifyRequest.Replace("sn", []string{user.Name.FamilyName})
		}
		if user.Name.FullName != "" {
			modifyRequest.Replace("cn", []string{user.Name.FullName})
		}
	}
	if len(modifyRequest.Changes) == 0 {
		return nil
	}
	return l.modify(log, mail, modifyRequest)
}

func (l *LDAPConn) DeleteAccount(ctx context.Context, mail string) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"email":   mail,
	})
	log.Info("deleting user")

	entry, err := l.findEntry(ctx, mail)
	if err != nil {
		return err
	}

	conn, err := l.getConn()
	if err != nil {
		return err
	}
	if err := conn.Del(ldap.NewDelRequest(entry.DN, nil)); err != nil {
		log.WithError(err).Error("failed to delete user")
		return fmt.Errorf("failed to delete user %s: %w", mail, err)
	}
	log.Info("user deleted successfully")
	return nil
}

func (l *LDAPConn) modify(log *logrus.Entry, mail string, modifyRequest *ldap.ModifyRequest) error {
	conn, err := l.getConn()
	if err != nil {
		return err
	}
	if err := conn.Modify(modifyRequest); err != nil {
		log.WithError(err).Error("failed to modify user")
		return fmt.Errorf("failed to modify user %s: %w", mail, err)
	}
	return nil
}

// findEntry looks the user up by its mail attribute below the base user DN.
func (l *LDAPConn) findEntry(ctx context.Context, mail string) (*ldap.Entry, error) {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"service": "ldap",
		"email":   mail,
	})
	log.Debug("fetching user LDAP entry by email")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filter := fmt.Sprintf("(&%s(mail=%s))", l.userSearchFilter, ldap.EscapeFilter(mail))
	searchRequest := ldap.NewSearchRequest(
		l.baseUserDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		l.attributes(),
		nil,
	)

	conn, err := l.getConn()
	if err != nil {
		return nil, err
	}
	resp, err := conn.Search(searchRequest)
	if err != nil {
		// Handle LDAP "No Such Object" error (code 32)
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			log.Warn("no LDAP entries found for email")
			return nil, ErrNoUserFound
		}
		log.WithError(err).Error("failed to search LDAP for user by email")
		return nil, err
	}
	if len(resp.Entries) == 0 {
		log.Warn("no LDAP entries found for email")
		return nil, ErrNoUserFound
	}
	return resp.Entries[0], nil
}

func (l *LDAPConn) entryToUser(entry *ldap.Entry) *structs.DirectoryUser {
	user := &structs.DirectoryUser{
		PrimaryEmail: entry.GetAttributeValue("mail"),
		Aliases:      entry.GetAttributeValues(l.aliasAttribute),
		OrgUnitPath:  l.orgUnitPath(entry.DN),
	}

	given, family, full := entry.GetAttributeValue("givenName"), entry.GetAttributeValue("sn"), entry.GetAttributeValue("cn")
	if given != "" || family != "" || full != "" {
		user.Name = &structs.DirectoryUserName{
			GivenName:  given,
			FamilyName: family,
			FullName:   full,
		}
	}
	return user
}

// orgUnitPath turns the "ou" components between the entry RDN and the base
// user DN into a path: uid=x,ou=b,ou=a,<base> becomes "/a/b".
func (l *LDAPConn) orgUnitPath(dn string) string {
	entryDN, err := ldap.ParseDN(dn)
	if err != nil || len(entryDN.RDNs) == 0 {
		return "/"
	}
	baseDN, err := ldap.ParseDN(l.baseUserDN)
	if err != nil {
		return "/"
	}

	end := len(entryDN.RDNs) - len(baseDN.RDNs)
	var units []string
	for i := end - 1; i >= 1; i-- {
		for _, attr := range entryDN.RDNs[i].Attributes {
			if strings.EqualFold(attr.Type, "ou") {
				units = append(units, attr.Value)
			}
		}
	}
	return "/" + strings.Join(units, "/")
}

// userDN is the inverse of orgUnitPath.
func (l *LDAPConn) userDN(uid, orgUnitPath string) string {
	var b strings.Builder
	b.WriteString("uid=")
	b.WriteString(ldap.EscapeDN(uid))

	units := strings.Split(strings.Trim(orgUnitPath, "/"), "/")
	for i := len(units) - 1; i >= 0; i-- {
		if units[i] == "" {
			continue
		}
		b.WriteString(",ou=")
		b.WriteString(ldap.EscapeDN(units[i]))
	}

	b.WriteString(",")
	b.WriteString(l.baseUserDN)
	return b.String()
}

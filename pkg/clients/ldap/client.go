package ldap

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_ldap.go -package=mocks

const (
	defaultUserSearchFilter = "(objectClass=inetOrgPerson)"
	defaultAliasAttribute   = "mailAlternateAddress"
	defaultPageSize         = 500
)

type LDAP struct {
	Server           string `yaml:"server" mapstructure:"server"`
	BaseUserDN       string `yaml:"baseUserDN" mapstructure:"baseUserDN"`
	UserSearchFilter string `yaml:"userSearchFilter" mapstructure:"userSearchFilter"`
	BindDN           string `yaml:"bindDN" mapstructure:"bindDN"`
	BindPassword     string `yaml:"bindPassword" mapstructure:"bindPassword"`
	AliasAttribute   string `yaml:"aliasAttribute" mapstructure:"aliasAttribute"`
	PageSize         uint32 `yaml:"pageSize" mapstructure:"pageSize"`
}

type LDAPConnClient interface {
	IsClosing() bool
	Search(*ldap.SearchRequest) (*ldap.SearchResult, error)
	Add(*ldap.AddRequest) error
	Modify(*ldap.ModifyRequest) error
	Del(*ldap.DelRequest) error
}

type LDAPConn struct {
	mu               sync.Mutex
	conn             LDAPConnClient
	server           string
	baseUserDN       string
	userSearchFilter string
	bindDN           string
	bindPassword     string
	aliasAttribute   string
	pageSize         uint32
}

// InitLdap initializes a connection to the LDAP server using the provided configuration.
func InitLdap(ldapConfig LDAP) (*LDAPConn, error) {
	l := newLDAPConn(nil, ldapConfig)

	conn, err := l.dial()
	if err != nil {
		return nil, err
	}
	l.conn = conn
	return l, nil
}

func newLDAPConn(conn LDAPConnClient, ldapConfig LDAP) *LDAPConn {
	l := &LDAPConn{
		conn:             conn,
		server:           ldapConfig.Server,
		baseUserDN:       ldapConfig.BaseUserDN,
		userSearchFilter: ldapConfig.UserSearchFilter,
		bindDN:           ldapConfig.BindDN,
		bindPassword:     ldapConfig.BindPassword,
		aliasAttribute:   ldapConfig.AliasAttribute,
		pageSize:         ldapConfig.PageSize,
	}
	if l.userSearchFilter == "" {
		l.userSearchFilter = defaultUserSearchFilter
	}
	if l.aliasAttribute == "" {
		l.aliasAttribute = defaultAliasAttribute
	}
	if l.pageSize == 0 {
		l.pageSize = defaultPageSize
	}
	return l
}

// dial opens and binds a new connection. Writes need the configured bind DN,
// without one the connection is bound anonymously.
func (l *LDAPConn) dial() (*ldap.Conn, error) {
	conn, err := ldap.DialURL(l.server, ldap.DialWithDialer(&net.Dialer{Timeout: 5 * time.Second}))
	if err != nil {
		return nil, err
	}

	if l.bindDN == "" {
		err = conn.UnauthenticatedBind("")
	} else {
		err = conn.Bind(l.bindDN, l.bindPassword)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to bind LDAP connection: %w", err)
	}
	return conn, nil
}

// getConn returns the underlying LDAP connection, re-dialing it when the
// previous one is closing.
func (l *LDAPConn) getConn() (LDAPConnClient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil, errors.New("LDAP connection is nil")
	}
	if l.conn.IsClosing() {
		newConn, err := l.dial()
		if err != nil {
			return nil, fmt.Errorf("failed to re-establish LDAP connection: %w", err)
		}
		l.conn = newConn
	}
	return l.conn, nil
}

// GetBaseUserDN returns the DN under which user entries live.
func (l *LDAPConn) GetBaseUserDN() string {
	return l.baseUserDN
}

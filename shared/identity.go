package shared

import (
	"fmt"
	"strings"
)

// Credential is a username and password pair. Domain is optional and, when
// set, qualifies the username.
type Credential struct {
	Username string `json:"username" yaml:"username"`
	Password string `json:"-" yaml:"-"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// IsZero reports whether no username was supplied.
func (c *Credential) IsZero() bool {
	return c == nil || c.Username == ""
}

// FullUser returns DOMAIN\username, or the bare username when no domain is set
// or the username is already qualified.
func (c *Credential) FullUser() string {
	if c.Username == "" || c.Domain == "" || strings.ContainsRune(c.Username, '\\') {
		return c.Username
	}
	return fmt.Sprintf("%s\\%s", c.Domain, c.Username)
}

type LocalGroupMember struct {
	Domain        string `json:"domain"`
	Name          string `json:"name"`
	DomainAndName string `json:"domainAndName"`
}

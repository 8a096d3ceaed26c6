// Package auth carries opaque credentials into the connect request. Token
// acquisition (browser OAuth, key signing) happens outside this client; it
// hands over a bearer token and username and nothing else.
package auth

import "os"

// Credentials fill the trailing fields of the connect-request payload. All
// empty means an anonymous connection.
type Credentials struct {
	Username       string // directory-services username
	SignedUsername []byte // proof blob produced by the external signer
	DomainUsername string
	AccessToken    string // opaque bearer token
}

// Anonymous returns empty credentials.
func Anonymous() Credentials { return Credentials{} }

// FromEnv reads credentials handed over by the external login component via
// environment variables. Missing variables stay empty, which the domain
// treats as anonymous.
func FromEnv() Credentials {
	return Credentials{
		Username:       os.Getenv("STARWORLD_USERNAME"),
		DomainUsername: os.Getenv("STARWORLD_DOMAIN_USERNAME"),
		AccessToken:    os.Getenv("STARWORLD_ACCESS_TOKEN"),
	}
}

// IsAnonymous reports whether no credential field is set.
func (c Credentials) IsAnonymous() bool {
	return c.Username == "" && len(c.SignedUsername) == 0 &&
		c.DomainUsername == "" && c.AccessToken == ""
}

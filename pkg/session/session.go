// Package session holds the client authentication state.
//
// A single Store owns the current Session. It exchanges Credentials with the Auth API,
// writes every change through to a Persistence and broadcasts it to Subscriptions.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2s"

	"code.anagramas.org/golang/internal/utils"
)

const (
	minUsernameSize = 3
	minPasswordSize = 6
)

// Session is the identity of the logged in user.
// Session values are never mutated, the Store replaces them wholesale.
type Session struct {
	Username string `json:"username" cbor:"1,keyasint"`
	Role     string `json:"role" cbor:"2,keyasint"`
	Token    string `json:"token" cbor:"3,keyasint"`
}

// Check returns an error if the Session can not be used to authenticate requests.
func (self Session) Check() error {
	if "" == self.Username {
		return newError("empty Username")
	}
	if "" == self.Token {
		return newError("empty Token")
	}
	return nil
}

// Claims returns the unverified claims of the Session Token.
// It errors with ErrMalformedToken if the Token is not a JWT.
//
// Claims are informative only, the signature is checked by the server.
func (self Session) Claims() (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(self.Token, claims)
	if nil != err {
		return nil, utils.WrapError(err, 0, ErrMalformedToken, "failed parsing token")
	}
	return claims, nil
}

// ExpiresAt returns the Token expiration time if the Token is a JWT that carries one.
func (self Session) ExpiresAt() (time.Time, bool) {
	claims, err := self.Claims()
	if nil != err || nil == claims.ExpiresAt {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Fingerprint returns a short digest of token that can safely appear in logs.
func Fingerprint(token string) utils.HexBinary {
	if "" == token {
		return nil
	}
	digest := blake2s.Sum256([]byte(token))
	return utils.HexBinary(digest[:8])
}

// Credentials are exchanged against a Session by Store Authenticate & Register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Check returns an error if the Credentials would be rejected by the Auth API.
func (self Credentials) Check() error {
	if len(strings.TrimSpace(self.Username)) < minUsernameSize {
		return newError("username must have at least %d characters", minUsernameSize)
	}
	if len(self.Password) < minPasswordSize {
		return newError("password must have at least %d characters", minPasswordSize)
	}
	return nil
}

// AuthResponse is the Auth API answer to a successful login or register.
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// Check returns an error if the AuthResponse does not carry a usable Session.
func (self AuthResponse) Check() error {
	return self.Session().Check()
}

// Session returns the Session contained in the AuthResponse.
func (self AuthResponse) Session() Session {
	return Session{Username: self.Username, Role: self.Role, Token: self.Token}
}

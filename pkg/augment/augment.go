// Package augment attaches the client Session credential to outbound requests.
package augment

import (
	"net/http"
	"time"
)

const (
	ContentType = "application/json"
	BearerType  = "Bearer"
)

// TokenSource exposes the current bearer token, session.Store implements it.
type TokenSource interface {
	Token() (string, bool)
}

// Augmenter adds the JSON Content-Type and the bearer Authorization headers to requests.
// A nil Tokens is handled as a TokenSource without token.
type Augmenter struct {
	Tokens TokenSource
}

// Augment returns a copy of r with the JSON Content-Type and, if a token is known, the
// Authorization header. Headers already set on r are never replaced.
func (self Augmenter) Augment(r *http.Request) *http.Request {
	rv := r.Clone(r.Context())
	if nil == rv.Header {
		rv.Header = make(http.Header)
	}
	if "" == rv.Header.Get("Content-Type") {
		rv.Header.Set("Content-Type", ContentType)
	}
	if "" != rv.Header.Get("Authorization") {
		return rv
	}
	if token, ok := self.token(); ok {
		rv.Header.Set("Authorization", BearerType+" "+token)
	}

	return rv
}

func (self Augmenter) token() (string, bool) {
	if nil == self.Tokens {
		return "", false
	}
	token, ok := self.Tokens.Token()
	return token, ok && "" != token
}

// Transport is an http.RoundTripper that augments requests before handing them to Base.
type Transport struct {
	Augmenter
	Base http.RoundTripper // http.DefaultTransport if nil
}

// RoundTrip implements http.RoundTripper.
func (self Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	base := self.Base
	if nil == base {
		base = http.DefaultTransport
	}
	return base.RoundTrip(self.Augment(r))
}

var _ http.RoundTripper = Transport{}

// NewClient returns an http.Client that augments every request with tokens.
func NewClient(tokens TokenSource, base http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: Transport{Augmenter: Augmenter{Tokens: tokens}, Base: base},
		Timeout:   timeout,
	}
}

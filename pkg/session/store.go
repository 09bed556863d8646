package session

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"code.anagramas.org/golang/internal/observability"
)

// StoreCfg holds Store configuration.
type StoreCfg struct {
	ApiUrl      string      // Auth API base URL, eg http://localhost:8080
	Client      httpClient  // http.DefaultClient if nil
	Persistence Persistence // keeps the Session across client restarts
}

// Check returns an error if the StoreCfg is invalid.
func (self StoreCfg) Check() error {
	if nil == self.Persistence {
		return newError("nil Persistence")
	}
	return wrapError(checkApiUrl(self.ApiUrl), "invalid StoreCfg")
}

// Store owns the authoritative client Session.
//
// Every mutation updates memory, writes through to the Persistence and queues a notification
// for each Subscription while holding the Store mutex. Notifications are delivered after the
// mutex is released, in the order the mutations happened, so that Observers may call the Store.
// The mutating goroutine delivers to every Subscription whose Observer is not running elsewhere,
// a running Observer receives the state from its own goroutine as soon as it returns.
//
// A nil *Store behaves as a Store with no Session: Subscribe replays the empty state,
// Logout does nothing and Authenticate & Register fail with ErrTransport.
type Store struct {
	apiUrl  string
	client  httpClient
	persist Persistence
	log     *slog.Logger

	mut     sync.Mutex
	current *Session
	bc      broadcast
}

// NewStore returns a Store initialized with the Session found in cfg.Persistence if any.
// It errors if cfg is invalid.
func NewStore(ctx context.Context, cfg StoreCfg) (*Store, error) {
	err := cfg.Check()
	if nil != err {
		return nil, wrapError(err, "failed Store construction")
	}

	rv := &Store{
		apiUrl:  strings.TrimSuffix(cfg.ApiUrl, "/"),
		client:  cfg.Client,
		persist: cfg.Persistence,
		log:     observability.GetObservability(ctx).Log().With("component", "session"),
	}
	if nil == rv.client {
		rv.client = http.DefaultClient
	}

	s, found := rv.persist.Load(ctx)
	if found {
		rv.log.Debug("restored session", "username", s.Username, "token", Fingerprint(s.Token))
		rv.current = &s
	}

	return rv, nil
}

// Authenticate exchanges creds against a Session using the Auth API login endpoint.
//
// On success the Session becomes current, is persisted and delivered to every Subscription.
// On failure the Store is left unchanged and an *AuthError is returned.
func (self *Store) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	return self.exchange(ctx, LoginPath, creds)
}

// Register creates a new account using the Auth API register endpoint.
// It has the same effects as Authenticate.
func (self *Store) Register(ctx context.Context, creds Credentials) (Session, error) {
	return self.exchange(ctx, RegisterPath, creds)
}

// Logout clears the current Session & its persisted record and notifies Subscriptions.
func (self *Store) Logout(ctx context.Context) {
	if nil == self {
		return
	}
	self.set(ctx, nil)
}

// Current returns the current Session, the bool flag is false if no user is logged in.
func (self *Store) Current() (Session, bool) {
	if nil == self {
		return Session{}, false
	}

	self.mut.Lock()
	defer self.mut.Unlock()

	if nil == self.current {
		return Session{}, false
	}
	return *self.current, true
}

// Token returns the current Session Token, the bool flag is false if no user is logged in.
func (self *Store) Token() (string, bool) {
	s, ok := self.Current()
	if !ok || "" == s.Token {
		return "", false
	}
	return s.Token, true
}

// IsAuthenticated returns true if a user is logged in.
func (self *Store) IsAuthenticated() bool {
	_, ok := self.Current()
	return ok
}

// Subscribe registers observer for future Store changes.
// observer receives the current state before Subscribe returns, and before any later change.
func (self *Store) Subscribe(observer Observer) *Subscription {
	sub := &Subscription{store: self, observer: observer, busy: true}
	if nil == self {
		sub.queue = []*Session{nil}
		sub.flush(slog.Default(), true)
		return sub
	}

	self.mut.Lock()
	self.bc.add(sub, self.current)
	self.mut.Unlock()

	sub.flush(self.log, true)

	return sub
}

func (self *Store) unsubscribe(sub *Subscription) {
	self.mut.Lock()
	defer self.mut.Unlock()

	self.bc.remove(sub)
}

// exchange runs the credential exchange protocol with the Auth API endpoint.
//
// Overlapping calls are not cancelled, the last one to resolve determines the Store state.
func (self *Store) exchange(ctx context.Context, endpoint string, creds Credentials) (Session, error) {
	log := observability.GetObservability(ctx).Log().With("endpoint", endpoint)
	if nil == self {
		return Session{}, &AuthError{Kind: ErrTransport, Message: "nil Store"}
	}

	err := creds.Check()
	if nil != err {
		log.Debug("invalid credentials, no request sent", "error", err)
		return Session{}, &AuthError{Kind: ErrValidation, Message: "invalid username or password data", Cause: err}
	}

	resp, err := exchangeCredentials(ctx, self.client, self.apiUrl+endpoint, creds)
	if nil != err {
		return Session{}, err
	}

	s := resp.Session()
	self.set(ctx, &s)
	log.Debug("OK, session updated", "username", s.Username, "token", Fingerprint(s.Token))

	return s, nil
}

// set replaces the current Session, persists it and notifies Subscriptions.
func (self *Store) set(ctx context.Context, s *Session) {
	self.mut.Lock()
	self.current = s
	self.persist.Store(ctx, s)
	subs := self.bc.publish(s)
	self.mut.Unlock()

	for _, sub := range subs {
		sub.flush(self.log, false)
	}
}

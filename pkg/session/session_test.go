package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "testuser",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-side-secret"))
	if nil != err {
		t.Fatalf("failed signing token, got error %v", err)
	}

	s := Session{Username: "testuser", Role: "USER", Token: token}
	claims, err := s.Claims()
	if nil != err {
		t.Fatalf("failed Claims, got error %v", err)
	}
	if "testuser" != claims.Subject {
		t.Errorf("invalid Subject %q", claims.Subject)
	}
	at, ok := s.ExpiresAt()
	if !ok || !at.Equal(exp) {
		t.Errorf("ExpiresAt returned %v, %v", at, ok)
	}
}

func TestSessionOpaqueToken(t *testing.T) {
	s := Session{Username: "testuser", Role: "USER", Token: "mock-jwt-token"}
	_, err := s.Claims()
	if !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Claims did not return ErrMalformedToken, got %v", err)
	}
	if _, ok := s.ExpiresAt(); ok {
		t.Error("ExpiresAt reports an expiration for an opaque token")
	}
}

func TestFingerprint(t *testing.T) {
	fp1 := Fingerprint("mock-jwt-token")
	if 8 != len(fp1) {
		t.Errorf("invalid Fingerprint size %d", len(fp1))
	}
	if fp1.String() != Fingerprint("mock-jwt-token").String() {
		t.Error("Fingerprint is not deterministic")
	}
	if fp1.String() == Fingerprint("other-token").String() {
		t.Error("distinct tokens have the same Fingerprint")
	}
	if nil != Fingerprint("") {
		t.Error("empty token has a Fingerprint")
	}
}

func TestMemPersistence(t *testing.T) {
	ctx := context.Background()
	persist := NewMemPersistence()

	if _, found := persist.Load(ctx); found {
		t.Fatal("[0] empty MemPersistence reports a record")
	}

	s := Session{Username: "testuser", Role: "USER", Token: "mock-jwt-token"}
	persist.Store(ctx, &s)
	if `{"username":"testuser","role":"USER","token":"mock-jwt-token"}` != string(persist.Raw()) {
		t.Errorf("[1] unexpected record layout %s", persist.Raw())
	}
	loaded, found := persist.Load(ctx)
	if !found || loaded != s {
		t.Errorf("[1] Load returned %+v, %v", loaded, found)
	}

	for pos, raw := range []string{`not json`, `{"username":"testuser"}`, `[]`, ``} {
		persist.SetRaw([]byte(raw))
		if _, found = persist.Load(ctx); found {
			t.Errorf("[2.%d] Load accepted corrupted record %q", pos, raw)
		}
	}

	// invalid Session is not stored
	persist.Store(ctx, &s)
	persist.Store(ctx, &Session{Username: "testuser"})
	loaded, found = persist.Load(ctx)
	if !found || loaded != s {
		t.Errorf("[3] Load returned %+v, %v", loaded, found)
	}

	persist.Store(ctx, nil)
	persist.Store(ctx, nil)
	if _, found = persist.Load(ctx); found {
		t.Error("[4] Load reports a deleted record")
	}
}

func TestCredentialsCheck(t *testing.T) {
	testcases := []struct {
		creds Credentials
		valid bool
	}{
		{creds: Credentials{Username: "testuser", Password: "testpass"}, valid: true},
		{creds: Credentials{Username: "abc", Password: "123456"}, valid: true},
		{creds: Credentials{Username: "ab", Password: "123456"}, valid: false},
		{creds: Credentials{Username: "   ab ", Password: "123456"}, valid: false},
		{creds: Credentials{Username: "abc", Password: "12345"}, valid: false},
	}
	for pos, tc := range testcases {
		err := tc.creds.Check()
		if tc.valid != (nil == err) {
			t.Errorf("[%d] Check returned %v", pos, err)
		}
	}
}

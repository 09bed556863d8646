package session

import (
	"context"
	"sync"

	"code.anagramas.org/golang/internal/observability"
	"code.anagramas.org/golang/internal/transport"
)

// Persistence keeps the Session record durable across client restarts.
//
// Implementations contain their failures: Load reports a missing or unreadable record
// as not found, and a failed Store has no durable effect. Neither surfaces an error.
type Persistence interface {
	// Load returns the stored Session and true, or false if there is no usable record.
	Load(ctx context.Context) (Session, bool)

	// Store overwrites the record with s, or deletes the record if s is nil.
	Store(ctx context.Context, s *Session)
}

// MemPersistence provides "in memory" implementation of Persistence.
// It keeps the serialized record so that it behaves like a durable store.
type MemPersistence struct {
	mut    sync.Mutex
	srz    transport.Serializer
	record []byte
}

// NewMemPersistence returns an empty MemPersistence that serializes records in json.
func NewMemPersistence() *MemPersistence {
	return &MemPersistence{srz: transport.WrapInSafeSerializer(transport.JSONSerializer{})}
}

// Load returns the stored Session and true, or false if there is no usable record.
func (self *MemPersistence) Load(ctx context.Context) (Session, bool) {
	self.mut.Lock()
	defer self.mut.Unlock()

	var s Session
	if nil == self.record {
		return s, false
	}
	err := self.srz.Unmarshal(self.record, &s)
	if nil != err {
		observability.GetObservability(ctx).Log().Warn("ignoring unreadable session record", "error", err)
		return Session{}, false
	}

	return s, true
}

// Store overwrites the record with s, or deletes the record if s is nil.
func (self *MemPersistence) Store(ctx context.Context, s *Session) {
	self.mut.Lock()
	defer self.mut.Unlock()

	if nil == s {
		self.record = nil
		return
	}
	record, err := self.srz.Marshal(*s)
	if nil != err {
		observability.GetObservability(ctx).Log().Warn("session record not saved", "error", err)
		return
	}
	self.record = record
}

// Raw returns a copy of the serialized record, nil if there is none.
func (self *MemPersistence) Raw() []byte {
	self.mut.Lock()
	defer self.mut.Unlock()

	if nil == self.record {
		return nil
	}
	return append([]byte(nil), self.record...)
}

// SetRaw replaces the serialized record, nil deletes it.
func (self *MemPersistence) SetRaw(record []byte) {
	self.mut.Lock()
	defer self.mut.Unlock()

	self.record = record
}

var _ Persistence = &MemPersistence{}

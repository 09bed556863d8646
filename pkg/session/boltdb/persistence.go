// Package boltdb provides a session.Persistence that keeps the Session record in a file.
package boltdb

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"code.anagramas.org/golang/internal/observability"
	"code.anagramas.org/golang/internal/transport"
	"code.anagramas.org/golang/pkg/session"
)

const (
	connectTimeout = 5 * time.Second
	sessionBucket  = "sessionTbl"
	recordKey      = "currentUser"
)

type persistence struct {
	dbpath string
	srz    transport.Serializer
}

// New returns a session.Persistence that keeps the Session record in a single file boltdb database.
// encoding names the record Serializer, "json" or "cbor".
// It errors if the database schema can not be created.
func New(dbpath string, encoding string) (session.Persistence, error) {
	srz, err := transport.GetSerializer(encoding)
	if nil != err {
		return nil, wrapError(err, "invalid encoding")
	}
	p := persistence{dbpath: dbpath, srz: transport.WrapInSafeSerializer(srz)}

	err = os.MkdirAll(filepath.Dir(dbpath), 0700)
	if nil != err {
		return nil, wrapError(err, "failed creating database directory")
	}

	db, err := p.open()
	if nil != err {
		return nil, err
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return wrapError(err, "failed %s bucket creation", sessionBucket)
	})
	if nil != err {
		return nil, wrapError(err, "failed db initialization")
	}

	return p, nil
}

// Load returns the stored Session and true, or false if there is no usable record.
func (self persistence) Load(ctx context.Context) (session.Session, bool) {
	log := observability.GetObservability(ctx).Log().With("db", self.dbpath)

	var rv session.Session
	var found bool
	db, err := self.open()
	if nil != err {
		log.Warn("session record not loaded", "error", err)
		return rv, false
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		bkt, err := loadBucket(tx)
		if nil != err {
			return err
		}
		record := bkt.Get([]byte(recordKey))
		if nil == record {
			return nil
		}
		err = self.srz.Unmarshal(record, &rv)
		if nil != err {
			return wrapError(err, "unreadable session record")
		}
		found = true

		return nil
	})
	if nil != err {
		log.Warn("session record not loaded", "error", err)
		return session.Session{}, false
	}

	return rv, found
}

// Store overwrites the record with s, or deletes the record if s is nil.
func (self persistence) Store(ctx context.Context, s *session.Session) {
	log := observability.GetObservability(ctx).Log().With("db", self.dbpath)

	var record []byte
	var err error
	if nil != s {
		record, err = self.srz.Marshal(*s)
		if nil != err {
			log.Warn("session record not saved", "error", err)
			return
		}
	}

	db, err := self.open()
	if nil != err {
		log.Warn("session record not saved", "error", err)
		return
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		bkt, err := loadBucket(tx)
		if nil != err {
			return err
		}
		if nil == record {
			return wrapError(bkt.Delete([]byte(recordKey)), "failed deleting session record")
		}
		return wrapError(bkt.Put([]byte(recordKey), record), "failed storing session record")
	})
	if nil != err {
		log.Warn("session record not saved", "error", err)
	}
}

func (self persistence) open() (*bolt.DB, error) {
	db, err := bolt.Open(self.dbpath, 0600, &bolt.Options{Timeout: connectTimeout})
	if nil != err {
		return nil, wrapError(err, "failed connecting to database")
	}
	return db, nil
}

func loadBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	bkt := tx.Bucket([]byte(sessionBucket))
	if nil == bkt {
		return nil, newError("missing %s bucket", sessionBucket)
	}
	return bkt, nil
}

var _ session.Persistence = persistence{}

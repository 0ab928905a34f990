package bank

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/revshareorg/librevshare-go/runtime"
)

var bucketAccounts = []byte("accounts")

// BoltStore persists a bank's account set in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("bank: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bank: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bank: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Save replaces the stored snapshot with the given account set.
func (s *BoltStore) Save(accounts []*runtime.Account) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketAccounts); err != nil {
			return fmt.Errorf("boltstore: reset bucket: %w", err)
		}
		b, err := tx.CreateBucket(bucketAccounts)
		if err != nil {
			return fmt.Errorf("boltstore: recreate bucket: %w", err)
		}
		for _, acct := range accounts {
			data, err := encodeGob(acct)
			if err != nil {
				return fmt.Errorf("encode account: %w", err)
			}
			if err := b.Put(acct.Key.Bytes(), data); err != nil {
				return fmt.Errorf("boltstore: put account: %w", err)
			}
		}
		return nil
	})
}

// Load returns every account in the stored snapshot.
func (s *BoltStore) Load() ([]*runtime.Account, error) {
	var accounts []*runtime.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var acct runtime.Account
			if err := decodeGob(v, &acct); err != nil {
				return fmt.Errorf("boltstore: decode account: %w", err)
			}
			accounts = append(accounts, &acct)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

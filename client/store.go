package client

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"go.etcd.io/bbolt"
)

// ErrNoToken is returned by stores when no credential is persisted
var ErrNoToken = goerrors.New("no stored token", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// TokenStore persists the single session credential between runs
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

var (
	bucketAuth = []byte("auth")
	tokenKey   = []byte("current")
)

// BoltStore keeps the token in a local bbolt file so the session
// survives restarts
type BoltStore struct {
	db *bbolt.DB
}

var _ TokenStore = (*BoltStore)(nil)

// NewBoltStore opens the database file at path and ensures the auth bucket
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open token store")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAuth)
		return err
	})
	if err != nil {
		db.Close()
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize token store")
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database
func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) Get(ctx context.Context) (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return ErrNoToken
		}

		data := bucket.Get(tokenKey)
		if data == nil {
			return ErrNoToken
		}

		token = string(data)
		return nil
	})

	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *BoltStore) Save(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return goerrors.New("auth bucket not found", goerrors.CategoryInternal)
		}
		return bucket.Put(tokenKey, []byte(token))
	})
}

// Clear discards the stored token. Clearing an empty store is not an error.
func (s *BoltStore) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(tokenKey)
	})
}

// MemoryStore is an in process TokenStore for tests and short lived tools
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

var _ TokenStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.set = false
	return nil
}

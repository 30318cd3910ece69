// Package drafts keeps editor autosaves in a local bbolt database, one
// entry per article id.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Sentinel errors.
var (
	ErrNoDraft     = errors.New("no such draft")
	ErrInvalidID   = errors.New("draft id cannot be empty")
	ErrDraftDecode = errors.New("corrupt draft")
)

const bucketDrafts = "drafts"

// openTimeout bounds waiting for another process holding the file lock.
const openTimeout = time.Second

// Draft is an autosaved editor state.
type Draft struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Tags     string    `json:"tags,omitempty"`
	Excerpt  string    `json:"excerpt,omitempty"`
	Markdown string    `json:"markdown"`
	SavedAt  time.Time `json:"savedAt"`
}

// Store is a draft database. Safe for concurrent use.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening drafts %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDrafts))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing drafts: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the draft for id.
func (s *Store) Get(id string) (Draft, error) {
	if id == "" {
		return Draft{}, ErrInvalidID
	}

	var d Draft
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketDrafts)).Get([]byte(id))
		if v == nil {
			return ErrNoDraft
		}
		if err := json.Unmarshal(v, &d); err != nil {
			return fmt.Errorf("%w: %v", ErrDraftDecode, err)
		}
		return nil
	})
	return d, err
}

// Put stores d under d.ID, stamping SavedAt. Returns the stored draft.
func (s *Store) Put(d Draft) (Draft, error) {
	if d.ID == "" {
		return Draft{}, ErrInvalidID
	}
	d.SavedAt = s.now().UTC()

	data, err := json.Marshal(d)
	if err != nil {
		return Draft{}, fmt.Errorf("encoding draft: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).Put([]byte(d.ID), data)
	})
	if err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Delete removes the draft for id. Deleting a missing draft is not an error.
func (s *Store) Delete(id string) error {
	if id == "" {
		return ErrInvalidID
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).Delete([]byte(id))
	})
}

// List returns all drafts, most recently saved first. Corrupt entries are skipped.
func (s *Store) List() ([]Draft, error) {
	var list []Draft
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDrafts)).ForEach(func(_, v []byte) error {
			var d Draft
			if json.Unmarshal(v, &d) == nil {
				list = append(list, d)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SavedAt.After(list[j].SavedAt) })
	return list, nil
}

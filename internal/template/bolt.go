package template

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const templateBucket = "templates"

// BoltStore implements Store using BoltDB, keyed by document type.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (creating if needed) a BoltDB file for templates.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(templateBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Save replaces the template for a document type.
func (s *BoltStore) Save(docType string, mapping Mapping) error {
	if err := checkFields(docType, mapping); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(templateBucket))
		data, err := json.Marshal(mapping)
		if err != nil {
			return fmt.Errorf("marshaling template: %w", err)
		}
		return bucket.Put([]byte(docType), data)
	})
}

// Load returns the template for a document type, or nil when none exists.
func (s *BoltStore) Load(docType string) (Mapping, error) {
	var mapping Mapping
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(templateBucket)).Get([]byte(docType))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &mapping); err != nil {
			return fmt.Errorf("unmarshaling template: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

// Delete removes the template for a document type.
func (s *BoltStore) Delete(docType string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(templateBucket)).Delete([]byte(docType))
	})
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

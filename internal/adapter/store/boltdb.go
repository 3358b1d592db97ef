// Package store persists fetched records and the keyword set in a
// bbolt database. Records are keyed by publication date so aggregation
// windows map directly onto key ranges.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"parlwatch/internal/domain"
)

var (
	bucketRecords  = []byte("records")
	bucketKeywords = []byte("keywords")
	bucketMeta     = []byte("meta")
)

const dateKeyLayout = "2006-01-02"

// BoltStore is a RecordStore backed by a single bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRecords, bucketKeywords, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func dateKey(date time.Time) []byte {
	return []byte(date.Format(dateKeyLayout))
}

// SaveRecords stores the records fetched for a date, replacing any
// earlier fetch of the same day so repeated fetches never accumulate
// duplicates. An empty slice clears the date.
func (s *BoltStore) SaveRecords(date time.Time, records []domain.Record) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		key := dateKey(date)
		if len(records) == 0 {
			return b.Delete(key)
		}
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// RecordsByDate returns the records stored under a date. A date with no
// records yields an empty slice.
func (s *BoltStore) RecordsByDate(date time.Time) ([]domain.Record, error) {
	var records []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get(dateKey(date))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &records)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load records for %s: %w", date.Format(dateKeyLayout), err)
	}
	return records, nil
}

// RecordsByRange returns all records in the inclusive day range
// [start, end], in date order. Date keys sort lexicographically, so a
// single cursor range scan covers the window.
func (s *BoltStore) RecordsByRange(start, end time.Time) ([]domain.Record, error) {
	min := dateKey(start)
	max := dateKey(end)

	var records []domain.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRecords).Cursor()
		for k, v := c.Seek(min); k != nil && string(k) <= string(max); k, v = c.Next() {
			var day []domain.Record
			if err := json.Unmarshal(v, &day); err != nil {
				return fmt.Errorf("corrupt records for %s: %w", k, err)
			}
			records = append(records, day...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Dates returns the dates that have stored records, in order.
func (s *BoltStore) Dates() ([]time.Time, error) {
	var dates []time.Time
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			d, err := time.Parse(dateKeyLayout, string(k))
			if err != nil {
				return fmt.Errorf("corrupt date key %s: %w", k, err)
			}
			dates = append(dates, d)
			return nil
		})
	})
	return dates, err
}

// PutKeyword stores a normalized term. Storing an existing term is a
// no-op.
func (s *BoltStore) PutKeyword(term string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeywords).Put([]byte(term), []byte{})
	})
}

// DeleteKeyword removes a term.
func (s *BoltStore) DeleteKeyword(term string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeywords).Delete([]byte(term))
	})
}

// Keywords returns the stored terms in key order.
func (s *BoltStore) Keywords() ([]string, error) {
	var terms []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeywords).ForEach(func(k, v []byte) error {
			terms = append(terms, string(k))
			return nil
		})
	})
	return terms, err
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

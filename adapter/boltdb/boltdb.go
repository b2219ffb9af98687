// Package boltdb exposes the content of a bolt database as a batch source.
package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"github.com/boltdb/bolt"

	"go.llib.dev/batchiter"
)

// KV is a single key value pair read out of a bolt bucket.
// Both slices are copies, they remain valid after the read transaction ended.
type KV struct {
	Key   []byte
	Value []byte
}

// Scan returns a cursor over every key value pair of the given bucket, in key order.
func Scan(db *bolt.DB, bucket []byte) *batchiter.Cursor[KV] {
	return batchiter.From[KV](&Source{DB: db, Bucket: bucket})
}

// Source reads through a bolt bucket in key order and serves its content as KV batches.
//
// Every Fetch runs in its own read only transaction and resumes right after the last key
// of the previous batch, so the scan never holds the database between two batches.
// The bolt.DB handle is owned by the caller, Close doesn't close it.
type Source struct {
	// DB is the bolt database the scan reads from.
	DB *bolt.DB
	// Bucket is the name of the bucket being scanned.
	Bucket []byte
	// BatchSize is the most key value pairs a single Fetch retrieves.
	// Defaults to 64.
	BatchSize int
	// Prefix restricts the scan to the keys that begin with the given bytes.
	Prefix []byte

	current []KV
	last    []byte
	done    bool
	closed  bool
}

func (s *Source) Fetch(ctx context.Context) (bool, error) {
	if s.closed {
		return false, batchiter.ErrClosed
	}
	if s.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var batch []KV
	err := s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.Bucket)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", s.Bucket)
		}
		cur := bucket.Cursor()
		for k, v := s.position(cur); k != nil; k, v = cur.Next() {
			if len(s.Prefix) != 0 && !bytes.HasPrefix(k, s.Prefix) {
				break
			}
			// the slices bolt returns are only valid within the transaction
			batch = append(batch, KV{
				Key:   append([]byte(nil), k...),
				Value: append([]byte(nil), v...),
			})
			if s.getBatchSize() <= len(batch) {
				break
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if len(batch) == 0 {
		s.done = true
		s.current = nil
		return false, nil
	}
	s.last = batch[len(batch)-1].Key
	s.current = batch
	return true, nil
}

// position places the cursor on the first key the upcoming batch should contain.
func (s *Source) position(cur *bolt.Cursor) ([]byte, []byte) {
	if s.last == nil {
		if len(s.Prefix) != 0 {
			return cur.Seek(s.Prefix)
		}
		return cur.First()
	}
	k, v := cur.Seek(s.last)
	if bytes.Equal(k, s.last) {
		return cur.Next()
	}
	return k, v
}

func (s *Source) Batch() []KV {
	return s.current
}

func (s *Source) Close() error {
	s.closed = true
	s.current = nil
	return nil
}

func (s *Source) getBatchSize() int {
	const defaultBatchSize = 64
	if s.BatchSize <= 0 {
		return defaultBatchSize
	}
	return s.BatchSize
}

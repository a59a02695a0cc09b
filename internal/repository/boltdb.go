// Package repository persists the library of added torrents.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/google/uuid"

	"github.com/torro-bt/torro/pkg/torrent/metainfo"
)

const torrentsBucket = "torrents"

var ErrTorrentNotFound = errors.New("torrent not found")

// Record is one library entry: a parsed descriptor plus bookkeeping.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	Announce    string    `json:"announce"`
	Name        string    `json:"name"`
	PieceLength int64     `json:"pieceLength"`
	PieceCount  int       `json:"pieceCount"`
	TotalSize   int64     `json:"totalSize"`
	FileCount   int       `json:"fileCount"`
	AddedAt     time.Time `json:"addedAt"`
}

// NewRecord builds a library record for a descriptor parsed from source.
func NewRecord(source string, tor *metainfo.Torrent) Record {
	rec := Record{
		ID:          uuid.New(),
		Source:      source,
		Announce:    tor.Announce,
		Name:        tor.Name,
		PieceLength: tor.PieceLength,
		PieceCount:  len(tor.Pieces),
		AddedAt:     time.Now().UTC(),
	}

	switch fs := tor.FileStructure.(type) {
	case metainfo.SingleFile:
		rec.TotalSize = fs.Length
		rec.FileCount = 1
	case metainfo.MultiFile:
		rec.FileCount = len(fs.Files)
		for _, f := range fs.Files {
			rec.TotalSize += f.Length
		}
	}

	return rec
}

// BoltDBRepository stores library records in a BoltDB file.
type BoltDBRepository struct {
	db *bolt.DB
}

// NewBoltDBRepository opens (or creates) the library database at dbPath.
func NewBoltDBRepository(dbPath string) (*BoltDBRepository, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(torrentsBucket)); err != nil {
			return fmt.Errorf("failed to create torrents bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BoltDBRepository{
		db: db,
	}, nil
}

// Save persists a record to storage.
func (r *BoltDBRepository) Save(rec Record) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(torrentsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", torrentsBucket)
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		err = bucket.Put([]byte(rec.ID.String()), data)
		if err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})
}

// Find retrieves a record by ID.
func (r *BoltDBRepository) Find(id uuid.UUID) (*Record, error) {
	var rec *Record

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(torrentsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", torrentsBucket)
		}

		data := bucket.Get([]byte(id.String()))
		if data == nil {
			return ErrTorrentNotFound
		}

		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// FindAll retrieves all records.
func (r *BoltDBRepository) FindAll() ([]*Record, error) {
	var records []*Record

	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(torrentsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", torrentsBucket)
		}

		return bucket.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}

			records = append(records, &rec)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes a record.
func (r *BoltDBRepository) Delete(id uuid.UUID) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(torrentsBucket))
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", torrentsBucket)
		}

		return bucket.Delete([]byte(id.String()))
	})
}

// Close closes the database.
func (r *BoltDBRepository) Close() error {
	return r.db.Close()
}

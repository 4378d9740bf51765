package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ledgerfile/ledgerfile/internal/model"
)

// Bucket names
var (
	ConfigBucket = []byte("config") // Format version, timestamps, ledger ID - unencrypted
	VaultBucket  = []byte("vault")  // The encrypted container envelope
	IndexBucket  = []byte("index")  // Record-count summary for status - unencrypted
)

// Config keys
var (
	ConfigVersion  = []byte("version")
	ConfigCreated  = []byte("created")
	ConfigModified = []byte("modified")
	ConfigLedgerID = []byte("ledger_id")
)

// Vault keys
var vaultContainer = []byte("container")

// Index keys
var indexSummary = []byte("summary")

// Storage provides BBolt-based storage for a ledger file
type Storage struct {
	db *bolt.DB
}

// Open opens or creates a ledger database
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure for a new ledger
func (s *Storage) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{ConfigBucket, VaultBucket, IndexBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(ConfigBucket)
		if err := config.Put(ConfigVersion, []byte("1")); err != nil {
			return err
		}

		now := time.Now()
		created, _ := now.MarshalBinary()
		if err := config.Put(ConfigCreated, created); err != nil {
			return err
		}
		return config.Put(ConfigModified, created)
	})
}

// IsInitialized checks if the database has been initialized
func (s *Storage) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config != nil && config.Get(ConfigVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// SetContainer stores the encrypted container envelope. The write is a
// single bbolt transaction, so a crash never leaves a half-written ledger.
func (s *Storage) SetContainer(data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		if vault == nil {
			return fmt.Errorf("vault bucket not found")
		}
		return vault.Put(vaultContainer, data)
	})
}

// GetContainer retrieves the encrypted container envelope
func (s *Storage) GetContainer() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		vault := tx.Bucket(VaultBucket)
		if vault == nil {
			return fmt.Errorf("vault bucket not found")
		}
		data = vault.Get(vaultContainer)
		if data == nil {
			return fmt.Errorf("container not found")
		}
		// Make a copy since the slice is only valid during the transaction
		data = append([]byte(nil), data...)
		return nil
	})
	return data, err
}

// SetSummary stores the unencrypted record-count index
func (s *Storage) SetSummary(summary model.Summary) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return fmt.Errorf("index bucket not found")
		}
		data, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		return index.Put(indexSummary, data)
	})
}

// GetSummary retrieves the unencrypted record-count index
func (s *Storage) GetSummary() (model.Summary, error) {
	var summary model.Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(IndexBucket)
		if index == nil {
			return fmt.Errorf("index bucket not found")
		}
		data := index.Get(indexSummary)
		if data == nil {
			return fmt.Errorf("summary not found")
		}
		return json.Unmarshal(data, &summary)
	})
	return summary, err
}

// UpdateModified updates the last modified timestamp
func (s *Storage) UpdateModified() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		now := time.Now()
		modified, _ := now.MarshalBinary()
		return config.Put(ConfigModified, modified)
	})
}

// GetModified retrieves the last modified timestamp
func (s *Storage) GetModified() (time.Time, error) {
	var modified time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// GetLedgerID retrieves the ledger ID from the config bucket
func (s *Storage) GetLedgerID() (string, error) {
	var ledgerID string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		if config == nil {
			return fmt.Errorf("config bucket not found")
		}
		data := config.Get(ConfigLedgerID)
		if data == nil {
			return fmt.Errorf("ledger_id not found")
		}
		ledgerID = string(data)
		return nil
	})
	return ledgerID, err
}

// GetOrCreateLedgerID retrieves the existing ledger ID or generates a new one
func (s *Storage) GetOrCreateLedgerID() (string, error) {
	ledgerID, err := s.GetLedgerID()
	if err == nil {
		return ledgerID, nil
	}

	ledgerID = uuid.NewString()

	err = s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(ConfigBucket)
		return config.Put(ConfigLedgerID, []byte(ledgerID))
	})
	if err != nil {
		return "", err
	}

	return ledgerID, nil
}

// Compact creates a compacted copy of the database, removing unused space.
// This is useful after password changes rewrite the container.
func (s *Storage) Compact() error {
	srcPath := s.db.Path()
	tmpPath := srcPath + ".compact"

	dst, err := bolt.Open(tmpPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to create compact database: %w", err)
	}

	// Copy all buckets
	err = s.db.View(func(srcTx *bolt.Tx) error {
		return dst.Update(func(dstTx *bolt.Tx) error {
			return srcTx.ForEach(func(name []byte, srcBucket *bolt.Bucket) error {
				dstBucket, err := dstTx.CreateBucketIfNotExists(name)
				if err != nil {
					return err
				}
				return srcBucket.ForEach(func(k, v []byte) error {
					return dstBucket.Put(k, v)
				})
			})
		})
	})

	if err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to copy data: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close compact database: %w", err)
	}

	if err := s.db.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close source database: %w", err)
	}

	// Atomic replace
	backupPath := srcPath + ".backup"
	if err := os.Rename(srcPath, backupPath); err != nil {
		return fmt.Errorf("failed to backup original: %w", err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		os.Rename(backupPath, srcPath) // rollback
		return fmt.Errorf("failed to replace database: %w", err)
	}
	os.Remove(backupPath)

	// Reopen database
	s.db, err = bolt.Open(srcPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}

	return nil
}

package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const resourceBucket = "resources"

// boltStore keeps resources as keys of a single BoltDB bucket.
type boltStore struct {
	db          *bolt.DB
	defaultName string
}

func openBolt(path, defaultName string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(resourceBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db, defaultName: defaultName}, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *boltStore) Read(name string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resourceBucket))
		if bucket == nil {
			return fmt.Errorf("resource bucket missing")
		}

		key := b.key(bucket, name)
		k, v := bucket.Cursor().Seek(key)
		if !bytes.Equal(k, key) {
			return fmt.Errorf("read %q: %w", name, ErrNotFound)
		}

		// Values are only valid for the life of the transaction.
		data = bytes.Clone(v)
		if data == nil {
			data = []byte{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (b *boltStore) Write(name string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resourceBucket))
		if bucket == nil {
			return fmt.Errorf("resource bucket missing")
		}

		if data == nil {
			data = []byte{}
		}
		if err := bucket.Put(b.key(bucket, name), data); err != nil {
			return fmt.Errorf("write %q: %w", name, err)
		}
		return nil
	})
}

func (b *boltStore) Exists(name string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(resourceBucket))
		if bucket == nil {
			return fmt.Errorf("resource bucket missing")
		}

		key := b.key(bucket, name)
		k, _ := bucket.Cursor().Seek(key)
		exists = bytes.Equal(k, key)
		return nil
	})
	return exists, err
}

// key resolves name against the keys already in bucket.
func (b *boltStore) key(bucket *bolt.Bucket, name string) []byte {
	hasChildren := func(prefix string) bool {
		k, _ := bucket.Cursor().Seek([]byte(prefix))
		return k != nil && bytes.HasPrefix(k, []byte(prefix))
	}

	return []byte(resolveKey(Clean(name), b.defaultName, hasChildren))
}

package authstore

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.etcd.io/bbolt"
)

var chatsBucket = []byte("chats")

// BoltKV keeps the store in a local file: one nested bucket per chat.
type BoltKV struct {
	db *bbolt.DB
}

func OpenBolt(path string) (*BoltKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(chatsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltKV{db: db}, nil
}

func (s *BoltKV) Close() error { return s.db.Close() }

func chatKey(chatID int64) []byte { return []byte(strconv.FormatInt(chatID, 10)) }

func (s *BoltKV) Get(_ context.Context, chatID int64, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(chatsBucket).Bucket(chatKey(chatID))
		if b == nil {
			return nil
		}
		if raw := b.Get([]byte(key)); raw != nil {
			v, ok = string(raw), true
		}
		return nil
	})
	return v, ok, err
}

func (s *BoltKV) Set(_ context.Context, chatID int64, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(chatsBucket).CreateBucketIfNotExists(chatKey(chatID))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltKV) Delete(_ context.Context, chatID int64, keys ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(chatsBucket).Bucket(chatKey(chatID))
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

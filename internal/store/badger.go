package store

import (
	"errors"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps messages in an embedded badger database. Unlike the
// file backend, every Set is a per-key atomic transaction, so concurrent
// submissions from different participants cannot lose each other's writes.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Get(name string) (string, error) {
	var message string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			message = string(val)
			return nil
		})
	})
	return message, err
}

func (b *BadgerStore) Set(name, message string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), []byte(message))
	})
}

func (b *BadgerStore) All() (map[string]string, error) {
	out := make(map[string]string)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(val []byte) error {
				out[key] = string(val)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

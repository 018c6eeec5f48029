package store

import (
	"os"
	"path"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
)

const dirPerm = 0755

// PebbleStore is the persistent engine, a pure Go LSM tree. One store owns
// one pebble database under dataDir.
type PebbleStore struct {
	db      *pebble.DB
	dataDir string
	closed  int32
}

// NewPebbleStore opens (creating if needed) the database under dataDir.
func NewPebbleStore(dataDir string) (*PebbleStore, error) {
	if err := os.MkdirAll(dataDir, dirPerm); err != nil {
		return nil, err
	}
	dir := path.Join(dataDir, "pebble")
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	dbLog.Infof("pebble store opened at %v", dir)
	return &PebbleStore{db: db, dataDir: dir}, nil
}

func (ps *PebbleStore) Get(key []byte) ([]byte, error) {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return nil, ErrStoreClosed
	}
	v, closer, err := ps.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	value := make([]byte, len(v))
	copy(value, v)
	closer.Close()
	return value, nil
}

func (ps *PebbleStore) Set(key []byte, value []byte) error {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return ErrStoreClosed
	}
	return ps.db.Set(key, value, pebble.Sync)
}

func (ps *PebbleStore) Delete(key []byte) error {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return ErrStoreClosed
	}
	return ps.db.Delete(key, pebble.Sync)
}

func (ps *PebbleStore) Exist(key []byte) (bool, error) {
	_, err := ps.Get(key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ps *PebbleStore) Update(pairs []KVPair) error {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return ErrStoreClosed
	}
	batch := ps.db.NewBatch()
	defer batch.Close()
	for _, p := range pairs {
		if err := batch.Set(p.Key, p.Value, nil); err != nil {
			return err
		}
	}
	return ps.db.Apply(batch, pebble.Sync)
}

func (ps *PebbleStore) Values(keys [][]byte) ([][]byte, error) {
	values := make([][]byte, len(keys))
	for i, key := range keys {
		v, err := ps.Get(key)
		if err == ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (ps *PebbleStore) Keys() ([][]byte, error) {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return nil, ErrStoreClosed
	}
	it, err := ps.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var keys [][]byte
	for it.First(); it.Valid(); it.Next() {
		k := make([]byte, len(it.Key()))
		copy(k, it.Key())
		keys = append(keys, k)
	}
	return keys, it.Error()
}

func (ps *PebbleStore) Len() (int64, error) {
	if atomic.LoadInt32(&ps.closed) == 1 {
		return 0, ErrStoreClosed
	}
	it, err := ps.db.NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()
	var cnt int64
	for it.First(); it.Valid(); it.Next() {
		cnt++
	}
	return cnt, it.Error()
}

func (ps *PebbleStore) Clear() error {
	keys, err := ps.Keys()
	if err != nil {
		return err
	}
	batch := ps.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		if err := batch.Delete(k, nil); err != nil {
			return err
		}
	}
	return ps.db.Apply(batch, pebble.Sync)
}

func (ps *PebbleStore) Close() error {
	if !atomic.CompareAndSwapInt32(&ps.closed, 0, 1) {
		return nil
	}
	dbLog.Infof("pebble store closed at %v", ps.dataDir)
	return ps.db.Close()
}

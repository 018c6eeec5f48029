package store

import (
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"
)

const defaultTableName = "default"

type kvitem struct {
	Key   string
	Value []byte
}

// MemStore is an in-memory engine on go-memdb: reads run against immutable
// snapshots, batch writes commit in a single transaction.
type MemStore struct {
	memkv  *memdb.MemDB
	closed int32
}

func NewMemStore() (*MemStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			defaultTableName: {
				Name: defaultTableName,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
	memkv, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, err
	}
	return &MemStore{memkv: memkv}, nil
}

func (ms *MemStore) Get(key []byte) ([]byte, error) {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return nil, ErrStoreClosed
	}
	txn := ms.memkv.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(defaultTableName, "id", string(key))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrKeyNotFound
	}
	item := raw.(*kvitem)
	if item.Key != string(key) {
		return nil, ErrKeyNotFound
	}
	return item.Value, nil
}

func (ms *MemStore) Set(key []byte, value []byte) error {
	return ms.Update([]KVPair{{Key: key, Value: value}})
}

func (ms *MemStore) Delete(key []byte) error {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return ErrStoreClosed
	}
	txn := ms.memkv.Txn(true)
	err := txn.Delete(defaultTableName, &kvitem{Key: string(key)})
	if err != nil && err != memdb.ErrNotFound {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

func (ms *MemStore) Exist(key []byte) (bool, error) {
	_, err := ms.Get(key)
	if err == ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ms *MemStore) Update(pairs []KVPair) error {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return ErrStoreClosed
	}
	txn := ms.memkv.Txn(true)
	for _, p := range pairs {
		nv := make([]byte, len(p.Value))
		copy(nv, p.Value)
		if err := txn.Insert(defaultTableName, &kvitem{Key: string(p.Key), Value: nv}); err != nil {
			txn.Abort()
			return err
		}
	}
	txn.Commit()
	return nil
}

func (ms *MemStore) Values(keys [][]byte) ([][]byte, error) {
	values := make([][]byte, len(keys))
	for i, key := range keys {
		v, err := ms.Get(key)
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

func (ms *MemStore) Keys() ([][]byte, error) {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return nil, ErrStoreClosed
	}
	txn := ms.memkv.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(defaultTableName, "id")
	if err != nil {
		return nil, err
	}
	var keys [][]byte
	for raw := it.Next(); raw != nil; raw = it.Next() {
		keys = append(keys, []byte(raw.(*kvitem).Key))
	}
	return keys, nil
}

func (ms *MemStore) Len() (int64, error) {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return 0, ErrStoreClosed
	}
	txn := ms.memkv.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(defaultTableName, "id")
	if err != nil {
		return 0, err
	}
	var cnt int64
	for raw := it.Next(); raw != nil; raw = it.Next() {
		cnt++
	}
	return cnt, nil
}

func (ms *MemStore) Clear() error {
	if atomic.LoadInt32(&ms.closed) == 1 {
		return ErrStoreClosed
	}
	txn := ms.memkv.Txn(true)
	if _, err := txn.DeleteAll(defaultTableName, "id"); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

func (ms *MemStore) Close() error {
	atomic.StoreInt32(&ms.closed, 1)
	return nil
}

package store

import (
	"errors"

	"github.com/youzan/ZanGeoIndex/common"
)

var dbLog = common.NewLevelLogger(common.LOG_INFO, common.NewDefaultLogger("store"))

func SetLogger(level int32, logger common.Logger) {
	dbLog.SetLevel(level)
	dbLog.Logger = logger
}

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrStoreClosed = errors.New("store is already closed")
)

// KVPair is one record of a batch write.
type KVPair struct {
	Key   []byte
	Value []byte
}

// KVStore is the storage an index persists through. Implementations must be
// safe for concurrent readers; writers are serialized by the index
// synchronizer when one is configured.
type KVStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Set stores value under key, overwriting any previous value.
	Set(key []byte, value []byte) error
	// Delete removes the record. Deleting a missing key is not an error.
	Delete(key []byte) error
	// Exist reports whether a record exists under key.
	Exist(key []byte) (bool, error)
	// Update applies a batch of writes atomically.
	Update(pairs []KVPair) error
	// Values returns the stored values for the given keys. Missing keys
	// yield nil entries.
	Values(keys [][]byte) ([][]byte, error)
	// Keys returns every stored key in ascending order.
	Keys() ([][]byte, error)
	// Len returns the number of stored records.
	Len() (int64, error)
	// Clear removes every record.
	Clear() error
	Close() error
}

package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/youzan/ZanGeoIndex/common"
	"github.com/youzan/ZanGeoIndex/geohash"
	"github.com/youzan/ZanGeoIndex/geometry"
	"github.com/youzan/ZanGeoIndex/store"
)

var idxLog = common.NewLevelLogger(common.LOG_INFO, common.NewDefaultLogger("index"))

func SetLogger(level int32, logger common.Logger) {
	idxLog.SetLevel(level)
	idxLog.Logger = logger
}

// propertiesKey is the reserved record describing the index itself.
const propertiesKey = ".properties"

const defaultPrecision = 3

var (
	ErrAlreadyInitialized = errors.New("index already initialized")
	ErrNotInitialized     = errors.New("index properties not found")
)

// Properties is the persisted description of an index.
type Properties struct {
	Precision  int    `json:"precision"`
	Compressor string `json:"compressor"`
}

// Index is a geographic index over a key-value store: one record per
// geohash cell at a fixed character precision, each holding a list of
// opaque payloads.
type Index struct {
	kv           store.KVStore
	precision    int
	compressor   Compressor
	synchronizer Synchronizer
}

// NewIndex binds an index to a store without touching stored state. Most
// callers want Init or Open instead. precision <= 0 selects the default of
// 3 characters.
func NewIndex(kv store.KVStore, precision int, compressor Compressor, synchronizer Synchronizer) *Index {
	if precision <= 0 {
		precision = defaultPrecision
	}
	return &Index{
		kv:           kv,
		precision:    precision,
		compressor:   compressor,
		synchronizer: synchronizer,
	}
}

// Init creates a new index on the store: it writes the properties record
// and seeds one empty record per geohash cell covering the whole earth at
// the index precision.
func Init(kv store.KVStore, precision int, compressor Compressor, synchronizer Synchronizer) (*Index, error) {
	idx := NewIndex(kv, precision, compressor, synchronizer)
	if err := idx.SetProperties(); err != nil {
		return nil, err
	}
	codes, err := geohash.BoundingBoxesString(nil, idx.precision)
	if err != nil {
		return nil, err
	}
	seed := make(map[string][][]byte, len(codes))
	for _, code := range codes {
		seed[code] = nil
	}
	if err = idx.Update(seed); err != nil {
		return nil, err
	}
	idxLog.Infof("index initialized with precision %d (%d cells)", idx.precision, len(codes))
	return idx, nil
}

// Open binds to an already initialized index, reading its properties from
// the store.
func Open(kv store.KVStore, synchronizer Synchronizer) (*Index, error) {
	props, err := GetProperties(kv)
	if err != nil {
		return nil, err
	}
	compressor, err := GetCompressor(props.Compressor)
	if err != nil {
		return nil, err
	}
	return NewIndex(kv, props.Precision, compressor, synchronizer), nil
}

// SetProperties writes the properties record, failing if one exists.
func (idx *Index) SetProperties() error {
	exist, err := idx.kv.Exist([]byte(propertiesKey))
	if err != nil {
		return err
	}
	if exist {
		return ErrAlreadyInitialized
	}
	props := Properties{Precision: idx.precision}
	if idx.compressor != nil {
		props.Compressor = idx.compressor.Name()
	}
	data, err := json.Marshal(props)
	if err != nil {
		return err
	}
	return idx.kv.Set([]byte(propertiesKey), data)
}

// GetProperties reads the properties record of an initialized index.
func GetProperties(kv store.KVStore) (Properties, error) {
	var props Properties
	data, err := kv.Get([]byte(propertiesKey))
	if err == store.ErrKeyNotFound {
		return props, ErrNotInitialized
	}
	if err != nil {
		return props, err
	}
	if err = json.Unmarshal(data, &props); err != nil {
		return props, fmt.Errorf("corrupt index properties: %v", err)
	}
	return props, nil
}

// Precision returns the character precision of the index cells.
func (idx *Index) Precision() int {
	return idx.precision
}

// Update overwrites the payload lists of the given cells.
func (idx *Index) Update(data map[string][][]byte) error {
	pairs := make([]store.KVPair, 0, len(data))
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, err := encodeValues(data[key], idx.compressor)
		if err != nil {
			return err
		}
		pairs = append(pairs, store.KVPair{Key: []byte(key), Value: value})
	}
	if idx.synchronizer != nil {
		if err := idx.synchronizer.Lock(); err != nil {
			return err
		}
		defer idx.synchronizer.Unlock()
	}
	return idx.kv.Update(pairs)
}

// Append extends the payload lists of the given cells with one more
// payload each, keeping what is already stored.
func (idx *Index) Append(data map[string][]byte) error {
	merged := make(map[string][][]byte, len(data))
	for key, payload := range data {
		existing, err := idx.get(key)
		if err != nil {
			return err
		}
		merged[key] = append(existing, payload)
	}
	return idx.Update(merged)
}

func (idx *Index) get(key string) ([][]byte, error) {
	raw, err := idx.kv.Get([]byte(key))
	if err == store.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeValues(raw, idx.compressor)
}

// Box returns every payload stored in the cells intersecting the given
// geographic area. The box may wrap the antimeridian.
func (idx *Index) Box(box geometry.Box) ([][]byte, error) {
	codes, err := geohash.BoundingBoxesString(&box, idx.precision)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(codes))
	for i, code := range codes {
		keys[i] = []byte(code)
	}
	values, err := idx.kv.Values(keys)
	if err != nil {
		return nil, err
	}
	var result [][]byte
	for _, raw := range values {
		if raw == nil {
			continue
		}
		payloads, err := decodeValues(raw, idx.compressor)
		if err != nil {
			return nil, err
		}
		result = append(result, payloads...)
	}
	return result, nil
}

// Len returns the number of records, excluding the properties record.
func (idx *Index) Len() (int64, error) {
	n, err := idx.kv.Len()
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

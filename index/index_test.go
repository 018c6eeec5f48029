package index

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youzan/ZanGeoIndex/geometry"
	"github.com/youzan/ZanGeoIndex/store"
)

func boxPayloads(t *testing.T, idx *Index, box geometry.Box) []string {
	payloads, err := idx.Box(box)
	assert.Nil(t, err)
	values := make([]string, 0, len(payloads))
	for _, p := range payloads {
		values = append(values, string(p))
	}
	sort.Strings(values)
	return values
}

func runIndexScenario(t *testing.T, compressor Compressor, synchronizer Synchronizer) {
	kv, err := store.NewMemStore()
	assert.Nil(t, err)
	defer kv.Close()

	idx, err := Init(kv, 1, compressor, synchronizer)
	assert.Nil(t, err)

	// one record per cell of the whole earth at one character
	n, err := idx.Len()
	assert.Nil(t, err)
	assert.Equal(t, int64(32), n)

	whole := geometry.WholeEarth()
	assert.Equal(t, []string{}, boxPayloads(t, idx, whole))

	err = idx.Append(map[string][]byte{
		"m": []byte("1"), "q": []byte("2"), "8": []byte("3"),
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, boxPayloads(t, idx, whole))

	err = idx.Update(map[string][][]byte{"m": {[]byte("5")}})
	assert.Nil(t, err)
	assert.Equal(t, []string{"2", "3", "5"}, boxPayloads(t, idx, whole))

	err = idx.Append(map[string][]byte{"m": []byte("50")})
	assert.Nil(t, err)
	assert.Equal(t, []string{"2", "3", "5", "50"}, boxPayloads(t, idx, whole))

	// the record count is unchanged by updates
	n, err = idx.Len()
	assert.Nil(t, err)
	assert.Equal(t, int64(32), n)
}

func TestIndexScenario(t *testing.T) {
	runIndexScenario(t, nil, nil)
	runIndexScenario(t, SnappyCompressor{}, &ThreadSynchronizer{})
	runIndexScenario(t, nil, PuppetSynchronizer{})
}

func TestIndexOpen(t *testing.T) {
	kv, err := store.NewMemStore()
	assert.Nil(t, err)
	defer kv.Close()

	_, err = Open(kv, nil)
	assert.Equal(t, ErrNotInitialized, err)

	_, err = Init(kv, 2, SnappyCompressor{}, nil)
	assert.Nil(t, err)

	idx, err := Open(kv, nil)
	assert.Nil(t, err)
	assert.Equal(t, 2, idx.Precision())
	assert.Equal(t, "snappy", idx.compressor.Name())

	props, err := GetProperties(kv)
	assert.Nil(t, err)
	assert.Equal(t, Properties{Precision: 2, Compressor: "snappy"}, props)
}

func TestIndexInitTwice(t *testing.T) {
	kv, err := store.NewMemStore()
	assert.Nil(t, err)
	defer kv.Close()

	_, err = Init(kv, 1, nil, nil)
	assert.Nil(t, err)
	_, err = Init(kv, 1, nil, nil)
	assert.Equal(t, ErrAlreadyInitialized, err)
}

func TestIndexBoxQuery(t *testing.T) {
	kv, err := store.NewMemStore()
	assert.Nil(t, err)
	defer kv.Close()

	idx, err := Init(kv, 3, nil, nil)
	assert.Nil(t, err)

	// Len counts all the seeded cells: 32768 at three characters
	n, err := idx.Len()
	assert.Nil(t, err)
	assert.Equal(t, int64(32768), n)

	// ezs is the cell of (-5.6, 42.6)
	err = idx.Append(map[string][]byte{"ezs": []byte("leon")})
	assert.Nil(t, err)

	near := geometry.Box{
		Min: geometry.Point{Lng: -5.7, Lat: 42.5},
		Max: geometry.Point{Lng: -5.5, Lat: 42.7},
	}
	assert.Equal(t, []string{"leon"}, boxPayloads(t, idx, near))

	far := geometry.Box{
		Min: geometry.Point{Lng: 100, Lat: 30},
		Max: geometry.Point{Lng: 110, Lat: 40},
	}
	assert.Equal(t, []string{}, boxPayloads(t, idx, far))

	// a wrapped query touches both sides of the antimeridian
	wrapped := geometry.Box{
		Min: geometry.Point{Lng: 170, Lat: -5},
		Max: geometry.Point{Lng: -170, Lat: 5},
	}
	assert.Equal(t, []string{}, boxPayloads(t, idx, wrapped))
}

func TestValueCodec(t *testing.T) {
	values := [][]byte{[]byte("a"), []byte(""), []byte("longer payload with bytes \x00\x01")}
	for _, compressor := range []Compressor{nil, SnappyCompressor{}} {
		encoded, err := encodeValues(values, compressor)
		assert.Nil(t, err)
		decoded, err := decodeValues(encoded, compressor)
		assert.Nil(t, err)
		assert.Equal(t, len(values), len(decoded))
		for i := range values {
			assert.Equal(t, string(values[i]), string(decoded[i]))
		}
	}

	encoded, err := encodeValues(nil, nil)
	assert.Nil(t, err)
	decoded, err := decodeValues(encoded, nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(decoded))

	_, err = decodeValues([]byte{0xFF}, nil)
	assert.Equal(t, ErrCorruptValue, err)
}

func TestGetCompressor(t *testing.T) {
	c, err := GetCompressor("snappy")
	assert.Nil(t, err)
	assert.Equal(t, "snappy", c.Name())

	c, err = GetCompressor("")
	assert.Nil(t, err)
	assert.Nil(t, c)

	_, err = GetCompressor("lz77")
	assert.NotNil(t, err)
}

package geohash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youzan/ZanGeoIndex/geometry"
)

type placeCase struct {
	name string
	geometry.Point
	hash uint64
	text string
}

// Full precision codes and their 12-char textual form.
var places = []placeCase{
	{"Tiananmen Square, China", geometry.Point{Lng: 116.39772, Lat: 39.90323}, 0xE748F02291ACE9CC, "wx4g08njpmnw"},
	{"Arch of Triumph, France", geometry.Point{Lng: 2.174266, Lat: 48.522679}, 0xD013808EE3011D4E, "u09s13r304fn"},
	{"Colosseum in Rome, Italy", geometry.Point{Lng: 12.293116, Lat: 41.532432}, 0xC5C58BA3BD758FD8, "sr2sr8xxfq7x"},
	{"Statue of Liberty, USA", geometry.Point{Lng: -74.24038, Lat: 40.412148}, 0x65CB1F61EB5B852D, "dr5jysgccf2k"},
	{"Sydney Opera House, Australia", geometry.Point{Lng: 151.12541, Lat: -33.512513}, 0xB98A3B3E959D9618, "r653qgnpmqc1"},
	{"Corcovado, Brazil", geometry.Point{Lng: -43.123665, Lat: -22.57572}, 0x39577632965E94A4, "75crddnqcubb"},
	{"Kilimanjaro, Tanzania", geometry.Point{Lng: 37.205685, Lat: -3.35324}, 0x97CD2F67037D962B, "kz6kyts3gqc2"},
	{"Mount Everest, Nepal", geometry.Point{Lng: 86.9221941736, Lat: 27.9782502279}, 0xCEB7F0EECB0BF6DC, "tuvz1vqc1gve"},
}

func TestEncodeFullPrecision(t *testing.T) {
	for _, v := range places {
		hash, err := Encode(v.Point, 64)
		assert.Nil(t, err)
		assert.Equal(t, v.hash, hash, "full precision hash of %s", v.name)
	}

	// equator/greenwich crossing sets the top bit of both halves
	hash, err := Encode(geometry.Point{Lng: 0, Lat: 0}, 64)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0xC000000000000000), hash)
}

func TestEncodeTruncated(t *testing.T) {
	tiananmen := places[0]
	hash, err := Encode(tiananmen.Point, 32)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3880316962), hash)

	hash, err = Encode(tiananmen.Point, 52)
	assert.Nil(t, err)
	assert.Equal(t, uint64(4068807239342798), hash)

	liberty := places[3]
	hash, err = Encode(liberty.Point, 32)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1707810657), hash)

	hash, err = Encode(liberty.Point, 52)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1790769268438456), hash)
}

func TestEncodeSaturation(t *testing.T) {
	// the endpoints land in the endpoint cell, silently
	hash, err := Encode(geometry.Point{Lng: 180, Lat: 90}, 64)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), hash)

	over, err := Encode(geometry.Point{Lng: 200, Lat: 100}, 64)
	assert.Nil(t, err)
	assert.Equal(t, hash, over)

	hash, err = Encode(geometry.Point{Lng: -180, Lat: -90}, 64)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), hash)

	under, err := Encode(geometry.Point{Lng: -181, Lat: -91}, 64)
	assert.Nil(t, err)
	assert.Equal(t, hash, under)
}

func TestInvalidPrecision(t *testing.T) {
	p := geometry.Point{Lng: 0, Lat: 0}
	_, err := Encode(p, 0)
	assert.Equal(t, ErrInvalidPrecision, err)
	_, err = Encode(p, 65)
	assert.Equal(t, ErrInvalidPrecision, err)
	_, err = BoundingBox(0, 0)
	assert.Equal(t, ErrInvalidPrecision, err)
	_, err = Decode(0, 100, false)
	assert.Equal(t, ErrInvalidPrecision, err)
	_, _, err = ErrorWithPrecision(0)
	assert.Equal(t, ErrInvalidPrecision, err)
}

func TestErrorWithPrecision(t *testing.T) {
	lngErr, latErr, err := ErrorWithPrecision(25)
	assert.Nil(t, err)
	assert.Equal(t, 0.0439453125, lngErr)
	assert.Equal(t, 0.0439453125, latErr)

	lngErr, latErr, err = ErrorWithPrecision(5)
	assert.Nil(t, err)
	assert.Equal(t, 45.0, lngErr)
	assert.Equal(t, 45.0, latErr)

	// longitude carries the extra bit when the precision is odd
	lngErr, latErr, err = ErrorWithPrecision(1)
	assert.Nil(t, err)
	assert.Equal(t, 180.0, lngErr)
	assert.Equal(t, 180.0, latErr)

	lngErr, latErr, err = ErrorWithPrecision(2)
	assert.Nil(t, err)
	assert.Equal(t, 180.0, lngErr)
	assert.Equal(t, 90.0, latErr)
}

func TestBoundingBoxContainsPoint(t *testing.T) {
	rnd := rand.New(rand.NewSource(6))
	precisions := []int{1, 2, 5, 13, 25, 32, 44, 52, 63, 64}
	for i := 0; i < 2000; i++ {
		p := geometry.Point{
			Lng: rnd.Float64()*360 - 180,
			Lat: rnd.Float64()*180 - 90,
		}
		for _, precision := range precisions {
			hash, err := Encode(p, precision)
			assert.Nil(t, err)
			box, err := BoundingBox(hash, precision)
			assert.Nil(t, err)
			assert.True(t, box.Contains(p),
				"cell %v at precision %d does not contain %v", box, precision, p)
		}
	}
}

func TestDecodeIsInsideCell(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		p := geometry.Point{
			Lng: rnd.Float64()*360 - 180,
			Lat: rnd.Float64()*180 - 90,
		}
		hash, _ := Encode(p, 40)
		box, _ := BoundingBox(hash, 40)

		center, err := Decode(hash, 40, false)
		assert.Nil(t, err)
		assert.True(t, box.Contains(center))

		rounded, err := Decode(hash, 40, true)
		assert.Nil(t, err)
		assert.True(t, box.Contains(rounded))
	}
}

func TestBatchEncodeDecode(t *testing.T) {
	points := make([]geometry.Point, len(places))
	for i, v := range places {
		points[i] = v.Point
	}
	codes, err := EncodePoints(points, 64)
	assert.Nil(t, err)
	for i, v := range places {
		assert.Equal(t, v.hash, codes[i])
	}

	decoded, err := DecodePoints(codes, 64, false)
	assert.Nil(t, err)
	for i, v := range places {
		assert.InDelta(t, v.Lng, decoded[i].Lng, 1e-6)
		assert.InDelta(t, v.Lat, decoded[i].Lat, 1e-6)
	}
}

func TestParallelEncodeMatchesSerial(t *testing.T) {
	rnd := rand.New(rand.NewSource(8))
	points := make([]geometry.Point, 100001)
	for i := range points {
		points[i] = geometry.Point{
			Lng: rnd.Float64()*360 - 180,
			Lat: rnd.Float64()*180 - 90,
		}
	}
	serial, err := EncodePoints(points, 45)
	assert.Nil(t, err)

	for _, workers := range []int{0, 1, 3, 16} {
		parallel, err := EncodePointsParallel(points, 45, workers)
		assert.Nil(t, err)
		assert.Equal(t, serial, parallel, "with %d workers", workers)
	}

	empty, err := EncodePointsParallel(nil, 45, 4)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(empty))
}

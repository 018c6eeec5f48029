package geohash

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/youzan/ZanGeoIndex/geometry"
)

// errWithPrecision returns the cell extent in longitude and latitude
// degrees at the given precision. Longitude carries the extra bit when the
// precision is odd.
func errWithPrecision(precision int) (float64, float64) {
	latBits := precision >> 1
	lngBits := precision - latBits
	return 360 * geometry.Power2(-lngBits), 180 * geometry.Power2(-latBits)
}

// ErrorWithPrecision returns the cell width and height in degrees for codes
// of the given bit precision.
func ErrorWithPrecision(precision int) (lngErr float64, latErr float64, err error) {
	if err = checkPrecision(precision); err != nil {
		return 0, 0, err
	}
	lngErr, latErr = errWithPrecision(precision)
	return lngErr, latErr, nil
}

// Encode packs a point into an integer geohash carried by the low
// `precision` bits of the result. Coordinates outside the
// [-180, 180] x [-90, 90] domain saturate to the endpoint cell.
func Encode(point geometry.Point, precision int) (uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, err
	}
	return encode(point, precision), nil
}

func encode(point geometry.Point, precision int) uint64 {
	code := positionCodec(point.Lat, point.Lng)
	if precision != 64 {
		code >>= uint(64 - precision)
	}
	return code
}

// EncodePoints encodes a batch of points at a common precision.
func EncodePoints(points []geometry.Point, precision int) ([]uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	result := make([]uint64, len(points))
	for i, p := range points {
		result[i] = encode(p, precision)
	}
	return result, nil
}

// EncodePointsParallel is EncodePoints fanned out over worker goroutines.
// Each worker fills a disjoint sub-slice of the preallocated result, so the
// reduction is a single pass. workers <= 0 selects GOMAXPROCS.
func EncodePointsParallel(points []geometry.Point, precision int, workers int) ([]uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(points) {
		workers = len(points)
	}
	result := make([]uint64, len(points))
	if len(points) == 0 {
		return result, nil
	}
	var g errgroup.Group
	chunk := (len(points) + workers - 1) / workers
	for begin := 0; begin < len(points); begin += chunk {
		begin := begin
		end := begin + chunk
		if end > len(points) {
			end = len(points)
		}
		g.Go(func() error {
			for i := begin; i < end; i++ {
				result[i] = encode(points[i], precision)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// BoundingBox returns the cell encoded by the integer geohash at the
// given precision. The min corner is the south-west anchor of the cell.
func BoundingBox(code uint64, precision int) (geometry.Box, error) {
	if err := checkPrecision(precision); err != nil {
		return geometry.Box{}, err
	}
	return boundingBox(code, precision), nil
}

func boundingBox(code uint64, precision int) geometry.Box {
	full := code
	if precision != 64 {
		full <<= uint(64 - precision)
	}
	latU, lngU := positionSplit(full)
	lat := decodeRange(latU, latRange)
	lng := decodeRange(lngU, lngRange)
	lngErr, latErr := errWithPrecision(precision)
	return geometry.Box{
		Min: geometry.Point{Lng: lng, Lat: lat},
		Max: geometry.Point{Lng: lng + lngErr, Lat: lat + latErr},
	}
}

// Decode unpacks a code back to a point: the cell center, or with round
// set, the deterministic rounded representative of the cell.
func Decode(code uint64, precision int, round bool) (geometry.Point, error) {
	if err := checkPrecision(precision); err != nil {
		return geometry.Point{}, err
	}
	return decode(code, precision, round), nil
}

func decode(code uint64, precision int, round bool) geometry.Point {
	bbox := boundingBox(code, precision)
	if round {
		return bbox.Round()
	}
	return bbox.Center()
}

// DecodePoints decodes a batch of codes sharing one precision.
func DecodePoints(codes []uint64, precision int, round bool) ([]geometry.Point, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	result := make([]geometry.Point, len(codes))
	for i, code := range codes {
		result[i] = decode(code, precision, round)
	}
	return result, nil
}

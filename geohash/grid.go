package geohash

import (
	"math"

	"github.com/youzan/ZanGeoIndex/geometry"
)

// Neighbors returns the eight codes around a code, clockwise from north:
// N, NE, E, SE, S, SW, W, NW.
//
//	7 0 1
//	6 x 2
//	5 4 3
//
// Each neighbor is the code of the cell center shifted by one cell extent.
// At the poles and the antimeridian the shifted point saturates, so a
// neighbor can coincide with the code itself or with another neighbor.
func Neighbors(code uint64, precision int) ([]uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	return neighbors(code, precision), nil
}

func neighbors(code uint64, precision int) []uint64 {
	box := boundingBox(code, precision)
	center := box.Center()
	lngDelta, latDelta := box.Delta(false)

	return []uint64{
		// N
		encode(geometry.Point{Lng: center.Lng, Lat: center.Lat + latDelta}, precision),
		// NE
		encode(geometry.Point{Lng: center.Lng + lngDelta, Lat: center.Lat + latDelta}, precision),
		// E
		encode(geometry.Point{Lng: center.Lng + lngDelta, Lat: center.Lat}, precision),
		// SE
		encode(geometry.Point{Lng: center.Lng + lngDelta, Lat: center.Lat - latDelta}, precision),
		// S
		encode(geometry.Point{Lng: center.Lng, Lat: center.Lat - latDelta}, precision),
		// SW
		encode(geometry.Point{Lng: center.Lng - lngDelta, Lat: center.Lat - latDelta}, precision),
		// W
		encode(geometry.Point{Lng: center.Lng - lngDelta, Lat: center.Lat}, precision),
		// NW
		encode(geometry.Point{Lng: center.Lng - lngDelta, Lat: center.Lat + latDelta}, precision),
	}
}

// GridProperties returns the grid covering the box at the given precision:
// the code of the south-west anchor cell and the number of cells in
// longitude and latitude.
func GridProperties(box geometry.Box, precision int) (uint64, int, int, error) {
	if err := checkPrecision(precision); err != nil {
		return 0, 0, 0, err
	}
	if !box.Valid() {
		return 0, 0, 0, ErrInvalidBox
	}
	anchor, lngCount, latCount := gridProperties(box, precision)
	return anchor, lngCount, latCount, nil
}

func gridProperties(box geometry.Box, precision int) (uint64, int, int) {
	anchor := encode(box.Min, precision)
	boxSW := boundingBox(anchor, precision)
	boxNE := boundingBox(encode(box.Max, precision), precision)

	lngErr, latErr := errWithPrecision(precision)
	lngCount := int(math.Round((boxNE.Min.Lng - boxSW.Min.Lng) / lngErr))
	latCount := int(math.Round((boxNE.Min.Lat - boxSW.Min.Lat) / latErr))

	return anchor, lngCount + 1, latCount + 1
}

// BoundingBoxes enumerates the code of every cell intersecting the box at
// the given precision. A nil box denotes the whole earth; a wrapped box is
// split at the antimeridian and both halves are enumerated in turn. Within
// a half, cells are emitted south to north in the outer loop and west to
// east in the inner one.
func BoundingBoxes(box *geometry.Box, precision int) ([]uint64, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	area := geometry.WholeEarth()
	if box != nil {
		area = *box
	}
	if !area.Valid() {
		return nil, ErrInvalidBox
	}

	halves := area.Split()
	size := 0
	for _, half := range halves {
		_, lngCount, latCount := gridProperties(half, precision)
		size += lngCount * latCount
	}

	lngErr, latErr := errWithPrecision(precision)
	result := make([]uint64, 0, size)

	for _, half := range halves {
		anchor, lngCount, latCount := gridProperties(half, precision)
		pointSW := decode(anchor, precision, true)

		for lat := 0; lat < latCount; lat++ {
			latShift := float64(lat) * latErr
			for lng := 0; lng < lngCount; lng++ {
				lngShift := float64(lng) * lngErr
				result = append(result, encode(geometry.Point{
					Lng: pointSW.Lng + lngShift,
					Lat: pointSW.Lat + latShift,
				}, precision))
			}
		}
	}
	return result, nil
}

// BoundingBoxesPolygon enumerates the codes covering the axis-aligned
// envelope of the polygon. The polygon interior test is left to the
// caller, which filters the returned codes.
func BoundingBoxesPolygon(polygon geometry.Polygon, precision int) ([]uint64, error) {
	env := polygon.Envelope()
	return BoundingBoxes(&env, precision)
}

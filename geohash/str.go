package geohash

import (
	"github.com/youzan/ZanGeoIndex/geometry"
)

// The textual form is a thin composition of the integer codec and the
// base-32 alphabet: a code of n characters is the integer code at
// precision 5*n.

// EncodeString packs a point into a textual geohash of the given length.
func EncodeString(point geometry.Point, chars int) (string, error) {
	if err := checkChars(chars); err != nil {
		return "", err
	}
	buf := make([]byte, chars)
	base32Encode(encode(point, 5*chars), buf)
	return string(buf), nil
}

// EncodeStrings encodes a batch of points at a common character length.
func EncodeStrings(points []geometry.Point, chars int) ([]string, error) {
	if err := checkChars(chars); err != nil {
		return nil, err
	}
	result := make([]string, len(points))
	buf := make([]byte, chars)
	for i, p := range points {
		base32Encode(encode(p, 5*chars), buf)
		result[i] = string(buf)
	}
	return result, nil
}

// decodeString validates and unpacks a textual geohash to its raw integer
// code and character count.
func decodeString(hash string) (uint64, int, error) {
	buf := []byte(hash)
	if !Validate(buf) {
		return 0, 0, ErrInvalidAlphabet
	}
	code, chars := base32Decode(buf)
	if err := checkChars(chars); err != nil {
		return 0, 0, err
	}
	return code, chars, nil
}

// BoundingBoxString returns the cell encoded by a textual geohash.
func BoundingBoxString(hash string) (geometry.Box, error) {
	code, chars, err := decodeString(hash)
	if err != nil {
		return geometry.Box{}, err
	}
	return boundingBox(code, 5*chars), nil
}

// DecodeString unpacks a textual geohash to a point: the cell center or,
// with round set, the rounded representative of the cell.
func DecodeString(hash string, round bool) (geometry.Point, error) {
	code, chars, err := decodeString(hash)
	if err != nil {
		return geometry.Point{}, err
	}
	return decode(code, 5*chars, round), nil
}

// DecodeStrings decodes a batch of textual geohashes. The codes may have
// different lengths.
func DecodeStrings(hashs []string, round bool) ([]geometry.Point, error) {
	result := make([]geometry.Point, len(hashs))
	for i, hash := range hashs {
		point, err := DecodeString(hash, round)
		if err != nil {
			return nil, err
		}
		result[i] = point
	}
	return result, nil
}

// NeighborsString returns the eight textual neighbors of a code, clockwise
// from north, at the code's own length.
func NeighborsString(hash string) ([]string, error) {
	code, chars, err := decodeString(hash)
	if err != nil {
		return nil, err
	}
	codes := neighbors(code, 5*chars)
	result := make([]string, len(codes))
	buf := make([]byte, chars)
	for i, c := range codes {
		base32Encode(c, buf)
		result[i] = string(buf)
	}
	return result, nil
}

// BoundingBoxesString enumerates the textual codes of every cell
// intersecting the box, in the same order as BoundingBoxes. A nil box
// denotes the whole earth.
func BoundingBoxesString(box *geometry.Box, chars int) ([]string, error) {
	if err := checkChars(chars); err != nil {
		return nil, err
	}
	codes, err := BoundingBoxes(box, 5*chars)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(codes))
	buf := make([]byte, chars)
	for i, c := range codes {
		base32Encode(c, buf)
		result[i] = string(buf)
	}
	return result, nil
}

// BoundingBoxesPolygonString enumerates the textual codes covering the
// axis-aligned envelope of the polygon.
func BoundingBoxesPolygonString(polygon geometry.Polygon, chars int) ([]string, error) {
	env := polygon.Envelope()
	return BoundingBoxesString(&env, chars)
}

// WhereString groups a two dimensional array of textual codes into index
// rectangles, with the same connectivity semantics as Where.
func WhereString(codes [][]string) (map[string]CellExtent, error) {
	rows := len(codes)
	result := make(map[string]CellExtent)
	if rows == 0 {
		return result, nil
	}
	cols := len(codes[0])
	for _, row := range codes {
		if len(row) != cols {
			return nil, ErrRaggedRows
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			current := codes[i][j]
			extent, ok := result[current]
			if !ok {
				result[current] = CellExtent{MinRow: i, MaxRow: i, MinCol: j, MaxCol: j}
				continue
			}
			for k := 0; k < 8; k++ {
				ni := i + shiftRow[k]
				nj := j + shiftCol[k]
				if ni >= 0 && ni < rows && nj >= 0 && nj < cols && codes[ni][nj] == current {
					extent.extend(ni, nj)
				}
			}
			result[current] = extent
		}
	}
	return result, nil
}

package geometry

import "math"

// Point is a geographic position on the WGS84 ellipsoid, in degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Box is the area described by two corner points. If the longitude of the
// min corner is greater than the longitude of the max corner, the box wraps
// around the antimeridian and denotes the union of the two halves on either
// side of it.
type Box struct {
	Min Point
	Max Point
}

// WholeEarth returns the box covering the full longitude/latitude domain.
func WholeEarth() Box {
	return Box{Min: Point{Lng: -180, Lat: -90}, Max: Point{Lng: 180, Lat: 90}}
}

// Valid reports whether the corner latitudes are ordered. Longitude is not
// checked: a min longitude greater than the max one denotes a wrapped box.
func (b Box) Valid() bool {
	return b.Min.Lat <= b.Max.Lat
}

// Center returns the arithmetic mean of the two corners.
func (b Box) Center() Point {
	return Point{
		Lng: (b.Min.Lng + b.Max.Lng) * 0.5,
		Lat: (b.Min.Lat + b.Max.Lat) * 0.5,
	}
}

// Delta returns the box extent in longitude and latitude. With round set,
// each extent is replaced by the largest power of 10 not exceeding it.
func (b Box) Delta(round bool) (float64, float64) {
	x := b.Max.Lng - b.Min.Lng
	y := b.Max.Lat - b.Min.Lat
	if round {
		x = maxDecimalPower(x)
		y = maxDecimalPower(y)
	}
	return x, y
}

// Round returns a point inside the box with each coordinate rounded up to
// the nearest multiple of the rounded delta. The result is a deterministic
// representative coordinate for display, not the center.
func (b Box) Round() Point {
	x, y := b.Delta(true)
	return Point{
		Lng: math.Ceil(b.Min.Lng/x) * x,
		Lat: math.Ceil(b.Min.Lat/y) * y,
	}
}

// Contains reports whether the point lies within the box. A wrapped box
// contains the point if either half does.
func (b Box) Contains(p Point) bool {
	if b.Min.Lng > b.Max.Lng {
		for _, half := range b.Split() {
			if half.Contains(p) {
				return true
			}
		}
		return false
	}
	return b.Min.Lat <= p.Lat && p.Lat <= b.Max.Lat &&
		b.Min.Lng <= p.Lng && p.Lng <= b.Max.Lng
}

// Split returns the box itself, or the two boxes on either side of the
// antimeridian when the box wraps around it.
func (b Box) Split() []Box {
	if b.Min.Lng > b.Max.Lng {
		return []Box{
			{Min: b.Min, Max: Point{Lng: 180, Lat: b.Max.Lat}},
			{Min: Point{Lng: -180, Lat: b.Min.Lat}, Max: b.Max},
		}
	}
	return []Box{b}
}

// Polygon is a ring of points. Only the axis-aligned envelope is needed
// here; interior tests are left to the caller.
type Polygon []Point

// Envelope returns the axis-aligned bounding box of the ring.
func (pg Polygon) Envelope() Box {
	if len(pg) == 0 {
		return Box{}
	}
	env := Box{Min: pg[0], Max: pg[0]}
	for _, p := range pg[1:] {
		env.Min.Lng = math.Min(env.Min.Lng, p.Lng)
		env.Min.Lat = math.Min(env.Min.Lat, p.Lat)
		env.Max.Lng = math.Max(env.Max.Lng, p.Lng)
		env.Max.Lat = math.Max(env.Max.Lat, p.Lat)
	}
	return env
}

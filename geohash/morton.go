package geohash

import (
	"math"

	"github.com/klauspost/cpuid/v2"
)

// Morton interleaving primitives for the integer codec. Longitude bits
// occupy the odd bit levels of a code and latitude bits the even ones.
//
// Masks from https://graphics.stanford.edu/~seander/bithacks.html#InterleaveBMN

const (
	lngRange = 180.0
	latRange = 90.0

	exp232    = 4294967296.0 // 2^32
	invExp232 = 1.0 / exp232
)

// spread interleaves zero bits between the bits of x, so bit i of x lands
// at bit 2i of the result.
func spread(x uint32) uint64 {
	r := uint64(x)
	r = (r | r<<16) & 0x0000FFFF0000FFFF
	r = (r | r<<8) & 0x00FF00FF00FF00FF
	r = (r | r<<4) & 0x0F0F0F0F0F0F0F0F
	r = (r | r<<2) & 0x3333333333333333
	r = (r | r<<1) & 0x5555555555555555
	return r
}

// squash gathers the even bit levels of x into a 32-bit word. The odd bit
// levels are ignored and may hold any value.
func squash(x uint64) uint32 {
	x &= 0x5555555555555555
	x = (x | x>>1) & 0x3333333333333333
	x = (x | x>>2) & 0x0F0F0F0F0F0F0F0F
	x = (x | x>>4) & 0x00FF00FF00FF00FF
	x = (x | x>>8) & 0x0000FFFF0000FFFF
	x = (x | x>>16) & 0x00000000FFFFFFFF
	return uint32(x)
}

// interleave merges x and y so that x occupies the even bit levels of the
// result and y the odd ones.
func interleave(x, y uint32) uint64 {
	return spread(x) | spread(y)<<1
}

// deinterleave splits a 64-bit word into its even and odd bit levels.
func deinterleave(v uint64) (uint32, uint32) {
	return squash(v), squash(v >> 1)
}

// encodeRange maps v within [-r, r] to a 32-bit integer. Values at or
// beyond either endpoint saturate to the endpoint cell.
func encodeRange(v, r float64) uint32 {
	if v >= r {
		return math.MaxUint32
	}
	if v <= -r {
		return 0
	}
	p := (v + r) / (2 * r)
	return uint32(p * exp232)
}

// decodeRange is the inverse of encodeRange, returning the south/west edge
// of the interval the 32-bit value denotes.
func decodeRange(u uint32, r float64) float64 {
	if u == math.MaxUint32 {
		return r
	}
	p := float64(u) * invExp232
	return 2*r*p - r
}

// encodePosition packs a position into a full 64-bit code with the generic
// interleave chain.
func encodePosition(lat, lng float64) uint64 {
	return interleave(encodeRange(lat, latRange), encodeRange(lng, lngRange))
}

// encodePositionFast is the dispatch target used when the CPU reports BMI2.
// It deposits each quantized coordinate separately, the way a PDEP pair
// would, and combines longitude into the odd bit levels. Go has no
// pdep/pext intrinsics, so the deposit itself is the spread chain. Both
// paths must share encodeRange: a mantissa-shift quantizer rounds where
// encodeRange truncates, and the two drift apart roughly once per few
// million samples.
func encodePositionFast(lat, lng float64) uint64 {
	y := spread(encodeRange(lat, latRange))
	x := spread(encodeRange(lng, lngRange))
	return x<<1 | y
}

// splitPosition recovers the quantized latitude (even levels) and longitude
// (odd levels) of a full 64-bit code.
func splitPosition(v uint64) (uint32, uint32) {
	return deinterleave(v)
}

// splitPositionFast extracts the way a PEXT pair would: latitude through
// mask 0x5555..., longitude through mask 0xAAAA... .
func splitPositionFast(v uint64) (uint32, uint32) {
	return squash(v), squash(v >> 1)
}

// The encoder pair is picked once at initialization and is read-only
// afterwards.
var (
	hasBMI2       = cpuid.CPU.Has(cpuid.BMI2)
	positionCodec func(lat, lng float64) uint64
	positionSplit func(v uint64) (uint32, uint32)
)

func init() {
	if hasBMI2 {
		positionCodec = encodePositionFast
		positionSplit = splitPositionFast
	} else {
		positionCodec = encodePosition
		positionSplit = splitPosition
	}
}

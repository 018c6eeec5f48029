package geohash

// The standard geohash alphabet: 32 symbols, no 'a', 'i', 'l' or 'o'.
var geoalphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

const invalidChar = 0xFF

var base32decode [256]byte

func init() {
	for i := range base32decode {
		base32decode[i] = invalidChar
	}
	for i := 0; i < len(geoalphabet); i++ {
		base32decode[geoalphabet[i]] = byte(i)
	}
}

// Validate reports whether every byte of buf, up to a NUL terminator or the
// end of the buffer, belongs to the geohash alphabet.
func Validate(buf []byte) bool {
	for _, b := range buf {
		if b == 0 {
			break
		}
		if base32decode[b] == invalidChar {
			return false
		}
	}
	return true
}

// base32Decode accumulates 5 bits per character, big-endian, stopping at a
// NUL or the end of the buffer. It returns the raw code, not shifted to the
// high bits, and the number of characters consumed. Bytes are not
// validated; callers check with Validate first.
func base32Decode(buf []byte) (uint64, int) {
	var code uint64
	n := 0
	for ; n < len(buf) && buf[n] != 0; n++ {
		code = code<<5 | uint64(base32decode[buf[n]])
	}
	return code, n
}

// base32Encode fills buf with the characters of the low 5*len(buf) bits of
// code, most significant character first. code must already be the
// MSB-packed representation at that precision (right-shifted, not
// left-aligned).
func base32Encode(code uint64, buf []byte) {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = geoalphabet[code&0x1F]
		code >>= 5
	}
}

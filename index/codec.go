package index

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// Stored values are lists of opaque payloads, encoded as a sequence of
// uvarint-length-prefixed byte strings, optionally run through a
// compressor.

var ErrCorruptValue = errors.New("corrupt value list")

// Compressor compresses encoded value lists before they reach the store.
type Compressor interface {
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// SnappyCompressor is the default block compressor.
type SnappyCompressor struct {
}

func (SnappyCompressor) Name() string {
	return "snappy"
}

func (SnappyCompressor) Encode(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (SnappyCompressor) Decode(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}

// GetCompressor maps a stored compressor name back to an implementation.
// The empty name means no compression.
func GetCompressor(name string) (Compressor, error) {
	switch name {
	case "":
		return nil, nil
	case "snappy":
		return SnappyCompressor{}, nil
	}
	return nil, fmt.Errorf("unknown compressor: %q", name)
}

func encodeValues(values [][]byte, compressor Compressor) ([]byte, error) {
	size := 0
	for _, v := range values {
		size += binary.MaxVarintLen64 + len(v)
	}
	buf := make([]byte, 0, size)
	var lbuf [binary.MaxVarintLen64]byte
	for _, v := range values {
		n := binary.PutUvarint(lbuf[:], uint64(len(v)))
		buf = append(buf, lbuf[:n]...)
		buf = append(buf, v...)
	}
	if compressor != nil {
		return compressor.Encode(buf)
	}
	return buf, nil
}

func decodeValues(buf []byte, compressor Compressor) ([][]byte, error) {
	if compressor != nil {
		var err error
		buf, err = compressor.Decode(buf)
		if err != nil {
			return nil, err
		}
	}
	var values [][]byte
	for len(buf) > 0 {
		l, n := binary.Uvarint(buf)
		if n <= 0 || uint64(len(buf)-n) < l {
			return nil, ErrCorruptValue
		}
		values = append(values, buf[n:n+int(l)])
		buf = buf[n+int(l):]
	}
	return values, nil
}

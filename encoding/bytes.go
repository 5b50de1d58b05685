package encoding

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/memcodec/errs"
)

const (
	// ChunkSize is the number of data bytes per chunk.
	ChunkSize = 8
	// ContinuationMarker follows a full chunk that has more data after it.
	ContinuationMarker byte = 0xFF

	chunkUnitSize = ChunkSize + 1
)

var zeroChunk [ChunkSize]byte

// EncodedLen returns the encoded size of an n-byte string.
func EncodedLen(n int) int {
	return (n/ChunkSize + 1) * chunkUnitSize
}

// AppendBytes appends the chunked encoding of v.
func AppendBytes(dst []byte, v []byte) []byte {
	return appendChunked(dst, v)
}

// AppendString appends the chunked encoding of s.
func AppendString(dst []byte, s string) []byte {
	return appendChunked(dst, s)
}

func appendChunked[S ~string | ~[]byte](dst []byte, v S) []byte {
	if need := EncodedLen(len(v)); cap(dst)-len(dst) < need {
		grown := make([]byte, len(dst), len(dst)+need)
		copy(grown, dst)
		dst = grown
	}

	for len(v) >= ChunkSize {
		dst = append(dst, v[:ChunkSize]...)
		dst = append(dst, ContinuationMarker)
		v = v[ChunkSize:]
	}

	dst = append(dst, v...)
	dst = append(dst, zeroChunk[:ChunkSize-len(v)]...)

	return append(dst, byte(len(v)))
}

// ReadBytes decodes a chunked byte string into a newly allocated slice.
// An empty string decodes to a non-nil empty slice.
func (c *Cursor) ReadBytes() ([]byte, error) {
	out, _, err := c.scanChunks(make([]byte, 0, ChunkSize), true, false)
	return out, err
}

// AppendReadBytes decodes a chunked byte string and appends it to dst.
func (c *Cursor) AppendReadBytes(dst []byte) ([]byte, error) {
	out, _, err := c.scanChunks(dst, true, false)
	return out, err
}

// ReadString decodes a chunked string and validates it as UTF-8.
func (c *Cursor) ReadString() (string, error) {
	start := c.pos
	b, _, err := c.scanChunks(make([]byte, 0, ChunkSize), true, false)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string at offset %d", errs.ErrInvalidUTF8, start)
	}

	return string(b), nil
}

// SkipBytes skips a chunked byte string and returns its decoded length.
func (c *Cursor) SkipBytes() (int, error) {
	_, n, err := c.scanChunks(nil, false, false)
	return n, err
}

// scanChunks consumes one chunked string. With keep set, the payload is
// appended to out. With inverted set, every byte is complemented before it is
// interpreted, which is how descending digit strings are stored.
func (c *Cursor) scanChunks(out []byte, keep bool, inverted bool) ([]byte, int, error) {
	total := 0
	var chunk [chunkUnitSize]byte

	for {
		raw, err := c.Next(chunkUnitSize)
		if err != nil {
			return nil, 0, err
		}
		copy(chunk[:], raw)
		if inverted {
			Invert(chunk[:])
		}

		marker := chunk[ChunkSize]
		if marker == ContinuationMarker {
			if keep {
				out = append(out, chunk[:ChunkSize]...)
			}
			total += ChunkSize

			if !c.HasRemaining() {
				return nil, 0, c.invalid("continuation chunk at end of input")
			}

			continue
		}

		if marker >= ChunkSize {
			c.pos -= chunkUnitSize
			return nil, 0, c.invalid("chunk marker 0x%02x", marker)
		}

		n := int(marker)
		for _, b := range chunk[n:ChunkSize] {
			if b != 0 {
				c.pos -= chunkUnitSize
				return nil, 0, c.invalid("non-zero padding in final chunk")
			}
		}

		if keep {
			out = append(out, chunk[:n]...)
		}

		return out, total + n, nil
	}
}

// Invert complements every byte of b in place. Applying it to a complete
// encoding reverses the encoding's sort order; applying it twice restores it.
func Invert(b []byte) {
	for i := range b {
		b[i] = ^b[i]
	}
}

package memcodec

import (
	"fmt"

	"github.com/arloliu/memcodec/encoding"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/internal/options"
	"github.com/arloliu/memcodec/internal/pool"
	"github.com/arloliu/memcodec/shape"
)

// Encode returns the memcomparable encoding of v, which must match shape s.
//
// See the package documentation for the Go value expected by each kind.
// A value that does not fit its shape fails with errs.ErrShapeMismatch and a
// malformed shape with errs.ErrInvalidShape.
func Encode(v any, s *shape.Shape) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	buf := pool.GetKeyBuffer()
	defer pool.PutKeyBuffer(buf)

	var err error
	if buf.B, err = appendValue(buf.B, v, s); err != nil {
		return nil, err
	}

	return buf.Clone(), nil
}

// AppendEncode appends the encoding of v to dst and returns the extended
// slice. On error dst is returned with its original length.
func AppendEncode(dst []byte, v any, s *shape.Shape) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return dst, err
	}

	n := len(dst)
	out, err := appendValue(dst, v, s)
	if err != nil {
		return out[:n], err
	}

	return out, nil
}

type decodeConfig struct {
	allowTrailing bool
}

// DecodeOption configures Decode and Unmarshal.
type DecodeOption = options.Option[*decodeConfig]

// WithAllowTrailing lets Decode succeed when input remains after the value.
// By default trailing bytes fail with errs.ErrTrailingBytes.
func WithAllowTrailing() DecodeOption {
	return options.NoError(func(cfg *decodeConfig) {
		cfg.allowTrailing = true
	})
}

func newDecodeConfig(opts []DecodeOption) (*decodeConfig, error) {
	cfg := &decodeConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Decode decodes one value of shape s from b.
//
// The result uses the Go types listed in the package documentation. Any
// failure aborts decoding and no partial value is returned.
func Decode(b []byte, s *shape.Shape, opts ...DecodeOption) (any, error) {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return nil, err
	}

	d := NewDecoder(b)
	v, err := d.Decode(s)
	if err != nil {
		return nil, err
	}
	if !cfg.allowTrailing {
		if err := d.Finish(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Encoder appends a sequence of values to a pooled buffer. Encoding several
// values one after another produces the same bytes as encoding them as one
// record.
//
// Note: An Encoder is NOT thread-safe. Each encoder should be used by a single goroutine.
type Encoder struct {
	buf *pool.ByteBuffer
}

// NewEncoder creates an Encoder. Call Release when done with it.
func NewEncoder() *Encoder {
	return &Encoder{buf: pool.GetKeyBuffer()}
}

// Encode appends the encoding of v. If encoding fails the buffer is left as
// it was before the call.
func (e *Encoder) Encode(v any, s *shape.Shape) error {
	if err := s.Validate(); err != nil {
		return err
	}

	n := e.buf.Len()
	out, err := appendValue(e.buf.B, v, s)
	if err != nil {
		e.buf.B = out
		e.buf.Truncate(n)

		return err
	}
	e.buf.B = out

	return nil
}

// Bytes returns the encoded bytes. The slice aliases the encoder's buffer and
// is only valid until the next Encode, Reset or Release.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Clone returns a copy of the encoded bytes.
func (e *Encoder) Clone() []byte {
	return e.buf.Clone()
}

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int {
	return e.buf.Len()
}

// Reset discards the encoded bytes.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// Release returns the buffer to the pool. The encoder must not be used
// afterwards.
func (e *Encoder) Release() {
	pool.PutKeyBuffer(e.buf)
	e.buf = nil
}

// Decoder reads a sequence of values from a byte slice.
//
// Note: A Decoder is NOT thread-safe. Each decoder should be used by a single goroutine.
type Decoder struct {
	cur encoding.Cursor
}

// NewDecoder creates a Decoder over b. The decoder does not copy b.
func NewDecoder(b []byte) *Decoder {
	d := &Decoder{}
	d.cur.Reset(b)

	return d
}

// Decode decodes the next value. On error the decoder position is unchanged.
func (d *Decoder) Decode(s *shape.Shape) (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	start := d.cur.Position()
	v, err := readValue(&d.cur, s)
	if err != nil {
		d.cur.Rewind(start)
		return nil, err
	}

	return v, nil
}

// Skip advances past the next value without materializing it. Byte strings
// and strings are skipped without UTF-8 validation.
func (d *Decoder) Skip(s *shape.Shape) error {
	if err := s.Validate(); err != nil {
		return err
	}

	start := d.cur.Position()
	if err := skipValue(&d.cur, s); err != nil {
		d.cur.Rewind(start)
		return err
	}

	return nil
}

// Position returns the number of bytes consumed so far.
func (d *Decoder) Position() int {
	return d.cur.Position()
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.cur.Remaining()
}

// Finish reports errs.ErrTrailingBytes if unread bytes remain.
func (d *Decoder) Finish() error {
	if n := d.cur.Remaining(); n > 0 {
		return fmt.Errorf("%w: %d bytes after offset %d", errs.ErrTrailingBytes, n, d.cur.Position())
	}

	return nil
}

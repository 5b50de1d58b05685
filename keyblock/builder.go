package keyblock

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/memcodec"
	"github.com/arloliu/memcodec/compress"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/internal/hash"
	"github.com/arloliu/memcodec/internal/pool"
	"github.com/arloliu/memcodec/shape"
)

// Builder accumulates ascending keys and serializes them as a key block.
//
// A Builder can be reused after Finish. Call Release when done with it to
// return its buffers to the pool.
type Builder struct {
	compression compress.Codec
	schema      *shape.Shape
	logger      *slog.Logger

	payload *pool.ByteBuffer
	last    []byte
	count   int
}

// NewBuilder creates a Builder configured by opts.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	return &Builder{
		compression: codec,
		schema:      cfg.schema,
		logger:      cfg.logger,
		payload:     pool.GetBlockBuffer(),
	}, nil
}

// Add appends key, which must sort strictly after the previously added key.
// The key is copied.
func (b *Builder) Add(key []byte) error {
	if b.count > 0 && bytes.Compare(key, b.last) <= 0 {
		return fmt.Errorf("%w: key %d does not sort after key %d", errs.ErrKeyOrder, b.count, b.count-1)
	}
	if uint64(b.count) == math.MaxUint32 {
		return fmt.Errorf("%w: key block holds at most %d keys", errs.ErrOverflow, uint32(math.MaxUint32))
	}

	shared := sharedPrefixLen(b.last, key)
	suffix := key[shared:]

	b.payload.B = binary.AppendUvarint(b.payload.B, uint64(shared))
	b.payload.B = binary.AppendUvarint(b.payload.B, uint64(len(suffix)))
	b.payload.B = append(b.payload.B, suffix...)

	b.last = append(b.last[:0], key...)
	b.count++

	return nil
}

// AddValue encodes v with shape s and adds the resulting key. When the
// builder has a schema, s must equal it.
func (b *Builder) AddValue(v any, s *shape.Shape) error {
	if b.schema != nil && !b.schema.Equal(s) {
		return fmt.Errorf("%w: value shape %s differs from block schema %s", errs.ErrShapeMismatch, s, b.schema)
	}

	buf := pool.GetKeyBuffer()
	defer pool.PutKeyBuffer(buf)

	key, err := memcodec.AppendEncode(buf.B, v, s)
	if err != nil {
		return err
	}
	buf.B = key

	return b.Add(key)
}

// Len returns the number of keys added since the last Finish.
func (b *Builder) Len() int {
	return b.count
}

// Finish serializes the added keys and resets the builder.
func (b *Builder) Finish() ([]byte, error) {
	if b.count == 0 {
		return nil, errs.ErrNoKeysAdded
	}

	raw := b.payload.Bytes()
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the block limit", errs.ErrOverflow, len(raw))
	}

	var schema []byte
	if b.schema != nil {
		var err error
		if schema, err = shape.MarshalCBOR(b.schema); err != nil {
			return nil, err
		}
	}

	compressed, err := b.compression.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress key block payload: %w", err)
	}

	h := NewHeader(b.compression.Type())
	h.KeyCount = uint32(b.count) //nolint:gosec
	h.RawSize = uint32(len(raw)) //nolint:gosec
	h.SchemaSize = uint32(len(schema))
	h.Checksum = hash.SumParts(schema, compressed)

	out := make([]byte, 0, HeaderSize+len(schema)+len(compressed))
	out = h.AppendTo(out)
	out = append(out, schema...)
	out = append(out, compressed...)

	b.logger.Debug("key block built",
		slog.Int("keys", b.count),
		slog.Int("raw_bytes", len(raw)),
		slog.Int("block_bytes", len(out)),
		slog.String("compression", h.Compression.String()),
	)

	b.Reset()

	return out, nil
}

// Reset discards the added keys.
func (b *Builder) Reset() {
	b.payload.Reset()
	b.last = b.last[:0]
	b.count = 0
}

// Release returns the builder's buffers to the pool. The builder must not be
// used afterwards.
func (b *Builder) Release() {
	if b.payload != nil {
		pool.PutBlockBuffer(b.payload)
		b.payload = nil
	}
	b.last = nil
	b.count = 0
}

func sharedPrefixLen(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}

	return n
}

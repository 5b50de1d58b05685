package keyblock

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"iter"
	"log/slog"
	"sort"

	"github.com/arloliu/memcodec"
	"github.com/arloliu/memcodec/compress"
	"github.com/arloliu/memcodec/errs"
	"github.com/arloliu/memcodec/internal/hash"
	"github.com/arloliu/memcodec/shape"
)

// Block is an opened key block. Keys are held in memory in ascending order.
type Block struct {
	header Header
	schema *shape.Shape
	keys   [][]byte
}

// Open validates and decodes a serialized key block.
//
// The header's magic number, version and compression type are checked, then
// the checksum over the rest of the block. The keys are materialized and must
// be strictly ascending. Open does not retain data.
func Open(data []byte, opts ...Option) (*Block, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if sum := hash.Sum(body); sum != h.Checksum {
		return nil, fmt.Errorf("%w: got 0x%016x, want 0x%016x", errs.ErrChecksumMismatch, sum, h.Checksum)
	}
	if uint64(h.SchemaSize) > uint64(len(body)) {
		return nil, fmt.Errorf("%w: schema section of %d bytes exceeds block body of %d", errs.ErrUnexpectedEnd, h.SchemaSize, len(body))
	}

	schema, err := resolveSchema(body[:h.SchemaSize], cfg.schema)
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(body[h.SchemaSize:], int(h.RawSize))
	if err != nil {
		return nil, fmt.Errorf("decompress key block payload: %w", err)
	}

	keys, err := decodeKeys(raw, h.KeyCount)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("key block opened",
		slog.Int("keys", len(keys)),
		slog.Int("block_bytes", len(data)),
		slog.String("compression", h.Compression.String()),
		slog.Bool("schema", schema != nil),
	)

	return &Block{header: h, schema: schema, keys: keys}, nil
}

func resolveSchema(section []byte, configured *shape.Shape) (*shape.Shape, error) {
	if len(section) == 0 {
		return configured, nil
	}

	embedded, err := shape.UnmarshalCBOR(section)
	if err != nil {
		return nil, err
	}
	if configured != nil && !configured.Equal(embedded) {
		return nil, fmt.Errorf("%w: block schema %s differs from %s", errs.ErrShapeMismatch, embedded, configured)
	}

	return embedded, nil
}

func decodeKeys(raw []byte, count uint32) ([][]byte, error) {
	// Every entry takes at least two bytes.
	if uint64(count) > uint64(len(raw))/2 {
		return nil, fmt.Errorf("%w: %d keys cannot fit in a %d byte payload", errs.ErrInvalidEncoding, count, len(raw))
	}

	keys := make([][]byte, 0, count)
	var prev []byte
	pos := 0
	for i := range int(count) {
		shared, n := binary.Uvarint(raw[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: key %d: bad shared prefix length", errs.ErrInvalidEncoding, i)
		}
		pos += n

		suffixLen, n := binary.Uvarint(raw[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: key %d: bad suffix length", errs.ErrInvalidEncoding, i)
		}
		pos += n

		if shared > uint64(len(prev)) {
			return nil, fmt.Errorf("%w: key %d shares %d bytes with a %d byte predecessor", errs.ErrInvalidEncoding, i, shared, len(prev))
		}
		if suffixLen > uint64(len(raw)-pos) {
			return nil, fmt.Errorf("%w: key %d: suffix of %d bytes", errs.ErrUnexpectedEnd, i, suffixLen)
		}

		key := make([]byte, int(shared)+int(suffixLen))
		copy(key, prev[:shared])
		copy(key[shared:], raw[pos:pos+int(suffixLen)])
		pos += int(suffixLen)

		if i > 0 && bytes.Compare(key, prev) <= 0 {
			return nil, fmt.Errorf("%w: key %d does not sort after key %d", errs.ErrKeyOrder, i, i-1)
		}

		keys = append(keys, key)
		prev = key
	}

	if pos != len(raw) {
		return nil, fmt.Errorf("%w: %d bytes after key %d", errs.ErrTrailingBytes, len(raw)-pos, count)
	}

	return keys, nil
}

// Header returns the block header.
func (b *Block) Header() Header {
	return b.header
}

// Len returns the number of keys.
func (b *Block) Len() int {
	return len(b.keys)
}

// Key returns the i-th key. The returned slice must not be modified.
func (b *Block) Key(i int) ([]byte, error) {
	if i < 0 || i >= len(b.keys) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errs.ErrKeyIndexOutOfRange, i, len(b.keys))
	}

	return b.keys[i], nil
}

// All iterates over the keys in ascending order with their indexes.
func (b *Block) All() iter.Seq2[int, []byte] {
	return b.scan(0, len(b.keys))
}

// Range iterates over keys k with lo <= k < hi. A nil hi means no upper
// bound.
func (b *Block) Range(lo, hi []byte) iter.Seq2[int, []byte] {
	end := len(b.keys)
	if hi != nil {
		end = b.Seek(hi)
	}

	return b.scan(b.Seek(lo), end)
}

// Prefix iterates over the keys starting with prefix. Since an encoded tuple
// prefix is a byte prefix of every key extending it, this selects all keys
// whose leading fields equal the encoded ones.
func (b *Block) Prefix(prefix []byte) iter.Seq2[int, []byte] {
	start := b.Seek(prefix)
	end := start + sort.Search(len(b.keys)-start, func(i int) bool {
		return !bytes.HasPrefix(b.keys[start+i], prefix)
	})

	return b.scan(start, end)
}

func (b *Block) scan(start, end int) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := start; i < end; i++ {
			if !yield(i, b.keys[i]) {
				return
			}
		}
	}
}

// Seek returns the index of the first key >= target, or Len() if there is
// none.
func (b *Block) Seek(target []byte) int {
	return sort.Search(len(b.keys), func(i int) bool {
		return bytes.Compare(b.keys[i], target) >= 0
	})
}

// Contains reports whether key is in the block.
func (b *Block) Contains(key []byte) bool {
	i := b.Seek(key)
	return i < len(b.keys) && bytes.Equal(b.keys[i], key)
}

// Schema returns the shape of the block's keys.
func (b *Block) Schema() (*shape.Shape, error) {
	if b.schema == nil {
		return nil, errs.ErrSchemaNotAvailable
	}

	return b.schema, nil
}

// Decode decodes the i-th key with the block schema.
func (b *Block) Decode(i int) (any, error) {
	s, err := b.Schema()
	if err != nil {
		return nil, err
	}
	key, err := b.Key(i)
	if err != nil {
		return nil, err
	}

	return memcodec.Decode(key, s)
}

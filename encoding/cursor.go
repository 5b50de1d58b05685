package encoding

import (
	"fmt"

	"github.com/arloliu/memcodec/errs"
)

// Cursor reads encoded elements from a byte slice.
//
// Note: A Cursor is NOT thread-safe. Each cursor should be used by a single goroutine.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data.
// The cursor does not copy data; the caller must not modify it while decoding.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Reset repositions the cursor at the start of data.
func (c *Cursor) Reset(data []byte) {
	c.data = data
	c.pos = 0
}

// Position returns the number of bytes consumed so far.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// HasRemaining reports whether unread bytes are left.
func (c *Cursor) HasRemaining() bool {
	return c.pos < len(c.data)
}

// Rest returns the unread bytes without consuming them.
func (c *Cursor) Rest() []byte {
	return c.data[c.pos:]
}

// Rewind moves the cursor back to an earlier position.
// Panics if pos is negative or past the current position.
func (c *Cursor) Rewind(pos int) {
	if pos < 0 || pos > c.pos {
		panic("Rewind: invalid position")
	}
	c.pos = pos
}

// Advance skips n bytes.
func (c *Cursor) Advance(n int) error {
	if n < 0 || n > c.Remaining() {
		return c.shortRead(n)
	}
	c.pos += n

	return nil
}

// Next consumes n bytes and returns them. The returned slice aliases the
// cursor's input. On error nothing is consumed.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, c.shortRead(n)
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadByte consumes a single byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, c.shortRead(1)
	}
	b := c.data[c.pos]
	c.pos++

	return b, nil
}

func (c *Cursor) shortRead(n int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrUnexpectedEnd, n, c.pos, c.Remaining())
}

func (c *Cursor) invalid(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", errs.ErrInvalidEncoding, c.pos, fmt.Sprintf(format, args...))
}

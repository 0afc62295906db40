package vm

import (
	"fmt"
	"math/big"
)

// Buffer is a mutable byte sequence (NEWBUFFER/MEMCPY's target type).
// Unlike ByteString, its contents can change in place. EQUAL compares two
// Buffers by byte content (see equality.go).
type Buffer struct {
	data []byte
	ref  *refHeader
}

// NewBuffer allocates a Buffer initialized with a copy of data.
func NewBuffer(data []byte) *Buffer {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Buffer{data: cp, ref: newRefHeader()}
}

// NewBufferOfSize allocates a zero-filled Buffer of the given length
// (NEWBUFFER's semantics).
func NewBufferOfSize(n int) *Buffer {
	return &Buffer{data: make([]byte, n), ref: newRefHeader()}
}

func (b *Buffer) Type() ItemType { return TypeBuffer }

// Boolean follows the same length!=0-and-not-all-zero rule as ByteString.
func (b *Buffer) Boolean() bool {
	if len(b.data) == 0 {
		return false
	}
	for _, v := range b.data {
		if v != 0 {
			return true
		}
	}
	return false
}

func (b *Buffer) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Buffer -> Integer (convert to ByteString first)", ErrInvalidType)
}

func (b *Buffer) Bytes() ([]byte, error) {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, nil
}

func (b *Buffer) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeBuffer:
		return b, nil
	case TypeBoolean:
		return Boolean(b.Boolean()), nil
	case TypeByteString:
		return NewByteString(b.data), nil
	case TypeInteger:
		v, err := IntegerFromBytesLE(b.data)
		if err != nil {
			return nil, err
		}
		return NewInteger(v, 32)
	default:
		return nil, fmt.Errorf("%w: Buffer -> %s", ErrInvalidType, t)
	}
}

func (b *Buffer) DeepCopy(asImmutable bool, refMap map[Item]Item) Item {
	if existing, ok := refMap[b]; ok {
		return existing
	}
	if asImmutable {
		return NewByteString(b.data)
	}
	cp := NewBuffer(b.data)
	refMap[b] = cp
	return cp
}

func (b *Buffer) String() string { return fmt.Sprintf("%x", b.data) }

// Set writes src into the buffer starting at offset, growing neither the
// buffer's length (callers bounds-check; see ops_splice.go's MEMCPY/SETITEM
// handling).
func (b *Buffer) Set(offset int, src []byte) {
	copy(b.data[offset:], src)
}

// Len returns the buffer's byte length.
func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) children() []Item      { return nil }
func (b *Buffer) refHeader() *refHeader { return b.ref }

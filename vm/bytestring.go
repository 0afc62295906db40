package vm

import (
	"bytes"
	"fmt"
	"math/big"
)

// ByteString is an immutable byte sequence.
type ByteString struct {
	data []byte
}

// NewByteString copies data into a new immutable ByteString.
func NewByteString(data []byte) *ByteString {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &ByteString{data: cp}
}

func (s *ByteString) Type() ItemType { return TypeByteString }

// Boolean is true unless the string is empty or every byte is zero. Both
// conditions matter: an empty ByteString is falsy (vacuously "all zero"
// would otherwise make it truthy), and a non-empty all-zero string is also
// falsy.
func (s *ByteString) Boolean() bool {
	if len(s.data) == 0 {
		return false
	}
	for _, b := range s.data {
		if b != 0 {
			return true
		}
	}
	return false
}

func (s *ByteString) Integer() (*big.Int, error) {
	v, err := IntegerFromBytesLE(s.data)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *ByteString) Bytes() ([]byte, error) {
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *ByteString) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeByteString:
		return s, nil
	case TypeBoolean:
		return Boolean(s.Boolean()), nil
	case TypeInteger:
		v, err := s.Integer()
		if err != nil {
			return nil, err
		}
		return NewInteger(v, 32)
	case TypeBuffer:
		return NewBuffer(s.data), nil
	default:
		return nil, fmt.Errorf("%w: ByteString -> %s", ErrInvalidType, t)
	}
}

func (s *ByteString) DeepCopy(asImmutable bool, refMap map[Item]Item) Item { return s }

func (s *ByteString) String() string { return fmt.Sprintf("%x", s.data) }

// Equal compares byte content directly; spec.md caps this at
// MaxComparableSize bytes per side before ByteString/Buffer EQUAL is
// allowed to run at all.
func (s *ByteString) Equal(other *ByteString) bool {
	return bytes.Equal(s.data, other.data)
}

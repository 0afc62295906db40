package vm

import (
	"fmt"
	"math/big"
)

// Null is the singleton Null item. Every Null value is interchangeable;
// there is exactly one instance, Null, used throughout the package.
type nullType struct{}

func (nullType) Type() ItemType { return TypeAny }

func (nullType) Boolean() bool { return false }

func (nullType) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: Null -> Integer", ErrInvalidType)
}

func (nullType) Bytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: Null -> ByteString", ErrInvalidType)
}

func (n nullType) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeAny:
		return n, nil
	default:
		return nil, fmt.Errorf("%w: Null -> %s", ErrInvalidType, t)
	}
}

func (n nullType) DeepCopy(asImmutable bool, refMap map[Item]Item) Item { return n }

func (nullType) String() string { return "Null" }

// Null is the shared Null value; compare items against it with ==.
var Null Item = nullType{}

// Boolean is a true/false item.
type Boolean bool

func (b Boolean) Type() ItemType { return TypeBoolean }

func (b Boolean) Boolean() bool { return bool(b) }

func (b Boolean) Integer() (*big.Int, error) {
	if b {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

func (b Boolean) Bytes() ([]byte, error) {
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (b Boolean) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeBoolean:
		return b, nil
	case TypeInteger:
		v, _ := b.Integer()
		return MustNewInteger(v), nil
	case TypeByteString:
		by, _ := b.Bytes()
		return NewByteString(by), nil
	case TypeBuffer:
		by, _ := b.Bytes()
		return NewBuffer(by), nil
	default:
		return nil, fmt.Errorf("%w: Boolean -> %s", ErrInvalidType, t)
	}
}

func (b Boolean) DeepCopy(asImmutable bool, refMap map[Item]Item) Item { return b }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

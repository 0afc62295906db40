package vm

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Integer is an arbitrary-precision signed integer, bounded at construction
// time to fit in MaxIntegerSize bytes (32, i.e. 256 bits) of two's
// complement encoding. Arithmetic handlers compute with math/big and only
// call NewInteger on the final result, so intermediate products can briefly
// exceed the bound without needing a wider type.
type Integer struct {
	value *big.Int
}

var (
	bigOne  = big.NewInt(1)
	int256Modulus = new(big.Int).Lsh(bigOne, 256)
	int255Max     = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
	int255Min     = new(big.Int).Neg(new(big.Int).Lsh(bigOne, 255))
)

// NewInteger constructs an Integer, validating it against the given
// maximum byte size (normally Limits.MaxIntegerSize). A value whose
// two's-complement encoding would need more bytes than that is rejected
// rather than silently truncated.
func NewInteger(value *big.Int, maxSize int) (*Integer, error) {
	if maxSize == 32 {
		if value.Cmp(int255Max) > 0 || value.Cmp(int255Min) < 0 {
			return nil, fmt.Errorf("%w: %d exceeds %d-byte range", ErrIntegerTooLarge, value, maxSize)
		}
	} else if byteLenTwosComplement(value) > maxSize {
		return nil, fmt.Errorf("%w: %d exceeds %d-byte range", ErrIntegerTooLarge, value, maxSize)
	}
	return &Integer{value: new(big.Int).Set(value)}, nil
}

// MustNewInteger is NewInteger with the default 32-byte bound, for
// constants derived from fixed-size PUSHINT8..PUSHINT256 operands, which
// are already bound-checked by construction (their encoding is at most 32
// bytes long).
func MustNewInteger(value *big.Int) *Integer {
	i, err := NewInteger(value, 32)
	if err != nil {
		// Unreachable for any value actually decoded from a
		// PUSHINT8..PUSHINT256 operand (at most 32 bytes wide).
		panic(err)
	}
	return i
}

// IntegerFromBytesLE decodes data as a little-endian two's-complement
// integer, using the uint256 fast path for the common in-range case.
func IntegerFromBytesLE(data []byte) (*big.Int, error) {
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	if len(data) > 32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrIntegerTooLarge, len(data))
	}

	negative := data[len(data)-1]&0x80 != 0

	var padded [32]byte
	copy(padded[:], data)
	if negative {
		for i := len(data); i < 32; i++ {
			padded[i] = 0xff
		}
	}

	var u uint256.Int
	u.SetBytes(reverseBytes(padded[:]))

	v := u.ToBig()
	if negative {
		v.Sub(v, int256Modulus)
	}
	return v, nil
}

// IntegerToBytesLE encodes value as a minimal-length little-endian
// two's-complement byte string: the shortest encoding whose sign bit
// matches the value's sign. The empty slice encodes zero.
func IntegerToBytesLE(value *big.Int) []byte {
	if value.Sign() == 0 {
		return nil
	}

	v := new(big.Int).Set(value)
	negative := v.Sign() < 0
	if negative {
		v.Add(v, int256Modulus)
	}

	var u uint256.Int
	u.SetFromBig(v)
	full := u.Bytes32() // big-endian, 32 bytes
	le := reverseBytes(full[:])

	n := 32
	for n > 1 {
		b := le[n-1]
		next := le[n-2]
		if negative {
			if b != 0xff || next&0x80 == 0 {
				break
			}
		} else {
			if b != 0x00 || next&0x80 != 0 {
				break
			}
		}
		n--
	}
	return le[:n]
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func byteLenTwosComplement(v *big.Int) int {
	if v.Sign() == 0 {
		return 0
	}
	return len(IntegerToBytesLE(v))
}

func (i *Integer) Type() ItemType { return TypeInteger }

func (i *Integer) Boolean() bool { return i.value.Sign() != 0 }

func (i *Integer) Integer() (*big.Int, error) { return new(big.Int).Set(i.value), nil }

func (i *Integer) Bytes() ([]byte, error) { return IntegerToBytesLE(i.value), nil }

func (i *Integer) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeInteger:
		return i, nil
	case TypeBoolean:
		return Boolean(i.Boolean()), nil
	case TypeByteString:
		return NewByteString(IntegerToBytesLE(i.value)), nil
	case TypeBuffer:
		return NewBuffer(IntegerToBytesLE(i.value)), nil
	default:
		return nil, fmt.Errorf("%w: Integer -> %s", ErrInvalidType, t)
	}
}

func (i *Integer) DeepCopy(asImmutable bool, refMap map[Item]Item) Item { return i }

func (i *Integer) String() string { return i.value.String() }

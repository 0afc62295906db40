package vm

import (
	"fmt"
	"math/big"
)

// InteropInterface wraps an opaque host-owned object. It supports only
// equality-by-identity and a type check; scripts cannot introspect or copy
// its payload.
type InteropInterface struct {
	Value any
}

// NewInteropInterface wraps value.
func NewInteropInterface(value any) *InteropInterface {
	return &InteropInterface{Value: value}
}

func (i *InteropInterface) Type() ItemType { return TypeInteropInterface }

func (i *InteropInterface) Boolean() bool { return true }

func (i *InteropInterface) Integer() (*big.Int, error) {
	return nil, fmt.Errorf("%w: InteropInterface -> Integer", ErrInvalidType)
}

func (i *InteropInterface) Bytes() ([]byte, error) {
	return nil, fmt.Errorf("%w: InteropInterface -> ByteString", ErrInvalidType)
}

func (i *InteropInterface) ConvertTo(t ItemType) (Item, error) {
	switch t {
	case TypeInteropInterface:
		return i, nil
	case TypeBoolean:
		return Boolean(true), nil
	default:
		return nil, fmt.Errorf("%w: InteropInterface -> %s", ErrInvalidType, t)
	}
}

func (i *InteropInterface) DeepCopy(asImmutable bool, refMap map[Item]Item) Item { return i }

func (i *InteropInterface) String() string { return fmt.Sprintf("InteropInterface(%T)", i.Value) }

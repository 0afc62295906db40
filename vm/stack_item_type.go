package vm

import "fmt"

// ItemType identifies the runtime kind of a stack item. The numeric values
// are part of the wire format (CONVERT, ISTYPE, and NEWARRAY_T all carry one
// as an instruction operand) and must not change.
type ItemType byte

const (
	TypeAny              ItemType = 0x00
	TypePointer          ItemType = 0x10
	TypeBoolean          ItemType = 0x20
	TypeInteger          ItemType = 0x21
	TypeByteString       ItemType = 0x28
	TypeBuffer           ItemType = 0x30
	TypeArray            ItemType = 0x40
	TypeStruct           ItemType = 0x41
	TypeMap              ItemType = 0x48
	TypeInteropInterface ItemType = 0x60
)

var itemTypeNames = map[ItemType]string{
	TypeAny:              "Any",
	TypePointer:          "Pointer",
	TypeBoolean:          "Boolean",
	TypeInteger:          "Integer",
	TypeByteString:       "ByteString",
	TypeBuffer:           "Buffer",
	TypeArray:            "Array",
	TypeStruct:           "Struct",
	TypeMap:              "Map",
	TypeInteropInterface: "InteropInterface",
}

// String returns the type's mnemonic name.
func (t ItemType) String() string {
	if name, ok := itemTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ItemType(0x%02x)", byte(t))
}

// IsValidItemType reports whether b names one of the ten defined item types.
func IsValidItemType(b byte) bool {
	_, ok := itemTypeNames[ItemType(b)]
	return ok
}

// IsPrimitive reports whether t is Boolean, Integer, or ByteString.
func (t ItemType) IsPrimitive() bool {
	return t == TypeBoolean || t == TypeInteger || t == TypeByteString
}

// IsCompound reports whether t is Array, Struct, or Map.
func (t ItemType) IsCompound() bool {
	return t == TypeArray || t == TypeStruct || t == TypeMap
}

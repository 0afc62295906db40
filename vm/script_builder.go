package vm

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// ScriptBuilder assembles a script byte-by-byte. It performs no validation
// beyond what each Emit* method's own encoding requires; structural
// validation of the result happens only when it is handed to
// NewScriptWithMode in strict mode (NewScript does not validate).
type ScriptBuilder struct {
	output []byte
}

// NewScriptBuilder returns an empty builder.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{}
}

// Len returns the number of bytes emitted so far.
func (b *ScriptBuilder) Len() int { return len(b.output) }

// Bytes returns the assembled script.
func (b *ScriptBuilder) Bytes() []byte {
	out := make([]byte, len(b.output))
	copy(out, b.output)
	return out
}

// Emit appends opcode followed by operand verbatim.
func (b *ScriptBuilder) Emit(opcode OpCode, operand []byte) *ScriptBuilder {
	b.output = append(b.output, byte(opcode))
	b.output = append(b.output, operand...)
	return b
}

// EmitRaw appends pre-assembled bytes directly, e.g. an inlined subscript.
func (b *ScriptBuilder) EmitRaw(script []byte) *ScriptBuilder {
	b.output = append(b.output, script...)
	return b
}

// EmitCall emits CALL (1-byte offset) or CALL_L (4-byte offset), picking
// the short form whenever offset fits in an int8.
func (b *ScriptBuilder) EmitCall(offset int32) *ScriptBuilder {
	if offset < -128 || offset > 127 {
		return b.Emit(CALL_L, le32(offset))
	}
	return b.Emit(CALL, []byte{byte(int8(offset))})
}

// EmitJump emits one of the JMP/JMPIF/.../JMPLE family, choosing the
// opcode's short or _L form by whether offset fits in an int8. opcode must
// be one of the non-_L jump mnemonics (JMP..JMPLE); EmitJump selects _L
// itself by stepping to the next opcode value, mirroring the reference
// encoding where every short-form jump opcode is immediately followed by
// its _L counterpart.
func (b *ScriptBuilder) EmitJump(opcode OpCode, offset int32) (*ScriptBuilder, error) {
	code := byte(opcode)
	if code < byte(JMP) || code > byte(JMPLE_L) {
		return nil, fmt.Errorf("%w: EmitJump opcode 0x%02x", ErrInvalidOpcode, code)
	}
	if code%2 == 0 && (offset < -128 || offset > 127) {
		code++
	}
	if code%2 == 0 {
		return b.Emit(OpCode(code), []byte{byte(int8(offset))}), nil
	}
	return b.Emit(OpCode(code), le32(offset)), nil
}

// EmitInt emits the shortest PUSH* encoding for value: PUSHM1/PUSH0..16 for
// the fused small-integer range, otherwise the smallest PUSHINT{8,16,32,
// 64,128,256} that fits its two's-complement encoding.
func (b *ScriptBuilder) EmitInt(value *big.Int) (*ScriptBuilder, error) {
	if value.Cmp(big.NewInt(-1)) == 0 {
		return b.Emit(PUSHM1, nil), nil
	}
	if value.Sign() >= 0 && value.Cmp(big.NewInt(16)) <= 0 {
		return b.Emit(OpCode(byte(PUSH0)+byte(value.Int64())), nil), nil
	}
	encoded := IntegerToBytesLE(value)
	if len(encoded) > 32 {
		return nil, fmt.Errorf("%w: integer needs more than 32 bytes", ErrIntegerTooLarge)
	}
	opcode, size := pushIntSizeFor(len(encoded))
	signByte := byte(0x00)
	if value.Sign() < 0 {
		signByte = 0xFF
	}
	for len(encoded) < size {
		encoded = append(encoded, signByte)
	}
	return b.Emit(opcode, encoded), nil
}

func pushIntSizeFor(n int) (OpCode, int) {
	switch {
	case n <= 1:
		return PUSHINT8, 1
	case n <= 2:
		return PUSHINT16, 2
	case n <= 4:
		return PUSHINT32, 4
	case n <= 8:
		return PUSHINT64, 8
	case n <= 16:
		return PUSHINT128, 16
	default:
		return PUSHINT256, 32
	}
}

// EmitBool emits PUSHT or PUSHF.
func (b *ScriptBuilder) EmitBool(value bool) *ScriptBuilder {
	if value {
		return b.Emit(PUSHT, nil)
	}
	return b.Emit(PUSHF, nil)
}

// EmitBytes emits the smallest PUSHDATA{1,2,4} that fits data's length.
func (b *ScriptBuilder) EmitBytes(data []byte) *ScriptBuilder {
	switch {
	case len(data) < 0x100:
		b.output = append(b.output, byte(PUSHDATA1), byte(len(data)))
	case len(data) < 0x10000:
		b.output = append(b.output, byte(PUSHDATA2))
		b.output = binary.LittleEndian.AppendUint16(b.output, uint16(len(data)))
	default:
		b.output = append(b.output, byte(PUSHDATA4))
		b.output = binary.LittleEndian.AppendUint32(b.output, uint32(len(data)))
	}
	b.output = append(b.output, data...)
	return b
}

// EmitString is EmitBytes over the UTF-8 encoding of s.
func (b *ScriptBuilder) EmitString(s string) *ScriptBuilder {
	return b.EmitBytes([]byte(s))
}

// EmitSyscall emits SYSCALL with a 4-byte little-endian interop id.
func (b *ScriptBuilder) EmitSyscall(id uint32) *ScriptBuilder {
	return b.Emit(SYSCALL, binary.LittleEndian.AppendUint32(nil, id))
}

func le32(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

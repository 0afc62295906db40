package vm

import (
	"encoding/binary"
	"fmt"
)

// Instruction is a single decoded opcode plus its operand bytes.
type Instruction struct {
	Opcode  OpCode
	Operand []byte
}

// RetInstruction is the implicit instruction synthesized for entry contexts
// that should return control as soon as they finish, without a RET byte
// actually present in the script.
var RetInstruction = Instruction{Opcode: RET}

// decodeInstruction decodes the instruction starting at ip within script.
// It never panics: malformed operand framing is reported as an error so the
// caller (Script, in both strict and lazy mode) can turn it into a Fault.
func decodeInstruction(script []byte, ip int) (Instruction, error) {
	if ip < 0 || ip >= len(script) {
		return Instruction{}, fmt.Errorf("%w: ip=%d", ErrInvalidInstructionPointer, ip)
	}

	opcode := OpCode(script[ip])
	prefixSize := opcode.OperandPrefixSize()

	if prefixSize > 0 {
		if ip+1+prefixSize > len(script) {
			return Instruction{}, fmt.Errorf("%w: prefix=%d", ErrInvalidPrefixSize, prefixSize)
		}

		var operandSize int
		switch prefixSize {
		case 1:
			operandSize = int(script[ip+1])
		case 2:
			operandSize = int(binary.LittleEndian.Uint16(script[ip+1 : ip+3]))
		case 4:
			operandSize = int(binary.LittleEndian.Uint32(script[ip+1 : ip+5]))
		}

		start := ip + 1 + prefixSize
		if start+operandSize > len(script) {
			return Instruction{}, fmt.Errorf("%w: ip=%d size=%d scriptlen=%d",
				ErrOperandOutOfBounds, ip, operandSize, len(script))
		}
		operand := make([]byte, operandSize)
		copy(operand, script[start:start+operandSize])
		return Instruction{Opcode: opcode, Operand: operand}, nil
	}

	operandSize := opcode.OperandSize()
	start := ip + 1
	if start+operandSize > len(script) {
		return Instruction{}, fmt.Errorf("%w: ip=%d size=%d scriptlen=%d",
			ErrOperandOutOfBounds, ip, operandSize, len(script))
	}
	operand := make([]byte, operandSize)
	copy(operand, script[start:start+operandSize])
	return Instruction{Opcode: opcode, Operand: operand}, nil
}

// Size returns the total byte length of the instruction (opcode + prefix +
// operand), i.e. how far the instruction pointer advances past it.
func (in Instruction) Size() int {
	prefixSize := in.Opcode.OperandPrefixSize()
	if prefixSize > 0 {
		return 1 + prefixSize + len(in.Operand)
	}
	return 1 + in.Opcode.OperandSize()
}

func (in Instruction) String() string {
	return in.Opcode.String()
}

// TokenI8 reads operand[0] as a signed byte (short jump/call offsets).
func (in Instruction) TokenI8() int8 { return int8(in.Operand[0]) }

// TokenI8At1 reads operand[1] as a signed byte (TRY's finally offset).
func (in Instruction) TokenI8At1() int8 { return int8(in.Operand[1]) }

// TokenU8 reads operand[0] as an unsigned byte (slot indices, type codes).
func (in Instruction) TokenU8() uint8 { return in.Operand[0] }

// TokenU8At1 reads operand[1] as an unsigned byte.
func (in Instruction) TokenU8At1() uint8 { return in.Operand[1] }

// TokenU16 reads operand[0:2] little-endian (CALLT's token index).
func (in Instruction) TokenU16() uint16 { return binary.LittleEndian.Uint16(in.Operand[:2]) }

// TokenI32 reads operand[0:4] little-endian, signed (long jump/call offsets).
func (in Instruction) TokenI32() int32 { return int32(binary.LittleEndian.Uint32(in.Operand[:4])) }

// TokenI32At4 reads operand[4:8] little-endian, signed (TRY_L's finally offset).
func (in Instruction) TokenI32At4() int32 { return int32(binary.LittleEndian.Uint32(in.Operand[4:8])) }

// TokenU32 reads operand[0:4] little-endian, unsigned (SYSCALL's token).
func (in Instruction) TokenU32() uint32 { return binary.LittleEndian.Uint32(in.Operand[:4]) }

// TokenI256 returns the 32-byte little-endian two's-complement payload of a
// PUSHINT256 instruction.
func (in Instruction) TokenI256() [32]byte {
	var out [32]byte
	copy(out[:], in.Operand[:32])
	return out
}

// TokenString decodes the operand as UTF-8 (ABORTMSG/ASSERTMSG-adjacent
// diagnostics and PUSHDATA-sourced literals read as text).
func (in Instruction) TokenString() string { return string(in.Operand) }

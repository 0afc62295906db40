package vm

// Script is an immutable instruction stream plus a decode cache. In lazy
// mode (the default) instructions are decoded the first time execution
// reaches them; in strict mode every instruction, and every jump/try target
// and type-code operand, is validated up front so a malformed script fails
// before the first instruction ever runs.
type Script struct {
	value        []byte
	strictMode   bool
	instructions map[int]Instruction
}

// NewScript wraps code in lazy-decoding mode.
func NewScript(code []byte) *Script {
	s, _ := NewScriptWithMode(code, false)
	return s
}

// NewScriptWithMode wraps code and, if strictMode is true, immediately
// decodes and validates the whole script. It returns an error instead of
// panicking if validation fails, so callers can reject bad scripts before
// ever loading them into an Engine.
func NewScriptWithMode(code []byte, strictMode bool) (*Script, error) {
	s := &Script{
		value:        code,
		strictMode:   strictMode,
		instructions: make(map[int]Instruction),
	}
	if strictMode {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the script's byte length.
func (s *Script) Len() int { return len(s.value) }

// IsEmpty reports whether the script has zero bytes.
func (s *Script) IsEmpty() bool { return len(s.value) == 0 }

// Bytes returns the underlying byte slice. Callers must not mutate it.
func (s *Script) Bytes() []byte { return s.value }

// At returns the raw opcode byte at index, or false if out of range.
func (s *Script) At(index int) (OpCode, bool) {
	if index < 0 || index >= len(s.value) {
		return 0, false
	}
	return OpCode(s.value[index]), true
}

// GetInstruction returns the decoded instruction at ip, decoding and
// caching it on first access unless the script is in strict mode, in which
// case every ip must already be in the cache from the constructor's
// validation pass.
func (s *Script) GetInstruction(ip int) (Instruction, error) {
	if ip < 0 || ip >= len(s.value) {
		return Instruction{}, wrapIP(ErrInvalidInstructionPointer, ip)
	}

	if in, ok := s.instructions[ip]; ok {
		return in, nil
	}

	if s.strictMode {
		return Instruction{}, wrapIP(ErrInstructionNotFound, ip)
	}

	in, err := decodeInstruction(s.value, ip)
	if err != nil {
		return Instruction{}, err
	}
	s.instructions[ip] = in
	return in, nil
}

func wrapIP(sentinel error, ip int) error {
	return &ipError{sentinel: sentinel, ip: ip}
}

type ipError struct {
	sentinel error
	ip       int
}

func (e *ipError) Error() string { return e.sentinel.Error() }
func (e *ipError) Unwrap() error { return e.sentinel }

// validate pre-walks the entire script, decoding every instruction and
// checking that every jump/call/try target lands on an instruction
// boundary and every ISTYPE/CONVERT/NEWARRAY_T type operand is a defined,
// non-Any (except for NEWARRAY_T, which may legally request Any) item
// type. A first pass decodes and caches every instruction; a second pass
// checks the targets and type operands against that complete cache, so
// forward targets are checked the same way as backward ones.
func (s *Script) validate() error {
	for ip := 0; ip < len(s.value); {
		in, err := decodeInstruction(s.value, ip)
		if err != nil {
			return err
		}
		s.instructions[ip] = in
		ip += in.Size()
	}

	ip := 0
	for ip < len(s.value) {
		in := s.instructions[ip]

		switch in.Opcode {
		case JMP, JMPIF, JMPIFNOT, JMPEQ, JMPNE, JMPGT, JMPGE, JMPLT, JMPLE, CALL, ENDTRY:
			target := ip + int(in.TokenI8())
			if _, err := s.GetInstruction(target); err != nil {
				return wrapIP(ErrInvalidJumpTarget, target)
			}
		case PUSHA, JMP_L, JMPIF_L, JMPIFNOT_L, JMPEQ_L, JMPNE_L, JMPGT_L, JMPGE_L,
			JMPLT_L, JMPLE_L, CALL_L, ENDTRY_L:
			target := ip + int(in.TokenI32())
			if _, err := s.GetInstruction(target); err != nil {
				return wrapIP(ErrInvalidJumpTarget, target)
			}
		case TRY:
			catchTarget := ip + int(in.TokenI8())
			finallyTarget := ip + int(in.TokenI8At1())
			if _, err := s.GetInstruction(catchTarget); err != nil {
				return wrapIP(ErrInvalidJumpTarget, catchTarget)
			}
			if _, err := s.GetInstruction(finallyTarget); err != nil {
				return wrapIP(ErrInvalidJumpTarget, finallyTarget)
			}
		case TRY_L:
			catchTarget := ip + int(in.TokenI32())
			finallyTarget := ip + int(in.TokenI32At4())
			if _, err := s.GetInstruction(catchTarget); err != nil {
				return wrapIP(ErrInvalidJumpTarget, catchTarget)
			}
			if _, err := s.GetInstruction(finallyTarget); err != nil {
				return wrapIP(ErrInvalidJumpTarget, finallyTarget)
			}
		case NEWARRAY_T, ISTYPE, CONVERT:
			typeCode := in.TokenU8()
			if !IsValidItemType(typeCode) {
				return wrapIP(ErrInvalidStackItemType, ip)
			}
			if in.Opcode != NEWARRAY_T && ItemType(typeCode) == TypeAny {
				return wrapIP(ErrInvalidStackItemType, ip)
			}
		}

		ip += in.Size()
	}
	return nil
}

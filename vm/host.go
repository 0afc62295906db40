package vm

import (
	"fmt"

	"github.com/r3e-network/neo-vm-go/internal/nvmcrypto"
)

// InteropFunc is one SYSCALL target: it reads its arguments off the
// current context's evaluation stack and pushes its result (if any) the
// same way, exactly as any other opcode handler would.
type InteropFunc func(e *Engine) error

// TokenEntry is one CALLT target: a script plus the entry offset CALLT
// should clone-and-jump to, and the number of return values RET should
// enforce for that call.
type TokenEntry struct {
	Script  *Script
	Offset  int
	RVCount int
}

// BasicHost is a minimal Host that dispatches SYSCALL by a uint32 id and
// CALLT by a uint16 index into a fixed token table. It is the engine's one
// concrete example of the extension point spec.md leaves to "the host
// contract" rather than to the VM core.
type BasicHost struct {
	syscalls map[uint32]InteropFunc
	tokens   []TokenEntry
}

// NewBasicHost returns a host with no registered syscalls or tokens.
func NewBasicHost() *BasicHost {
	return &BasicHost{syscalls: make(map[uint32]InteropFunc)}
}

// Register binds id to fn. Re-registering an id overwrites the previous
// binding.
func (h *BasicHost) Register(id uint32, fn InteropFunc) {
	h.syscalls[id] = fn
}

// SetTokens replaces the CALLT token table wholesale.
func (h *BasicHost) SetTokens(tokens []TokenEntry) {
	h.tokens = tokens
}

func (h *BasicHost) SysCall(e *Engine, token uint32) error {
	fn, ok := h.syscalls[token]
	if !ok {
		return fmt.Errorf("%w: syscall %d not registered", ErrHostCallFailed, token)
	}
	return fn(e)
}

func (h *BasicHost) LoadToken(e *Engine, token uint16) error {
	if int(token) >= len(h.tokens) {
		return fmt.Errorf("%w: token %d out of range", ErrHostCallFailed, token)
	}
	entry := h.tokens[token]
	ctx := NewExecutionContext(entry.Script, entry.RVCount, e.ReferenceCounter())
	if err := ctx.SetInstructionPointer(entry.Offset); err != nil {
		return err
	}
	return e.loadContext(ctx)
}

// Sha3256ID is the syscall id the example Keccak-256 hook is registered
// under; callers picking their own numbering should avoid colliding with
// it if they mount BasicHost's defaults.
const Sha3256ID uint32 = 1

// RegisterSha3256 wires a syscall that pops a ByteString/Buffer, hashes it
// with Keccak-256, and pushes the 32-byte digest as a ByteString. It
// demonstrates how a host turns raw stack items into a real side-effecting
// call without the engine knowing anything about hashing.
func RegisterSha3256(h *BasicHost) {
	h.Register(Sha3256ID, func(e *Engine) error {
		item, err := e.Pop()
		if err != nil {
			return err
		}
		data, err := item.Bytes()
		if err != nil {
			return err
		}
		e.Push(NewByteString(nvmcrypto.Keccak256(data)))
		return nil
	})
}

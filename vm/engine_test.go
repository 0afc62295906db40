package vm

import (
	"math/big"
	"testing"
)

// run builds an engine over code, executes it to completion, and returns
// the engine so the caller can inspect its result stack / final state.
func run(t *testing.T, code []byte, rvCount int) *Engine {
	t.Helper()
	script, err := NewScriptWithMode(code, true)
	if err != nil {
		t.Fatalf("NewScriptWithMode: %v", err)
	}
	e := NewEngine(DefaultLimits(), nil)
	if err := e.LoadScript(script, rvCount); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	e.Execute()
	return e
}

// ---------------------------------------------------------------------------
// Arithmetic end to end: PUSH1 PUSH2 ADD RET
// ---------------------------------------------------------------------------

func TestEngine_PushAdd(t *testing.T) {
	code := []byte{byte(PUSH1), byte(PUSH2), byte(ADD), byte(RET)}
	e := run(t, code, 1)

	if e.State() != StateHalt {
		t.Fatalf("state = %s, want HALT", e.State())
	}
	if e.ResultStack().Count() != 1 {
		t.Fatalf("result count = %d, want 1", e.ResultStack().Count())
	}
	top, err := e.ResultStack().Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	n, err := top.Integer()
	if err != nil {
		t.Fatalf("Integer: %v", err)
	}
	if n.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("result = %s, want 3", n)
	}
}

// ---------------------------------------------------------------------------
// Jumps: JMP over a dead ABORT straight to RET
// ---------------------------------------------------------------------------

func TestEngine_Jump(t *testing.T) {
	code := []byte{
		byte(PUSH5),
		byte(JMP), 3, // jump past ABORT to RET
		byte(ABORT),
		byte(RET),
	}
	e := run(t, code, 1)

	if e.State() != StateHalt {
		t.Fatalf("state = %s, want HALT", e.State())
	}
	top, err := e.ResultStack().Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	n, _ := top.Integer()
	if n.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("result = %s, want 5", n)
	}
}

// ---------------------------------------------------------------------------
// ABORT faults directly and is not catchable by TRY/CATCH
// ---------------------------------------------------------------------------

func TestEngine_AbortIsUncatchable(t *testing.T) {
	// addr: 0=TRY 1=catchOff 2=finallyOff 3=ABORT 4=RET 5=PUSH1(catch) 6=RET
	code := []byte{
		byte(TRY), 5, 0, // catch clause at addr 5, no finally
		byte(ABORT),
		byte(RET),
		byte(PUSH1), // catch clause: would run if ABORT were catchable
		byte(RET),
	}
	e := run(t, code, -1)
	if e.State() != StateFault {
		t.Fatalf("state = %s, want FAULT", e.State())
	}
}

// ---------------------------------------------------------------------------
// THROW unwinds to the nearest CATCH and leaves the exception on the stack
// ---------------------------------------------------------------------------

func TestEngine_ThrowCaught(t *testing.T) {
	// addr: 0=TRY 1=catchOff 2=finallyOff 3=PUSH1 4=THROW 5=ABORT(skipped)
	//       6=ENDTRY 7=endOff 8=RET
	code := []byte{
		byte(TRY), 6, 0, // catch clause at addr 6, no finally
		byte(PUSH1),
		byte(THROW),
		byte(ABORT), // skipped
		// catch clause (exception value already pushed by throw's unwind):
		byte(ENDTRY), 2, // end target at addr 6+2=8
		byte(RET),
	}
	e := run(t, code, 1)
	if e.State() != StateHalt {
		t.Fatalf("state = %s, want HALT", e.State())
	}
	top, err := e.ResultStack().Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	n, _ := top.Integer()
	if n.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("result = %s, want 1 (the thrown value)", n)
	}
}

// ---------------------------------------------------------------------------
// THROW with nothing to catch it faults with ErrUncaughtException
// ---------------------------------------------------------------------------

func TestEngine_ThrowUncaught(t *testing.T) {
	code := []byte{byte(PUSH1), byte(THROW)}
	e := run(t, code, -1)
	if e.State() != StateFault {
		t.Fatalf("state = %s, want FAULT", e.State())
	}
	if e.UncaughtException() == nil {
		t.Fatalf("UncaughtException() = nil, want the thrown item")
	}
}

// ---------------------------------------------------------------------------
// CALL shares the caller's evaluation stack: a callee RET with no
// explicit rvcount check just leaves its pushes on the same stack.
// ---------------------------------------------------------------------------

func TestEngine_Call(t *testing.T) {
	code := []byte{
		byte(CALL), 3, // call the PUSH7/RET subroutine below
		byte(RET),
		// subroutine at offset 3:
		byte(PUSH7),
		byte(RET),
	}
	e := run(t, code, 1)
	if e.State() != StateHalt {
		t.Fatalf("state = %s, want HALT", e.State())
	}
	top, err := e.ResultStack().Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	n, _ := top.Integer()
	if n.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("result = %s, want 7", n)
	}
}

// ---------------------------------------------------------------------------
// ASSERT on a falsy top faults with ErrAssertionFailed
// ---------------------------------------------------------------------------

func TestEngine_AssertFails(t *testing.T) {
	code := []byte{byte(PUSHF), byte(ASSERT), byte(RET)}
	e := run(t, code, 0)
	if e.State() != StateFault {
		t.Fatalf("state = %s, want FAULT", e.State())
	}
}

// ---------------------------------------------------------------------------
// Invalid opcode faults rather than panicking
// ---------------------------------------------------------------------------

func TestEngine_InvalidOpcode(t *testing.T) {
	code := []byte{0xFF}
	e := run(t, code, -1)
	if e.State() != StateFault {
		t.Fatalf("state = %s, want FAULT", e.State())
	}
}

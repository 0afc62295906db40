package vm

import (
	"math/big"
	"testing"
)

// newTestEngine returns an engine with a single loaded context over a
// trivial script, so op handlers can be invoked directly against its
// current evaluation stack without running Execute.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	script, err := NewScriptWithMode([]byte{byte(NOP)}, true)
	if err != nil {
		t.Fatalf("NewScriptWithMode: %v", err)
	}
	e := NewEngine(DefaultLimits(), nil)
	if err := e.LoadScript(script, -1); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	return e
}

func mustPopInt(t *testing.T, e *Engine) int64 {
	t.Helper()
	item, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	n, err := item.Integer()
	if err != nil {
		t.Fatalf("Integer: %v", err)
	}
	return n.Int64()
}

// ---------------------------------------------------------------------------
// PACK / UNPACK round trip
// ---------------------------------------------------------------------------

func TestOpPackUnpack(t *testing.T) {
	e := newTestEngine(t)
	e.Push(MustNewInteger(big.NewInt(1)))
	e.Push(MustNewInteger(big.NewInt(2)))
	e.Push(MustNewInteger(big.NewInt(3)))
	e.Push(MustNewInteger(big.NewInt(3))) // count

	in := Instruction{Opcode: PACK}
	if err := opPack(false)(e, in); err != nil {
		t.Fatalf("opPack: %v", err)
	}

	arr, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	a, ok := arr.(*Array)
	if !ok {
		t.Fatalf("got %T, want *Array", arr)
	}
	// items are appended in pop order: top of stack (3) popped first.
	if a.Len() != 3 {
		t.Fatalf("len = %d, want 3", a.Len())
	}
	if n, _ := a.At(0).Integer(); n.Int64() != 3 {
		t.Fatalf("items[0] = %s, want 3", n)
	}
	if n, _ := a.At(2).Integer(); n.Int64() != 1 {
		t.Fatalf("items[2] = %s, want 1", n)
	}

	e.Push(a)
	if err := opUnpack(e, Instruction{Opcode: UNPACK}); err != nil {
		t.Fatalf("opUnpack: %v", err)
	}
	if got := mustPopInt(t, e); got != 3 {
		t.Fatalf("unpacked count = %d, want 3", got)
	}
}

// ---------------------------------------------------------------------------
// PACKMAP pops (key, value) pairs per iteration
// ---------------------------------------------------------------------------

func TestOpPackMap(t *testing.T) {
	e := newTestEngine(t)
	// push value1,key1 then value2,key2, then count=2: each key sits above
	// its value so it is popped first
	e.Push(MustNewInteger(big.NewInt(10)))
	e.Push(NewByteString([]byte("k1")))
	e.Push(MustNewInteger(big.NewInt(20)))
	e.Push(NewByteString([]byte("k2")))
	e.Push(MustNewInteger(big.NewInt(2)))

	if err := opPackMap(e, Instruction{Opcode: PACKMAP}); err != nil {
		t.Fatalf("opPackMap: %v", err)
	}
	item, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	m, ok := item.(*Map)
	if !ok {
		t.Fatalf("got %T, want *Map", item)
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
	v, ok := m.Get(NewByteString([]byte("k2")))
	if !ok {
		t.Fatalf("k2 missing")
	}
	if n, _ := v.Integer(); n.Int64() != 20 {
		t.Fatalf("k2 = %s, want 20", n)
	}
}

// ---------------------------------------------------------------------------
// NEWARRAY_T fills with the per-type default
// ---------------------------------------------------------------------------

func TestOpNewArrayT(t *testing.T) {
	e := newTestEngine(t)
	e.Push(MustNewInteger(big.NewInt(3)))
	in := Instruction{Opcode: NEWARRAY_T, Operand: []byte{byte(TypeBoolean)}}
	if err := opNewArrayT(e, in); err != nil {
		t.Fatalf("opNewArrayT: %v", err)
	}
	item, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	a := item.(*Array)
	if a.Len() != 3 {
		t.Fatalf("len = %d, want 3", a.Len())
	}
	for i := 0; i < 3; i++ {
		if a.At(i).Boolean() != false {
			t.Fatalf("items[%d].Boolean() = true, want false", i)
		}
	}
}

// ---------------------------------------------------------------------------
// APPEND / SIZE / PICKITEM over an Array
// ---------------------------------------------------------------------------

func TestOpAppendSizePickItem(t *testing.T) {
	e := newTestEngine(t)
	e.Push(NewArray(nil, e.ReferenceCounter()))
	arrItem, _ := e.Peek(0)

	e.Push(arrItem)
	e.Push(MustNewInteger(big.NewInt(42)))
	if err := opAppend(e, Instruction{Opcode: APPEND}); err != nil {
		t.Fatalf("opAppend: %v", err)
	}

	e.Push(arrItem)
	if err := opSize(e, Instruction{Opcode: SIZE}); err != nil {
		t.Fatalf("opSize: %v", err)
	}
	if got := mustPopInt(t, e); got != 1 {
		t.Fatalf("size = %d, want 1", got)
	}

	e.Push(arrItem)
	e.Push(MustNewInteger(big.NewInt(0)))
	if err := opPickItem(e, Instruction{Opcode: PICKITEM}); err != nil {
		t.Fatalf("opPickItem: %v", err)
	}
	if got := mustPopInt(t, e); got != 42 {
		t.Fatalf("picked = %d, want 42", got)
	}

	// clean up the still-on-stack placeholder pushed at the top of the test.
	if _, err := e.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
}

// ---------------------------------------------------------------------------
// HASKEY over a Map: a present key and a missing key
// ---------------------------------------------------------------------------

func TestOpHasKey(t *testing.T) {
	e := newTestEngine(t)
	m := NewMap(e.ReferenceCounter())
	if err := m.Set(MustNewInteger(big.NewInt(1)), Boolean(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	e.Push(m)
	e.Push(MustNewInteger(big.NewInt(1)))
	if err := opHasKey(e, Instruction{Opcode: HASKEY}); err != nil {
		t.Fatalf("opHasKey: %v", err)
	}
	item, _ := e.Pop()
	if !item.Boolean() {
		t.Fatalf("HASKEY(1) = false, want true")
	}

	e.Push(m)
	e.Push(MustNewInteger(big.NewInt(2)))
	if err := opHasKey(e, Instruction{Opcode: HASKEY}); err != nil {
		t.Fatalf("opHasKey: %v", err)
	}
	item, _ = e.Pop()
	if item.Boolean() {
		t.Fatalf("HASKEY(2) = true, want false")
	}
}

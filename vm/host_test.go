package vm

import "testing"

func TestBasicHost_Sha3256Syscall(t *testing.T) {
	host := NewBasicHost()
	RegisterSha3256(host)

	script, err := NewScriptWithMode([]byte{byte(NOP)}, true)
	if err != nil {
		t.Fatalf("NewScriptWithMode: %v", err)
	}
	e := NewEngine(DefaultLimits(), host)
	if err := e.LoadScript(script, -1); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	e.Push(NewByteString([]byte("abc")))
	if err := host.SysCall(e, Sha3256ID); err != nil {
		t.Fatalf("SysCall: %v", err)
	}

	item, err := e.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	digest, err := item.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(digest) != 32 {
		t.Fatalf("digest len = %d, want 32", len(digest))
	}
}

func TestBasicHost_UnregisteredSyscallFails(t *testing.T) {
	host := NewBasicHost()
	script, _ := NewScriptWithMode([]byte{byte(NOP)}, true)
	e := NewEngine(DefaultLimits(), host)
	if err := e.LoadScript(script, -1); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if err := host.SysCall(e, 999); err == nil {
		t.Fatalf("SysCall(999) = nil, want error")
	}
}

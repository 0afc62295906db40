package nvmcrypto

import (
	"bytes"
	"testing"
)

func TestKeccak256Length(t *testing.T) {
	h := Keccak256([]byte("hello"))
	if len(h) != 32 {
		t.Fatalf("Keccak256 length = %d, want 32", len(h))
	}
}

func TestKeccak256Deterministic(t *testing.T) {
	data := []byte("deterministic test")
	h1 := Keccak256(data)
	h2 := Keccak256(data)
	if !bytes.Equal(h1, h2) {
		t.Fatal("Keccak256 is not deterministic")
	}
}

func TestKeccak256DistinguishesInputs(t *testing.T) {
	h1 := Keccak256([]byte("a"))
	h2 := Keccak256([]byte("b"))
	if bytes.Equal(h1, h2) {
		t.Fatal("Keccak256(\"a\") == Keccak256(\"b\")")
	}
}

func TestKeccak256MultipleInputsConcatenate(t *testing.T) {
	combined := Keccak256([]byte("helloworld"))
	separate := Keccak256([]byte("hello"), []byte("world"))
	if !bytes.Equal(combined, separate) {
		t.Fatalf("Keccak256(\"hello\",\"world\") != Keccak256(\"helloworld\")")
	}
}

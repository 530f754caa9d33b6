package secrets

import (
	"encoding/hex"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey(32)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if len(key) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(key))
	}
	if _, err := hex.DecodeString(key); err != nil {
		t.Errorf("key is not hex: %v", err)
	}

	other, err := GenerateKey(32)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if key == other {
		t.Error("two generated keys must not collide")
	}
}

func TestGenerateKeyDefaultSize(t *testing.T) {
	for _, n := range []int{0, -5} {
		key, err := GenerateKey(n)
		if err != nil {
			t.Fatalf("GenerateKey(%d): %v", n, err)
		}
		if len(key) != 64 {
			t.Errorf("GenerateKey(%d) length = %d, want default 64", n, len(key))
		}
	}
}

func TestHashKey(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := HashKey("abc"); got != want {
		t.Errorf("HashKey(abc) = %s, want %s", got, want)
	}
	if HashKey("a") == HashKey("b") {
		t.Error("different keys must hash differently")
	}
}

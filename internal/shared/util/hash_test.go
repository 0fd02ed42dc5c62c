package util

import "testing"

func TestHashOwnerKey(t *testing.T) {
	id := "3f1b7a52-5a0e-4a5e-9c70-1f9a4f1f2b3c"
	got := HashOwnerKey(id)
	if got != HashOwnerKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

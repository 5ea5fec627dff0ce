package cache

import (
	"testing"
)

func TestPathKey(t *testing.T) {
	key := PathKey(1234, 5678)
	expected := "path:1234:5678"
	if key != expected {
		t.Errorf("PathKey() = %v, want %v", key, expected)
	}
}

func TestPathKey_OrderMatters(t *testing.T) {
	k1 := PathKey(1, 2)
	k2 := PathKey(2, 1)
	if k1 == k2 {
		t.Error("PathKey should distinguish source/sink order")
	}
}

func TestQuickHash(t *testing.T) {
	data := []byte("test data")
	hash := QuickHash(data)

	if len(hash) != 64 { // SHA256 hex = 64 chars
		t.Errorf("QuickHash length = %d, want 64", len(hash))
	}

	hash2 := QuickHash(data)
	if hash != hash2 {
		t.Error("same data should produce same hash")
	}
}

func TestShortHash(t *testing.T) {
	data := []byte("test data")
	hash := ShortHash(data)

	if len(hash) != 16 {
		t.Errorf("ShortHash length = %d, want 16", len(hash))
	}
}

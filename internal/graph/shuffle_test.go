package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle_Bijection(t *testing.T) {
	seen := make(map[int32]int32, 2000)
	for i := int32(-1000); i < 1000; i++ {
		s := Shuffle(i)
		if prev, ok := seen[s]; ok {
			t.Fatalf("shuffle collision: Shuffle(%d) == Shuffle(%d) == %d", prev, i, s)
		}
		seen[s] = i
	}
}

func TestShuffle_Deterministic(t *testing.T) {
	assert.Equal(t, Shuffle(42), Shuffle(42))
}

func TestShuffle_KnownValue(t *testing.T) {
	// Rotating the low 6 bits of 0 to the top and XORing with 0x55555555
	// leaves the XOR mask untouched.
	assert.Equal(t, int32(0x55555555), Shuffle(0))
}

package rsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEncodeStartingTimeKnownValues(t *testing.T) {
	// T1=0, T2=0, T3=0 -> all zero bytes.
	assert.Equal(t, [2]byte{0x00, 0x00}, EncodeStartingTime(0, 0, 0))
}

func TestStartingTimeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		t1 := rapid.IntRange(0, 10000).Draw(t, "t1")
		t2 := rapid.IntRange(0, 25).Draw(t, "t2")
		t3 := rapid.IntRange(0, 50).Draw(t, "t3")

		enc := EncodeStartingTime(t1, t2, t3)
		gotT1mod32, gotT2, gotT3 := DecodeStartingTime(enc)

		assert.Equal(t, t1%32, gotT1mod32, "t1 mod 32 round-trip")
		assert.Equal(t, t2, gotT2, "t2 round-trip")
		assert.Equal(t, t3, gotT3, "t3 round-trip")
	})
}

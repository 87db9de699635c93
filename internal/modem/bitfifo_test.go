package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_BitFIFO_PutGet_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bit := rapid.IntRange(0, 1).Draw(t, "bit")
		f := NewBitFIFO(64)
		f.PutBit(bit)
		assert.Equal(t, bit, f.GetBit())
	})
}

func Test_BitFIFO_GetBit_emptyReturnsNoBit(t *testing.T) {
	f := NewBitFIFO(8)
	assert.Equal(t, NoBit, f.GetBit())
}

func Test_BitFIFO_PutBits_GetBits_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 16).Draw(t, "n")
		v := uint32(rapid.IntRange(0, (1<<16)-1).Draw(t, "v")) & ((1 << uint(n)) - 1)
		f := NewBitFIFO(64)
		f.PutBits(v, n)
		assert.Equal(t, int(v), f.GetBits(n))
	})
}

func Test_BitFIFO_overflow_dropsSilently(t *testing.T) {
	f := NewBitFIFO(4)
	for i := 0; i < 8; i++ {
		f.PutBit(1)
	}
	assert.Equal(t, 4, f.Size())
}

package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CPFrame_encodeParse_roundTrip(t *testing.T) {
	f := CPFrame{
		DRN:                 9,
		Sr:                  3,
		Ack:                 true,
		ALaw:                false,
		RateMask:            0x1A5,
		Ld:                  12,
		RMSTrn1d:            200,
		A1:                  1000,
		A2:                  -1000,
		B1:                  500,
		B2:                  -500,
		MIndex:              [6]int{1, 2, 3, 4, 5, 6},
		SecondConstellation: true,
		ConstMasks:          []uint64{0x0102030405060708, 0x1112131415161718},
	}
	bits := f.Encode()

	got, ok := ParseCPFrame(bits[cpSyncOnes:])
	assert.True(t, ok)
	assert.Equal(t, f.DRN, got.DRN)
	assert.Equal(t, f.Sr, got.Sr)
	assert.Equal(t, f.Ack, got.Ack)
	assert.Equal(t, f.ALaw, got.ALaw)
	assert.Equal(t, f.RateMask, got.RateMask)
	assert.Equal(t, f.Ld, got.Ld)
	assert.Equal(t, f.RMSTrn1d, got.RMSTrn1d)
	assert.Equal(t, f.A1, got.A1)
	assert.Equal(t, f.A2, got.A2)
	assert.Equal(t, f.B1, got.B1)
	assert.Equal(t, f.B2, got.B2)
	assert.Equal(t, f.MIndex, got.MIndex)
	assert.Equal(t, f.SecondConstellation, got.SecondConstellation)
	assert.Equal(t, f.ConstMasks, got.ConstMasks)
}

func Test_CPFrame_corruptedCRC_rejected(t *testing.T) {
	f := CPFrame{DRN: 1, Sr: 1, Ld: 1, RMSTrn1d: 1}
	bits := f.Encode()
	payload := bits[cpSyncOnes:]
	payload[len(payload)-1] ^= 1

	_, ok := ParseCPFrame(payload)
	assert.False(t, ok)
}

func Test_CPFrame_tooShort_rejected(t *testing.T) {
	_, ok := ParseCPFrame(make([]int, 10))
	assert.False(t, ok)
}

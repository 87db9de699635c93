package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MPFrame_encodeParse_roundTrip(t *testing.T) {
	f := MPFrame{
		Type:             0,
		MaxRateC2A:       12,
		MaxRateA2C:       10,
		AuxChannel:       true,
		TrellisStateCode: 1,
		NonLinearEnable:  true,
		Shaping:          false,
		Ack:              true,
		RatesSupported:   0x1234 & 0x7FFF,
		Asym:             true,
	}
	bits := f.Encode()
	assert.GreaterOrEqual(t, len(bits), 88)

	got, ok := ParseMPFrame(bits[mpSyncOnes:])
	assert.True(t, ok)
	assert.Equal(t, f.MaxRateC2A, got.MaxRateC2A)
	assert.Equal(t, f.MaxRateA2C, got.MaxRateA2C)
	assert.Equal(t, f.AuxChannel, got.AuxChannel)
	assert.Equal(t, f.TrellisStateCode, got.TrellisStateCode)
	assert.Equal(t, f.Ack, got.Ack)
	assert.Equal(t, f.RatesSupported, got.RatesSupported)
	assert.Equal(t, f.Asym, got.Asym)
}

func Test_MPFrame_corruptedCRC_rejected(t *testing.T) {
	f := MPFrame{MaxRateC2A: 5, MaxRateA2C: 5, RatesSupported: 100}
	bits := f.Encode()
	payload := bits[mpSyncOnes:]
	payload[len(payload)-2] ^= 1 // flip a bit inside the CRC field

	_, ok := ParseMPFrame(payload)
	assert.False(t, ok)
}

func Test_crc16V34_zeroForEmpty(t *testing.T) {
	assert.Equal(t, uint16(0), crc16V34(nil))
}

package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_encodeDecodeCM_roundTrip(t *testing.T) {
	cases := []Modulation{
		ModV21,
		ModV23,
		ModV21 | ModV23,
		ModV34,
		ModV34 | ModV21,
		ModV90 | ModV34 | ModV23 | ModV21,
	}
	for _, mask := range cases {
		octets := encodeCM(mask)
		got := decodeCM(octets)
		assert.Equal(t, mask, got)
	}
}

func Test_SelectModulation_priority(t *testing.T) {
	assert.Equal(t, ModV90, SelectModulation(ModV90|ModV34, ModV90|ModV21))
	assert.Equal(t, ModV34, SelectModulation(ModV34|ModV21, ModV34|ModV23))
	assert.Equal(t, ModV23, SelectModulation(ModV23|ModV21, ModV23))
	assert.Equal(t, ModV21, SelectModulation(ModV21, ModV21))
	assert.Equal(t, Modulation(0), SelectModulation(ModV21, ModV23))
}

// Test_AnsamDetector_detectsPureTone is IF-9.
func Test_AnsamDetector_detectsPureTone(t *testing.T) {
	det := NewAnsamDetector()
	mod := NewAnsamMod()
	detected := false
	for i := 0; i < 400; i++ {
		if det.Push(mod.Sample()) {
			detected = true
			break
		}
	}
	assert.True(t, detected)
}

func Test_AnsamDetector_rejectsOffFrequencyTone(t *testing.T) {
	det := NewAnsamDetector()
	var phase uint32
	incr := uint32(PhaseBase) * 1800 / 8000
	detected := false
	for i := 0; i < 400; i++ {
		sample := int16((int64(DspCos(phase)) * 16384) >> CosBits)
		phase += incr
		if det.Push(sample) {
			detected = true
		}
	}
	assert.False(t, detected)
}

// Test_V8Negotiator_commonModulation is IF-6: both sides reach a
// terminal state with a shared modulation when their masks intersect.
func Test_V8Negotiator_commonModulation(t *testing.T) {
	caller := NewV8Negotiator(true, ModV21|ModV23)
	answerer := NewV8Negotiator(false, ModV21)

	var now int64
	const block = 80
	buf := make([]int16, block)

	for i := 0; i < 20000; i++ {
		caller.Tx(buf)
		answerer.Rx(buf)
		answerer.Tx(buf)
		caller.Rx(buf)

		now += block
		_, callerDone := caller.Process(now, block)
		_, answererDone := answerer.Process(now, block)
		if callerDone && answererDone {
			break
		}
	}

	assert.True(t, caller.Finished())
	assert.True(t, answerer.Finished())
}

package modem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_MuLaw_roundTrip_preservesSignAndMagnitude(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sample := int16(rapid.IntRange(-32635, 32635).Draw(rt, "sample"))
		code := LinearToMuLaw(sample)
		got := MuLawToLinear(code)

		if sample >= 0 {
			assert.GreaterOrEqual(rt, got, int16(0))
		} else {
			assert.LessOrEqual(rt, got, int16(0))
		}
		// u-law is lossy quantization; require it lands in the same ballpark.
		diff := int(got) - int(sample)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(rt, diff, 1<<12)
	})
}

func Test_ALaw_roundTrip_preservesSignAndMagnitude(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sample := int16(rapid.IntRange(-32635, 32635).Draw(rt, "sample"))
		code := LinearToALaw(sample)
		got := ALawToLinear(code)

		if sample >= 0 {
			assert.GreaterOrEqual(rt, got, int16(0))
		} else {
			assert.LessOrEqual(rt, got, int16(0))
		}
		diff := int(got) - int(sample)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(rt, diff, 1<<12)
	})
}

func Test_MuLaw_zeroRoundTrips(t *testing.T) {
	code := LinearToMuLaw(0)
	got := MuLawToLinear(code)
	assert.InDelta(t, 0, int(got), 16)
}

func Test_ALaw_zeroRoundTrips(t *testing.T) {
	code := LinearToALaw(0)
	got := ALawToLinear(code)
	assert.InDelta(t, 0, int(got), 16)
}

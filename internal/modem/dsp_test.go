package modem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_DspCos_bounds is IF-4.
func Test_DspCos_bounds(t *testing.T) {
	assert.Equal(t, int32(CosBase), DspCos(0))
	rapid.Check(t, func(t *rapid.T) {
		phase := uint32(rapid.Uint32().Draw(t, "phase"))
		v := DspCos(phase)
		assert.LessOrEqual(t, v, int32(CosBase))
		assert.GreaterOrEqual(t, v, int32(-CosBase))
	})
}

// Test_FFT_parseval is IF-5.
func Test_FFT_parseval(t *testing.T) {
	for _, n := range []int{128, 256, 512, 1024, 2048} {
		data := make([]Complex, n)
		for i := range data {
			data[i] = Complex{Re: math.Sin(2 * math.Pi * float64(i) * 3 / float64(n))}
		}
		var timeEnergy float64
		for _, c := range data {
			timeEnergy += c.Re*c.Re + c.Im*c.Im
		}

		FFT(data, false)

		var freqEnergy float64
		for _, c := range data {
			freqEnergy += c.Re*c.Re + c.Im*c.Im
		}

		assert.InEpsilonf(t, timeEnergy, freqEnergy, 0.001, "Parseval mismatch at N=%d", n)
	}
}

func Test_Hamming_endpointsNearZero(t *testing.T) {
	out := make([]float64, 64)
	Hamming(out)
	assert.InDelta(t, 0.08, out[0], 0.01)
}
